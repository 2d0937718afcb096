package domain

import (
	"context"
	"time"
)

// ListOpts provides pagination and date filtering for list queries.
type ListOpts struct {
	Limit  int
	Offset int
	Since  *time.Time
	Until  *time.Time
}

// OperationFilter narrows operation list queries.
type OperationFilter struct {
	ListOpts
	Status   OperationStatus // empty means all
	Strategy string          // empty means all
}

// OperationStore persists operations with their phases and legs.
type OperationStore interface {
	Create(ctx context.Context, op Operation) error
	Update(ctx context.Context, op Operation) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Operation, error)
	List(ctx context.Context, filter OperationFilter) ([]Operation, error)
	// ListClosed returns settled operations in the given window ordered by
	// event date ascending; it is the ledger-metrics input.
	ListClosed(ctx context.Context, since, until *time.Time) ([]Operation, error)
	Count(ctx context.Context) (int64, error)
}

// PartnerStore persists revenue-share partners.
type PartnerStore interface {
	Create(ctx context.Context, p Partner) error
	Update(ctx context.Context, p Partner) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Partner, error)
	List(ctx context.Context, activeOnly bool) ([]Partner, error)
}

// BookmakerStore persists bookmaker accounts.
type BookmakerStore interface {
	Create(ctx context.Context, b Bookmaker) error
	Update(ctx context.Context, b Bookmaker) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Bookmaker, error)
	List(ctx context.Context) ([]Bookmaker, error)
}

// TransactionStore persists cash-flow entries.
type TransactionStore interface {
	Create(ctx context.Context, tx Transaction) error
	CreateBatch(ctx context.Context, txs []Transaction) error
	UpdateStatus(ctx context.Context, id string, status TransactionStatus) error
	List(ctx context.Context, opts ListOpts) ([]Transaction, error)
	ListByOperation(ctx context.Context, operationID string) ([]Transaction, error)
}

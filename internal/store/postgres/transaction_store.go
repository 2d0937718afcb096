package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmaffei/arbdesk/internal/domain"
)

// TransactionStore implements domain.TransactionStore using PostgreSQL.
type TransactionStore struct {
	pool *pgxpool.Pool
}

// NewTransactionStore creates a new TransactionStore backed by the given pool.
func NewTransactionStore(pool *pgxpool.Pool) *TransactionStore {
	return &TransactionStore{pool: pool}
}

const txInsert = `
	INSERT INTO transactions (id, date, description, value, type, status,
	                          operation_id, partner_id, method, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), $9, $10)`

// Create inserts a single cash-flow entry.
func (s *TransactionStore) Create(ctx context.Context, tx domain.Transaction) error {
	_, err := s.pool.Exec(ctx, txInsert,
		tx.ID, tx.Date, tx.Description, tx.Value, string(tx.Type), string(tx.Status),
		tx.OperationID, tx.PartnerID, tx.Method, tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("postgres: create transaction %s: %w", tx.ID, err)
	}
	return nil
}

// CreateBatch inserts multiple entries in a single batch, e.g. the payout
// fan-out when an operation with several partners settles.
func (s *TransactionStore) CreateBatch(ctx context.Context, txs []domain.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, tx := range txs {
		batch.Queue(txInsert,
			tx.ID, tx.Date, tx.Description, tx.Value, string(tx.Type), string(tx.Status),
			tx.OperationID, tx.PartnerID, tx.Method, tx.CreatedAt)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()
	for i := range txs {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("postgres: create transaction batch item %d: %w", i, err)
		}
	}
	return nil
}

// UpdateStatus moves an entry between pending and settled.
func (s *TransactionStore) UpdateStatus(ctx context.Context, id string, status domain.TransactionStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE transactions SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("postgres: update transaction %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns entries newest first with optional pagination and date window.
func (s *TransactionStore) List(ctx context.Context, opts domain.ListOpts) ([]domain.Transaction, error) {
	query := `SELECT id, date, description, value, type, status,
	                 COALESCE(operation_id::text, ''), COALESCE(partner_id::text, ''),
	                 method, created_at
	          FROM transactions WHERE 1=1`
	args := []any{}

	if opts.Since != nil {
		args = append(args, *opts.Since)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if opts.Until != nil {
		args = append(args, *opts.Until)
		query += fmt.Sprintf(" AND date < $%d", len(args))
	}
	query += " ORDER BY date DESC"
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// ListByOperation returns the cash-flow entries attached to one operation.
func (s *TransactionStore) ListByOperation(ctx context.Context, operationID string) ([]domain.Transaction, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, date, description, value, type, status,
		        COALESCE(operation_id::text, ''), COALESCE(partner_id::text, ''),
		        method, created_at
		 FROM transactions WHERE operation_id = $1 ORDER BY date DESC`, operationID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list transactions for operation %s: %w", operationID, err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	for rows.Next() {
		var (
			tx          domain.Transaction
			typ, status string
		)
		err := rows.Scan(&tx.ID, &tx.Date, &tx.Description, &tx.Value, &typ, &status,
			&tx.OperationID, &tx.PartnerID, &tx.Method, &tx.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan transaction: %w", err)
		}
		tx.Type = domain.TransactionType(typ)
		tx.Status = domain.TransactionStatus(status)
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate transactions: %w", err)
	}
	return txs, nil
}

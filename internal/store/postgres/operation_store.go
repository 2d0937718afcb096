package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmaffei/arbdesk/internal/domain"
)

// OperationStore implements domain.OperationStore using PostgreSQL. Phases
// and their legs are stored as a JSONB document on the operation row, which
// preserves the exclusive-ownership model: a phase never exists outside its
// operation.
type OperationStore struct {
	pool *pgxpool.Pool
}

// NewOperationStore creates a new OperationStore backed by the given pool.
func NewOperationStore(pool *pgxpool.Pool) *OperationStore {
	return &OperationStore{pool: pool}
}

const operationColumns = `
	id, name, game, strategy, status, event_date, created_at, settled_at,
	phases, invested, return, profit, average_odd, commission,
	profit_manual, profit_override, profit_pass_commission, partner_ids`

// Create inserts a new operation.
func (s *OperationStore) Create(ctx context.Context, op domain.Operation) error {
	phases, err := json.Marshal(op.Phases)
	if err != nil {
		return fmt.Errorf("postgres: marshal phases for %s: %w", op.ID, err)
	}

	const query = `
		INSERT INTO operations (` + operationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
		        $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18)`
	_, err = s.pool.Exec(ctx, query,
		op.ID, op.Name, op.Game, op.Strategy, string(op.Status),
		op.EventDate, op.CreatedAt, op.SettledAt,
		phases, op.Invested, op.Return, op.Profit, op.AverageOdd, op.Commission,
		op.ProfitSource.Manual, op.ProfitSource.OverrideValue, op.ProfitSource.PassCommission,
		op.PartnerIDs,
	)
	if err != nil {
		return fmt.Errorf("postgres: create operation %s: %w", op.ID, err)
	}
	return nil
}

// Update rewrites an operation row, including its phase document.
func (s *OperationStore) Update(ctx context.Context, op domain.Operation) error {
	phases, err := json.Marshal(op.Phases)
	if err != nil {
		return fmt.Errorf("postgres: marshal phases for %s: %w", op.ID, err)
	}

	const query = `
		UPDATE operations SET
			name = $2, game = $3, strategy = $4, status = $5,
			event_date = $6, settled_at = $7, phases = $8,
			invested = $9, return = $10, profit = $11,
			average_odd = $12, commission = $13,
			profit_manual = $14, profit_override = $15, profit_pass_commission = $16,
			partner_ids = $17, updated_at = NOW()
		WHERE id = $1`
	tag, err := s.pool.Exec(ctx, query,
		op.ID, op.Name, op.Game, op.Strategy, string(op.Status),
		op.EventDate, op.SettledAt, phases,
		op.Invested, op.Return, op.Profit,
		op.AverageOdd, op.Commission,
		op.ProfitSource.Manual, op.ProfitSource.OverrideValue, op.ProfitSource.PassCommission,
		op.PartnerIDs,
	)
	if err != nil {
		return fmt.Errorf("postgres: update operation %s: %w", op.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes an operation and, via ownership, its phases and legs.
func (s *OperationStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM operations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: delete operation %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID fetches a single operation.
func (s *OperationStore) GetByID(ctx context.Context, id string) (domain.Operation, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+operationColumns+` FROM operations WHERE id = $1`, id)
	op, err := scanOperation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Operation{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Operation{}, fmt.Errorf("postgres: get operation %s: %w", id, err)
	}
	return op, nil
}

// List returns operations matching the filter, newest event first.
func (s *OperationStore) List(ctx context.Context, filter domain.OperationFilter) ([]domain.Operation, error) {
	query := `SELECT ` + operationColumns + ` FROM operations WHERE 1=1`
	args := []any{}
	n := 0

	add := func(clause string, value any) {
		n++
		query += fmt.Sprintf(" AND %s = $%d", clause, n)
		args = append(args, value)
	}
	if filter.Status != "" {
		add("status", string(filter.Status))
	}
	if filter.Strategy != "" {
		add("strategy", filter.Strategy)
	}
	if filter.Since != nil {
		n++
		query += fmt.Sprintf(" AND event_date >= $%d", n)
		args = append(args, *filter.Since)
	}
	if filter.Until != nil {
		n++
		query += fmt.Sprintf(" AND event_date < $%d", n)
		args = append(args, *filter.Until)
	}

	query += " ORDER BY event_date DESC, created_at DESC"
	if filter.Limit > 0 {
		n++
		query += fmt.Sprintf(" LIMIT $%d", n)
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list operations: %w", err)
	}
	defer rows.Close()
	return collectOperations(rows)
}

// ListClosed returns settled operations in the window, event date ascending —
// the input shape the ledger expects.
func (s *OperationStore) ListClosed(ctx context.Context, since, until *time.Time) ([]domain.Operation, error) {
	query := `SELECT ` + operationColumns + ` FROM operations WHERE status = $1`
	args := []any{string(domain.OperationSettled)}

	if since != nil {
		args = append(args, *since)
		query += fmt.Sprintf(" AND event_date >= $%d", len(args))
	}
	if until != nil {
		args = append(args, *until)
		query += fmt.Sprintf(" AND event_date < $%d", len(args))
	}
	query += " ORDER BY event_date ASC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list closed operations: %w", err)
	}
	defer rows.Close()
	return collectOperations(rows)
}

// Count returns the total number of operations.
func (s *OperationStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM operations`).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres: count operations: %w", err)
	}
	return count, nil
}

// scanOperation scans a single operation row.
func scanOperation(row pgx.Row) (domain.Operation, error) {
	var (
		op     domain.Operation
		status string
		phases []byte
	)
	err := row.Scan(
		&op.ID, &op.Name, &op.Game, &op.Strategy, &status,
		&op.EventDate, &op.CreatedAt, &op.SettledAt,
		&phases, &op.Invested, &op.Return, &op.Profit,
		&op.AverageOdd, &op.Commission,
		&op.ProfitSource.Manual, &op.ProfitSource.OverrideValue, &op.ProfitSource.PassCommission,
		&op.PartnerIDs,
	)
	if err != nil {
		return domain.Operation{}, err
	}
	op.Status = domain.OperationStatus(status)
	if len(phases) > 0 {
		if err := json.Unmarshal(phases, &op.Phases); err != nil {
			return domain.Operation{}, fmt.Errorf("unmarshal phases: %w", err)
		}
	}
	return op, nil
}

func collectOperations(rows pgx.Rows) ([]domain.Operation, error) {
	var ops []domain.Operation
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan operation: %w", err)
		}
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate operations: %w", err)
	}
	return ops, nil
}

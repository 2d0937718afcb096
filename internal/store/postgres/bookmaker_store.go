package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmaffei/arbdesk/internal/domain"
)

// BookmakerStore implements domain.BookmakerStore using PostgreSQL.
type BookmakerStore struct {
	pool *pgxpool.Pool
}

// NewBookmakerStore creates a new BookmakerStore backed by the given pool.
func NewBookmakerStore(pool *pgxpool.Pool) *BookmakerStore {
	return &BookmakerStore{pool: pool}
}

// Create inserts a new bookmaker account.
func (s *BookmakerStore) Create(ctx context.Context, b domain.Bookmaker) error {
	const query = `
		INSERT INTO bookmakers (id, name, site, status, balance)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := s.pool.Exec(ctx, query, b.ID, b.Name, b.Site, string(b.Status), b.Balance)
	if err != nil {
		return fmt.Errorf("postgres: create bookmaker %s: %w", b.ID, err)
	}
	return nil
}

// Update rewrites a bookmaker row.
func (s *BookmakerStore) Update(ctx context.Context, b domain.Bookmaker) error {
	const query = `
		UPDATE bookmakers SET name = $2, site = $3, status = $4, balance = $5
		WHERE id = $1`
	tag, err := s.pool.Exec(ctx, query, b.ID, b.Name, b.Site, string(b.Status), b.Balance)
	if err != nil {
		return fmt.Errorf("postgres: update bookmaker %s: %w", b.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a bookmaker.
func (s *BookmakerStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM bookmakers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: delete bookmaker %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID fetches a single bookmaker.
func (s *BookmakerStore) GetByID(ctx context.Context, id string) (domain.Bookmaker, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, site, status, balance FROM bookmakers WHERE id = $1`, id)
	b, err := scanBookmaker(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Bookmaker{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Bookmaker{}, fmt.Errorf("postgres: get bookmaker %s: %w", id, err)
	}
	return b, nil
}

// List returns all bookmakers ordered by name.
func (s *BookmakerStore) List(ctx context.Context) ([]domain.Bookmaker, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, site, status, balance FROM bookmakers ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list bookmakers: %w", err)
	}
	defer rows.Close()

	var books []domain.Bookmaker
	for rows.Next() {
		b, err := scanBookmaker(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan bookmaker: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate bookmakers: %w", err)
	}
	return books, nil
}

func scanBookmaker(row pgx.Row) (domain.Bookmaker, error) {
	var (
		b      domain.Bookmaker
		status string
	)
	err := row.Scan(&b.ID, &b.Name, &b.Site, &status, &b.Balance)
	b.Status = domain.BookmakerStatus(status)
	return b, err
}

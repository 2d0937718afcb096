package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmaffei/arbdesk/internal/domain"
)

// PartnerStore implements domain.PartnerStore using PostgreSQL.
type PartnerStore struct {
	pool *pgxpool.Pool
}

// NewPartnerStore creates a new PartnerStore backed by the given pool.
func NewPartnerStore(pool *pgxpool.Pool) *PartnerStore {
	return &PartnerStore{pool: pool}
}

// Create inserts a new partner.
func (s *PartnerStore) Create(ctx context.Context, p domain.Partner) error {
	const query = `
		INSERT INTO partners (id, name, share_percent, active, pix_key, contact, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := s.pool.Exec(ctx, query,
		p.ID, p.Name, p.SharePercent, p.Active, p.PixKey, p.Contact, p.JoinedAt)
	if err != nil {
		return fmt.Errorf("postgres: create partner %s: %w", p.ID, err)
	}
	return nil
}

// Update rewrites a partner row.
func (s *PartnerStore) Update(ctx context.Context, p domain.Partner) error {
	const query = `
		UPDATE partners SET
			name = $2, share_percent = $3, active = $4, pix_key = $5, contact = $6
		WHERE id = $1`
	tag, err := s.pool.Exec(ctx, query,
		p.ID, p.Name, p.SharePercent, p.Active, p.PixKey, p.Contact)
	if err != nil {
		return fmt.Errorf("postgres: update partner %s: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a partner.
func (s *PartnerStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM partners WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: delete partner %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID fetches a single partner.
func (s *PartnerStore) GetByID(ctx context.Context, id string) (domain.Partner, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, share_percent, active, pix_key, contact, joined_at
		 FROM partners WHERE id = $1`, id)
	p, err := scanPartner(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Partner{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Partner{}, fmt.Errorf("postgres: get partner %s: %w", id, err)
	}
	return p, nil
}

// List returns partners ordered by name, optionally only active ones.
func (s *PartnerStore) List(ctx context.Context, activeOnly bool) ([]domain.Partner, error) {
	query := `SELECT id, name, share_percent, active, pix_key, contact, joined_at FROM partners`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY name ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: list partners: %w", err)
	}
	defer rows.Close()

	var partners []domain.Partner
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan partner: %w", err)
		}
		partners = append(partners, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate partners: %w", err)
	}
	return partners, nil
}

func scanPartner(row pgx.Row) (domain.Partner, error) {
	var p domain.Partner
	err := row.Scan(&p.ID, &p.Name, &p.SharePercent, &p.Active, &p.PixKey, &p.Contact, &p.JoinedAt)
	return p, err
}

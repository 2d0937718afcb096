package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmaffei/arbdesk/internal/domain"
)

// PartnerService manages revenue-share partners and payout previews.
type PartnerService struct {
	partners domain.PartnerStore
	ops      domain.OperationStore
	logger   *slog.Logger
}

// NewPartnerService creates a PartnerService.
func NewPartnerService(partners domain.PartnerStore, ops domain.OperationStore, logger *slog.Logger) *PartnerService {
	return &PartnerService{
		partners: partners,
		ops:      ops,
		logger:   logger.With(slog.String("component", "partner_service")),
	}
}

// Create validates and stores a new partner.
func (s *PartnerService) Create(ctx context.Context, p domain.Partner) (domain.Partner, error) {
	if p.Name == "" {
		return domain.Partner{}, fmt.Errorf("partner_service: name required: %w", domain.ErrInvalidInput)
	}
	if p.SharePercent < 0 || p.SharePercent > 100 {
		return domain.Partner{}, fmt.Errorf("partner_service: share percent out of range: %w", domain.ErrInvalidInput)
	}

	p.ID = uuid.New().String()
	if p.JoinedAt.IsZero() {
		p.JoinedAt = time.Now().UTC()
	}
	p.Active = true

	if err := s.partners.Create(ctx, p); err != nil {
		return domain.Partner{}, fmt.Errorf("partner_service: create: %w", err)
	}
	s.logger.InfoContext(ctx, "partner created",
		slog.String("partner_id", p.ID),
		slog.Float64("share_percent", p.SharePercent),
	)
	return p, nil
}

// Update replaces a partner's fields.
func (s *PartnerService) Update(ctx context.Context, p domain.Partner) (domain.Partner, error) {
	if p.SharePercent < 0 || p.SharePercent > 100 {
		return domain.Partner{}, fmt.Errorf("partner_service: share percent out of range: %w", domain.ErrInvalidInput)
	}
	if err := s.partners.Update(ctx, p); err != nil {
		return domain.Partner{}, fmt.Errorf("partner_service: update: %w", err)
	}
	return p, nil
}

// Delete removes a partner. Past payout transactions keep their partner id
// for reconciliation.
func (s *PartnerService) Delete(ctx context.Context, id string) error {
	if err := s.partners.Delete(ctx, id); err != nil {
		return fmt.Errorf("partner_service: delete: %w", err)
	}
	return nil
}

// Get returns one partner.
func (s *PartnerService) Get(ctx context.Context, id string) (domain.Partner, error) {
	p, err := s.partners.GetByID(ctx, id)
	if err != nil {
		return domain.Partner{}, fmt.Errorf("partner_service: get: %w", err)
	}
	return p, nil
}

// List returns partners, optionally only active ones.
func (s *PartnerService) List(ctx context.Context, activeOnly bool) ([]domain.Partner, error) {
	ps, err := s.partners.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("partner_service: list: %w", err)
	}
	return ps, nil
}

// PayoutPreview is a partner's cut of the settled operations in a window.
type PayoutPreview struct {
	Partner    domain.Partner `json:"partner"`
	Operations int            `json:"operations"`
	GrossBase  float64        `json:"gross_base"`
	Payout     float64        `json:"payout"`
}

// PreviewPayout computes what a partner would receive over the settled
// operations referencing them in the given window. It reads, never writes;
// real payout transactions are created at settle time.
func (s *PartnerService) PreviewPayout(ctx context.Context, partnerID string, since, until *time.Time) (PayoutPreview, error) {
	partner, err := s.partners.GetByID(ctx, partnerID)
	if err != nil {
		return PayoutPreview{}, fmt.Errorf("partner_service: preview: %w", err)
	}

	ops, err := s.ops.ListClosed(ctx, since, until)
	if err != nil {
		return PayoutPreview{}, fmt.Errorf("partner_service: preview: %w", err)
	}

	preview := PayoutPreview{Partner: partner}
	for _, op := range ops {
		if !referencesPartner(op, partnerID) {
			continue
		}
		gross := op.Profit
		if op.ProfitSource.Manual {
			gross = op.ProfitSource.OverrideValue
		}
		preview.Operations++
		preview.GrossBase += gross
		preview.Payout += partner.Payout(gross)
	}

	return preview, nil
}

func referencesPartner(op domain.Operation, partnerID string) bool {
	for _, pid := range op.PartnerIDs {
		if pid == partnerID {
			return true
		}
	}
	return false
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmaffei/arbdesk/internal/domain"
	"github.com/dmaffei/arbdesk/internal/engine"
	"github.com/dmaffei/arbdesk/internal/ledger"
	"github.com/dmaffei/arbdesk/internal/notify"
)

// ChannelOperations is the signal bus channel carrying operation change
// events for dashboard clients.
const ChannelOperations = "ops"

// OperationEvent is the payload published on ChannelOperations.
type OperationEvent struct {
	Type      string           `json:"type"` // created, updated, settled, deleted
	Operation domain.Operation `json:"operation"`
}

// OperationService owns the operation lifecycle: create and edit while
// active, solve phases through the engine, settle with partner payout
// fan-out. Aggregates are always recomputed from phases, never accepted from
// the caller.
type OperationService struct {
	ops      domain.OperationStore
	partners domain.PartnerStore
	txs      domain.TransactionStore
	bus      domain.SignalBus
	cache    domain.ReportCache
	notifier *notify.Notifier
	logger   *slog.Logger
}

// NewOperationService creates an OperationService. bus, cache and notifier
// may be nil in tests; every use is guarded.
func NewOperationService(
	ops domain.OperationStore,
	partners domain.PartnerStore,
	txs domain.TransactionStore,
	bus domain.SignalBus,
	cache domain.ReportCache,
	notifier *notify.Notifier,
	logger *slog.Logger,
) *OperationService {
	return &OperationService{
		ops:      ops,
		partners: partners,
		txs:      txs,
		bus:      bus,
		cache:    cache,
		notifier: notifier,
		logger:   logger.With(slog.String("component", "operation_service")),
	}
}

// Create validates and stores a new operation. The ID, status and timestamps
// are assigned here; phase aggregates are recomputed from the legs as given.
func (s *OperationService) Create(ctx context.Context, op domain.Operation) (domain.Operation, error) {
	if op.Name == "" {
		return domain.Operation{}, fmt.Errorf("operation_service: name required: %w", domain.ErrInvalidInput)
	}
	if err := validateLegs(op); err != nil {
		return domain.Operation{}, err
	}

	op.ID = uuid.New().String()
	op.CreatedAt = time.Now().UTC()
	op.SettledAt = nil
	if op.Status == "" {
		op.Status = domain.OperationActive
	}
	if !op.Status.Valid() || op.Status.Closed() {
		return domain.Operation{}, fmt.Errorf("operation_service: invalid initial status %q: %w", op.Status, domain.ErrInvalidInput)
	}
	if op.EventDate.IsZero() {
		op.EventDate = op.CreatedAt
	}
	refreshPhases(&op)

	if err := s.ops.Create(ctx, op); err != nil {
		return domain.Operation{}, fmt.Errorf("operation_service: create: %w", err)
	}

	s.logger.InfoContext(ctx, "operation created",
		slog.String("operation_id", op.ID),
		slog.String("strategy", op.Strategy),
	)
	s.publish(ctx, "created", op)
	return op, nil
}

// Update replaces an operation's editable fields. Settled operations are
// frozen and reject edits.
func (s *OperationService) Update(ctx context.Context, op domain.Operation) (domain.Operation, error) {
	existing, err := s.ops.GetByID(ctx, op.ID)
	if err != nil {
		return domain.Operation{}, fmt.Errorf("operation_service: update: %w", err)
	}
	if existing.Status.Closed() {
		return domain.Operation{}, domain.ErrSettled
	}
	if err := validateLegs(op); err != nil {
		return domain.Operation{}, err
	}
	if !op.Status.Valid() {
		return domain.Operation{}, fmt.Errorf("operation_service: invalid status %q: %w", op.Status, domain.ErrInvalidInput)
	}
	if op.Status.Closed() {
		// Settlement goes through Settle so payouts and freezing happen.
		return domain.Operation{}, fmt.Errorf("operation_service: use settle to close: %w", domain.ErrInvalidInput)
	}

	op.CreatedAt = existing.CreatedAt
	op.SettledAt = nil
	refreshPhases(&op)

	if err := s.ops.Update(ctx, op); err != nil {
		return domain.Operation{}, fmt.Errorf("operation_service: update: %w", err)
	}

	if op.Status == domain.OperationAwaitingFreebet && existing.Status != domain.OperationAwaitingFreebet {
		title, message := notify.FormatAwaitingFreebet(op)
		s.notify(ctx, notify.EventAwaitingFreebet, title, message)
	}
	s.publish(ctx, "updated", op)
	return op, nil
}

// Delete removes an operation.
func (s *OperationService) Delete(ctx context.Context, id string) error {
	op, err := s.ops.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("operation_service: delete: %w", err)
	}
	if err := s.ops.Delete(ctx, id); err != nil {
		return fmt.Errorf("operation_service: delete: %w", err)
	}
	s.invalidateReports(ctx)
	s.publish(ctx, "deleted", op)
	return nil
}

// Get returns one operation.
func (s *OperationService) Get(ctx context.Context, id string) (domain.Operation, error) {
	op, err := s.ops.GetByID(ctx, id)
	if err != nil {
		return domain.Operation{}, fmt.Errorf("operation_service: get: %w", err)
	}
	return op, nil
}

// List returns operations matching the filter.
func (s *OperationService) List(ctx context.Context, filter domain.OperationFilter) ([]domain.Operation, error) {
	ops, err := s.ops.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("operation_service: list: %w", err)
	}
	return ops, nil
}

// AddPhase solves the given legs through the arbitrage engine and appends the
// resulting phase to the operation. The anchor leg's stake must be set; all
// other stakes are derived.
func (s *OperationService) AddPhase(ctx context.Context, opID string, phase domain.Phase, anchorIndex int) (domain.Operation, error) {
	op, err := s.ops.GetByID(ctx, opID)
	if err != nil {
		return domain.Operation{}, fmt.Errorf("operation_service: add phase: %w", err)
	}
	if op.Status.Closed() {
		return domain.Operation{}, domain.ErrSettled
	}
	if len(phase.Legs) == 0 || anchorIndex < 0 || anchorIndex >= len(phase.Legs) {
		return domain.Operation{}, fmt.Errorf("operation_service: bad phase legs or anchor: %w", domain.ErrInvalidInput)
	}
	for _, leg := range phase.Legs {
		if !leg.Kind.Valid() {
			return domain.Operation{}, fmt.Errorf("operation_service: unknown leg kind %q: %w", leg.Kind, domain.ErrInvalidInput)
		}
	}

	phase.ID = uuid.New().String()
	phase.Legs = engine.SolveArbitrage(phase.Legs, anchorIndex, phase.Rounding)
	applySummary(&phase)

	op.Phases = append(op.Phases, phase)
	op.Recompute()

	if err := s.ops.Update(ctx, op); err != nil {
		return domain.Operation{}, fmt.Errorf("operation_service: add phase: %w", err)
	}

	s.logger.InfoContext(ctx, "phase added",
		slog.String("operation_id", op.ID),
		slog.String("phase_id", phase.ID),
		slog.Float64("invested", phase.Invested),
		slog.Float64("profit", phase.Profit),
	)
	s.publish(ctx, "updated", op)
	return op, nil
}

// Settle closes an operation: freezes aggregates, records the profit source,
// writes one payout transaction per partner share, invalidates cached
// reports and alerts the operator. Settling twice returns ErrSettled.
func (s *OperationService) Settle(ctx context.Context, opID string, source domain.ProfitSource) (domain.Operation, error) {
	op, err := s.ops.GetByID(ctx, opID)
	if err != nil {
		return domain.Operation{}, fmt.Errorf("operation_service: settle: %w", err)
	}
	if op.Status.Closed() {
		return domain.Operation{}, domain.ErrSettled
	}

	now := time.Now().UTC()
	op.Status = domain.OperationSettled
	op.SettledAt = &now
	op.ProfitSource = source
	op.Recompute()

	if err := s.ops.Update(ctx, op); err != nil {
		return domain.Operation{}, fmt.Errorf("operation_service: settle: %w", err)
	}

	net := ledger.NetProfit(op)
	if err := s.recordPayouts(ctx, op); err != nil {
		// The operation is settled; payout bookkeeping failing is logged and
		// surfaced, not rolled back.
		s.logger.ErrorContext(ctx, "payout recording failed",
			slog.String("operation_id", op.ID),
			slog.String("error", err.Error()),
		)
		return op, err
	}

	s.invalidateReports(ctx)
	s.publish(ctx, "settled", op)
	title, message := notify.FormatSettlement(op, net)
	s.notify(ctx, notify.EventOperationSettled, title, message)

	s.logger.InfoContext(ctx, "operation settled",
		slog.String("operation_id", op.ID),
		slog.Float64("net_profit", net),
		slog.Bool("manual_override", source.Manual),
	)
	return op, nil
}

// recordPayouts writes one payout transaction per referenced partner. The
// payout base is the gross profit (manual override value when active);
// partner shares come off the top, which is what the operation's commission
// percent summarizes.
func (s *OperationService) recordPayouts(ctx context.Context, op domain.Operation) error {
	if len(op.PartnerIDs) == 0 {
		return nil
	}

	gross := op.Profit
	if op.ProfitSource.Manual {
		gross = op.ProfitSource.OverrideValue
	}

	now := time.Now().UTC()
	txs := make([]domain.Transaction, 0, len(op.PartnerIDs))
	for _, pid := range op.PartnerIDs {
		partner, err := s.partners.GetByID(ctx, pid)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				s.logger.WarnContext(ctx, "payout skipped, partner missing",
					slog.String("operation_id", op.ID),
					slog.String("partner_id", pid),
				)
				continue
			}
			return fmt.Errorf("operation_service: load partner %s: %w", pid, err)
		}

		payout := partner.Payout(gross)
		if payout == 0 {
			continue
		}
		txs = append(txs, domain.Transaction{
			ID:          uuid.New().String(),
			Date:        now,
			Description: fmt.Sprintf("Payout %s — %s", partner.Name, op.Name),
			Value:       -payout,
			Type:        domain.TxPayout,
			Status:      domain.TxPending,
			OperationID: op.ID,
			PartnerID:   partner.ID,
			CreatedAt:   now,
		})
	}

	if len(txs) == 0 {
		return nil
	}
	if err := s.txs.CreateBatch(ctx, txs); err != nil {
		return fmt.Errorf("operation_service: record payouts: %w", err)
	}
	return nil
}

func (s *OperationService) publish(ctx context.Context, eventType string, op domain.Operation) {
	if s.bus == nil {
		return
	}
	payload, err := json.Marshal(OperationEvent{Type: eventType, Operation: op})
	if err != nil {
		return
	}
	if err := s.bus.Publish(ctx, ChannelOperations, payload); err != nil {
		s.logger.WarnContext(ctx, "publish failed",
			slog.String("event", eventType),
			slog.String("error", err.Error()),
		)
	}
}

func (s *OperationService) notify(ctx context.Context, event, title, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, event, title, message); err != nil {
		s.logger.WarnContext(ctx, "notify failed",
			slog.String("event", event),
			slog.String("error", err.Error()),
		)
	}
}

func (s *OperationService) invalidateReports(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, ""); err != nil {
		s.logger.WarnContext(ctx, "report cache invalidation failed",
			slog.String("error", err.Error()),
		)
	}
}

// refreshPhases re-derives each phase's aggregates from its legs as stored,
// then the operation totals from the phases.
func refreshPhases(op *domain.Operation) {
	for i := range op.Phases {
		if op.Phases[i].ID == "" {
			op.Phases[i].ID = uuid.New().String()
		}
		applySummary(&op.Phases[i])
	}
	op.Recompute()
}

// applySummary fills a phase's aggregates from the outcome aggregator.
func applySummary(phase *domain.Phase) {
	summary := engine.Summarize(phase.Legs)
	phase.Invested = summary.TotalInvestment
	phase.Profit = summary.GuaranteedProfit
	phase.Return = summary.TotalInvestment + summary.GuaranteedProfit
	phase.ROI = summary.ROI
}

// validateLegs rejects unknown leg kinds anywhere in the operation.
func validateLegs(op domain.Operation) error {
	for _, phase := range op.Phases {
		for _, leg := range phase.Legs {
			if !leg.Kind.Valid() {
				return fmt.Errorf("operation_service: unknown leg kind %q: %w", leg.Kind, domain.ErrInvalidInput)
			}
		}
	}
	return nil
}

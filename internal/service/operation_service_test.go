package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/dmaffei/arbdesk/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type memOperationStore struct {
	ops map[string]domain.Operation
}

func newMemOperationStore() *memOperationStore {
	return &memOperationStore{ops: make(map[string]domain.Operation)}
}

func (m *memOperationStore) Create(_ context.Context, op domain.Operation) error {
	m.ops[op.ID] = op
	return nil
}

func (m *memOperationStore) Update(_ context.Context, op domain.Operation) error {
	if _, ok := m.ops[op.ID]; !ok {
		return domain.ErrNotFound
	}
	m.ops[op.ID] = op
	return nil
}

func (m *memOperationStore) Delete(_ context.Context, id string) error {
	if _, ok := m.ops[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.ops, id)
	return nil
}

func (m *memOperationStore) GetByID(_ context.Context, id string) (domain.Operation, error) {
	op, ok := m.ops[id]
	if !ok {
		return domain.Operation{}, domain.ErrNotFound
	}
	return op, nil
}

func (m *memOperationStore) List(_ context.Context, _ domain.OperationFilter) ([]domain.Operation, error) {
	out := make([]domain.Operation, 0, len(m.ops))
	for _, op := range m.ops {
		out = append(out, op)
	}
	return out, nil
}

func (m *memOperationStore) ListClosed(_ context.Context, _, _ *time.Time) ([]domain.Operation, error) {
	var out []domain.Operation
	for _, op := range m.ops {
		if op.Status.Closed() {
			out = append(out, op)
		}
	}
	return out, nil
}

func (m *memOperationStore) Count(_ context.Context) (int64, error) {
	return int64(len(m.ops)), nil
}

type memPartnerStore struct {
	partners map[string]domain.Partner
}

func (m *memPartnerStore) Create(_ context.Context, p domain.Partner) error {
	m.partners[p.ID] = p
	return nil
}

func (m *memPartnerStore) Update(_ context.Context, p domain.Partner) error {
	m.partners[p.ID] = p
	return nil
}

func (m *memPartnerStore) Delete(_ context.Context, id string) error {
	delete(m.partners, id)
	return nil
}

func (m *memPartnerStore) GetByID(_ context.Context, id string) (domain.Partner, error) {
	p, ok := m.partners[id]
	if !ok {
		return domain.Partner{}, domain.ErrNotFound
	}
	return p, nil
}

func (m *memPartnerStore) List(_ context.Context, _ bool) ([]domain.Partner, error) {
	out := make([]domain.Partner, 0, len(m.partners))
	for _, p := range m.partners {
		out = append(out, p)
	}
	return out, nil
}

type memTransactionStore struct {
	txs []domain.Transaction
}

func (m *memTransactionStore) Create(_ context.Context, tx domain.Transaction) error {
	m.txs = append(m.txs, tx)
	return nil
}

func (m *memTransactionStore) CreateBatch(_ context.Context, txs []domain.Transaction) error {
	m.txs = append(m.txs, txs...)
	return nil
}

func (m *memTransactionStore) UpdateStatus(_ context.Context, _ string, _ domain.TransactionStatus) error {
	return nil
}

func (m *memTransactionStore) List(_ context.Context, _ domain.ListOpts) ([]domain.Transaction, error) {
	return m.txs, nil
}

func (m *memTransactionStore) ListByOperation(_ context.Context, _ string) ([]domain.Transaction, error) {
	return m.txs, nil
}

func newTestOperationService(partners map[string]domain.Partner) (*OperationService, *memOperationStore, *memTransactionStore) {
	ops := newMemOperationStore()
	txs := &memTransactionStore{}
	svc := NewOperationService(ops, &memPartnerStore{partners: partners}, txs, nil, nil, nil, testLogger())
	return svc, ops, txs
}

func twoLegPhase(rounding float64) domain.Phase {
	return domain.Phase{
		Name:     "abertura",
		Strategy: "surebet",
		Rounding: rounding,
		Legs: []domain.BetLeg{
			{Kind: domain.LegBack, Odd: 2.10, Stake: 100},
			{Kind: domain.LegBack, Odd: 2.05, Commission: 5},
		},
	}
}

func TestCreateAssignsIdentityAndAggregates(t *testing.T) {
	svc, _, _ := newTestOperationService(nil)

	op, err := svc.Create(context.Background(), domain.Operation{
		Name:     "derby",
		Strategy: "surebet",
		Phases:   []domain.Phase{twoLegPhase(0)},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if op.ID == "" {
		t.Fatal("no id assigned")
	}
	if op.Status != domain.OperationActive {
		t.Fatalf("status %q, want active", op.Status)
	}
	if op.Phases[0].ID == "" {
		t.Fatal("phase id not assigned")
	}
	if op.Invested == 0 {
		t.Fatal("aggregates not recomputed")
	}
}

func TestCreateRejectsSettledStatus(t *testing.T) {
	svc, _, _ := newTestOperationService(nil)

	_, err := svc.Create(context.Background(), domain.Operation{
		Name:   "derby",
		Status: domain.OperationSettled,
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestAddPhaseSolvesLegs(t *testing.T) {
	svc, _, _ := newTestOperationService(nil)

	op, err := svc.Create(context.Background(), domain.Operation{Name: "derby"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	op, err = svc.AddPhase(context.Background(), op.ID, twoLegPhase(0), 0)
	if err != nil {
		t.Fatalf("AddPhase: %v", err)
	}
	if len(op.Phases) != 1 {
		t.Fatalf("got %d phases", len(op.Phases))
	}

	phase := op.Phases[0]
	// Anchor 100 at 2.10 against 2.05 with 5% commission: cover stake is
	// 210 / 1.9975.
	wantCover := 210.0 / 1.9975
	if math.Abs(phase.Legs[1].Stake-wantCover) > 1e-6 {
		t.Fatalf("cover stake %.6f, want %.6f", phase.Legs[1].Stake, wantCover)
	}
	if math.Abs(phase.Invested-(100+wantCover)) > 1e-6 {
		t.Fatalf("invested %.6f", phase.Invested)
	}
	if math.Abs(op.Profit-(210-(100+wantCover))) > 1e-6 {
		t.Fatalf("profit %.6f", op.Profit)
	}
}

func TestAddPhaseBadAnchor(t *testing.T) {
	svc, _, _ := newTestOperationService(nil)

	op, _ := svc.Create(context.Background(), domain.Operation{Name: "derby"})
	if _, err := svc.AddPhase(context.Background(), op.ID, twoLegPhase(0), 5); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestSettleFreezesAndPaysPartners(t *testing.T) {
	partner := domain.Partner{ID: "p1", Name: "Ana", SharePercent: 40, Active: true}
	svc, store, txs := newTestOperationService(map[string]domain.Partner{"p1": partner})

	op, err := svc.Create(context.Background(), domain.Operation{
		Name:       "derby",
		Strategy:   "surebet",
		PartnerIDs: []string{"p1"},
		Phases:     []domain.Phase{twoLegPhase(0)},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	settled, err := svc.Settle(context.Background(), op.ID, domain.ManualOverride(50, false))
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if settled.Status != domain.OperationSettled || settled.SettledAt == nil {
		t.Fatalf("not settled: %+v", settled.Status)
	}

	if len(txs.txs) != 1 {
		t.Fatalf("got %d payout transactions, want 1", len(txs.txs))
	}
	payout := txs.txs[0]
	if payout.Type != domain.TxPayout || payout.PartnerID != "p1" {
		t.Fatalf("payout %+v", payout)
	}
	if math.Abs(payout.Value-(-20)) > 1e-9 {
		t.Fatalf("payout value %.2f, want -20 (40%% of override 50)", payout.Value)
	}

	// Second settle and any edit are rejected.
	if _, err := svc.Settle(context.Background(), op.ID, domain.Computed()); !errors.Is(err, domain.ErrSettled) {
		t.Fatalf("resettle err = %v, want ErrSettled", err)
	}
	stored := store.ops[op.ID]
	if _, err := svc.Update(context.Background(), stored); !errors.Is(err, domain.ErrSettled) {
		t.Fatalf("update err = %v, want ErrSettled", err)
	}
	if _, err := svc.AddPhase(context.Background(), op.ID, twoLegPhase(0), 0); !errors.Is(err, domain.ErrSettled) {
		t.Fatalf("add phase err = %v, want ErrSettled", err)
	}
}

func TestSettleSkipsMissingPartner(t *testing.T) {
	svc, _, txs := newTestOperationService(map[string]domain.Partner{})

	op, _ := svc.Create(context.Background(), domain.Operation{
		Name:       "derby",
		PartnerIDs: []string{"ghost"},
		Phases:     []domain.Phase{twoLegPhase(0)},
	})
	if _, err := svc.Settle(context.Background(), op.ID, domain.Computed()); err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if len(txs.txs) != 0 {
		t.Fatalf("got %d transactions for missing partner", len(txs.txs))
	}
}

package ledger

import (
	"math"
	"testing"
	"time"

	"github.com/dmaffei/arbdesk/internal/domain"
)

const eps = 1e-6

func settled(profit float64, daysAgo int) domain.Operation {
	return domain.Operation{
		Status:    domain.OperationSettled,
		Profit:    profit,
		EventDate: time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC).AddDate(0, 0, -daysAgo),
	}
}

func TestNetProfit(t *testing.T) {
	op := settled(100, 0)
	if got := NetProfit(op); got != 100 {
		t.Fatalf("no commission: got %v, want 100", got)
	}

	op.Commission = 30
	if got := NetProfit(op); math.Abs(got-70) > eps {
		t.Fatalf("30%% commission: got %v, want 70", got)
	}

	// Manual override bypasses the computed aggregate.
	op.ProfitSource = domain.ManualOverride(50, false)
	if got := NetProfit(op); got != 50 {
		t.Fatalf("override without commission pass: got %v, want 50", got)
	}
	op.ProfitSource = domain.ManualOverride(50, true)
	if got := NetProfit(op); math.Abs(got-35) > eps {
		t.Fatalf("override with commission pass: got %v, want 35", got)
	}
}

func TestWinRate(t *testing.T) {
	if got := WinRate(nil); got != 0 {
		t.Fatalf("no operations: got %v, want 0", got)
	}

	ops := []domain.Operation{
		settled(10, 1),
		settled(-5, 2),
		settled(20, 3),
		{Status: domain.OperationActive, Profit: 99}, // open, ignored
	}
	if got := WinRate(ops); got != 67 {
		t.Fatalf("2 of 3 winners: got %v, want 67", got)
	}
}

func TestCurrentStreak(t *testing.T) {
	// Most-recent-first: +10, +5, -1, +20 -> streak stops at the loss.
	ops := []domain.Operation{
		settled(10, 0),
		settled(5, 1),
		settled(-1, 2),
		settled(20, 3),
	}
	if got := CurrentStreak(ops); got != 2 {
		t.Fatalf("streak: got %v, want 2", got)
	}

	// A break-even operation neither extends nor breaks the streak.
	ops = []domain.Operation{
		settled(10, 0),
		settled(0, 1),
		settled(5, 2),
		settled(-1, 3),
	}
	if got := CurrentStreak(ops); got != 2 {
		t.Fatalf("streak across break-even: got %v, want 2", got)
	}

	// All winners: streak covers everything.
	ops = []domain.Operation{settled(1, 0), settled(2, 1)}
	if got := CurrentStreak(ops); got != 2 {
		t.Fatalf("all winners: got %v, want 2", got)
	}
}

func TestPerStrategy(t *testing.T) {
	ops := []domain.Operation{
		{Status: domain.OperationSettled, Profit: 30, Strategy: "freebet"},
		{Status: domain.OperationSettled, Profit: 10, Strategy: "qualificacao"},
		{Status: domain.OperationSettled, Profit: 25, Strategy: "freebet"},
		{Status: domain.OperationSettled, Profit: -5},
	}
	aggs := PerStrategy(ops)
	if len(aggs) != 3 {
		t.Fatalf("got %d groups, want 3", len(aggs))
	}
	if aggs[0].Strategy != "freebet" || math.Abs(aggs[0].Profit-55) > eps || aggs[0].Count != 2 {
		t.Fatalf("best strategy wrong: %+v", aggs[0])
	}
	if aggs[2].Strategy != "outros" {
		t.Fatalf("unlabelled group: got %q, want outros", aggs[2].Strategy)
	}
}

func TestSummarize(t *testing.T) {
	ops := []domain.Operation{
		{Status: domain.OperationSettled, Profit: 100, Invested: 500, Strategy: "freebet",
			EventDate: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)},
		{Status: domain.OperationSettled, Profit: -20, Invested: 300, Strategy: "qualificacao",
			EventDate: time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC)},
		{Status: domain.OperationActive, Invested: 200},
	}
	s := Summarize(ops, 1000)

	if math.Abs(s.RealizedProfit-80) > eps {
		t.Fatalf("realized profit: got %v, want 80", s.RealizedProfit)
	}
	if math.Abs(s.MoneyInPlay-200) > eps {
		t.Fatalf("money in play: got %v, want 200", s.MoneyInPlay)
	}
	if math.Abs(s.TotalStaked-1000) > eps {
		t.Fatalf("total staked counts open operations too: got %v", s.TotalStaked)
	}
	if math.Abs(s.TotalReturn-880) > eps {
		t.Fatalf("total return: got %v, want 880", s.TotalReturn)
	}
	if math.Abs(s.Bankroll-1080) > eps || math.Abs(s.Growth-8) > eps {
		t.Fatalf("bankroll/growth: got %v / %v", s.Bankroll, s.Growth)
	}
	if math.Abs(s.ROI-8) > eps {
		t.Fatalf("roi over total staked: got %v, want 8", s.ROI)
	}
	if s.WinRate != 50 || s.ClosedCount != 2 || s.WinCount != 1 {
		t.Fatalf("counts: rate=%d closed=%d wins=%d", s.WinRate, s.ClosedCount, s.WinCount)
	}
	if s.BestStrategy != "freebet" {
		t.Fatalf("best strategy: got %q", s.BestStrategy)
	}
}

func TestEquityAndDrawdown(t *testing.T) {
	ops := []domain.Operation{
		settled(100, 3),
		settled(-40, 2),
		settled(-10, 2), // same day as the -40
		settled(30, 1),
	}
	series := EquitySeries(ops)
	if len(series) != 3 {
		t.Fatalf("got %d points, want 3", len(series))
	}

	wantCum := []float64{100, 50, 80}
	wantDD := []float64{0, -50, -20}
	for i, p := range series {
		if math.Abs(p.Cumulative-wantCum[i]) > eps {
			t.Fatalf("point %d cumulative: got %v, want %v", i, p.Cumulative, wantCum[i])
		}
		if math.Abs(p.Drawdown-wantDD[i]) > eps {
			t.Fatalf("point %d drawdown: got %v, want %v", i, p.Drawdown, wantDD[i])
		}
		if p.Drawdown > 0 {
			t.Fatalf("drawdown must never be positive, got %v", p.Drawdown)
		}
		if i > 0 && !series[i-1].Date.Before(p.Date) {
			t.Fatalf("series not in ascending date order")
		}
	}
}

func TestTopDays(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	ops := []domain.Operation{
		settled(30, 1),
		settled(50, 2),
		settled(20, 2),  // same day as the 50: totals 70
		settled(90, 40), // outside the window
	}
	top := TopDays(ops, 7*24*time.Hour, 3, now)
	if len(top) != 2 {
		t.Fatalf("got %d days, want 2", len(top))
	}
	if math.Abs(top[0].Profit-70) > eps || math.Abs(top[1].Profit-30) > eps {
		t.Fatalf("ranking wrong: %+v", top)
	}
}

func TestSumBetween(t *testing.T) {
	ops := []domain.Operation{
		{Status: domain.OperationSettled, Profit: 10, EventDate: time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)},
		{Status: domain.OperationSettled, Profit: 25, EventDate: time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)},
	}
	july := SumBetween(ops,
		time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
	if math.Abs(july-10) > eps {
		t.Fatalf("july total: got %v, want 10", july)
	}
}

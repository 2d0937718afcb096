package engine

import (
	"math"
	"testing"

	"github.com/dmaffei/arbdesk/internal/domain"
)

const eps = 1e-6

func approx(t *testing.T, got, want, tol float64, label string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s: got %v, want %v (tol %v)", label, got, want, tol)
	}
}

func back(odd, stake, commission float64) domain.BetLeg {
	return domain.BetLeg{Kind: domain.LegBack, Odd: odd, Stake: stake, Commission: commission}
}

func TestEffectiveOdd(t *testing.T) {
	if got := EffectiveOdd(back(2.10, 0, 0)); got != 2.10 {
		t.Fatalf("plain back: got %v, want 2.10", got)
	}
	approx(t, EffectiveOdd(back(2.05, 0, 5)), 1.9975, eps, "back with commission")

	lay := domain.BetLeg{Kind: domain.LegLay, Odd: 2.0, Commission: 5}
	approx(t, EffectiveOdd(lay), 1.95, eps, "lay commission reduces multiplier")

	boosted := domain.BetLeg{Kind: domain.LegBackBoosted, Odd: 2.0, BoostPercent: 50}
	approx(t, EffectiveOdd(boosted), 2.5, eps, "50% boost on (odd-1)")

	freebet := domain.BetLeg{Kind: domain.LegBackFreebet, Odd: 3.0}
	approx(t, EffectiveOdd(freebet), 2.0, eps, "freebet excludes stake from return")

	// Invalid odds are zero-effect, not errors.
	for _, odd := range []float64{0, 1, 0.5, -2, math.NaN()} {
		if got := EffectiveOdd(back(odd, 0, 0)); got != 0 {
			t.Fatalf("odd=%v: got effective odd %v, want 0", odd, got)
		}
	}
}

func TestEffectiveOddCommissionMonotonic(t *testing.T) {
	kinds := []domain.BetLeg{
		back(2.5, 0, 0),
		{Kind: domain.LegBackBoosted, Odd: 2.5, BoostPercent: 20},
		{Kind: domain.LegBackFreebet, Odd: 2.5},
		{Kind: domain.LegLay, Odd: 2.5},
	}
	for _, leg := range kinds {
		prev := math.Inf(1)
		for c := 0.0; c <= 100; c += 5 {
			leg.Commission = c
			eff := EffectiveOdd(leg)
			if eff >= prev {
				t.Fatalf("kind %s: effective odd not strictly decreasing at commission %v (%v >= %v)",
					leg.Kind, c, eff, prev)
			}
			prev = eff
		}
	}
}

func TestSolveArbitrageConcreteTwoLeg(t *testing.T) {
	legs := []domain.BetLeg{
		back(2.10, 100, 0),
		back(2.05, 0, 5),
	}
	solved := SolveArbitrage(legs, 0, 0)

	approx(t, solved[1].Stake, 210/1.9975, eps, "cover stake")
	approx(t, solved[1].Stake, 105.13, 0.005, "cover stake rounded display")

	sum := Summarize(solved)
	approx(t, sum.TotalInvestment, 100+210/1.9975, eps, "total investment")
	approx(t, sum.Profits[0], 4.8686, 0.001, "profit when A wins")
	approx(t, sum.Profits[1], sum.Profits[0], eps, "profits equalized without rounding")
	approx(t, sum.GuaranteedProfit, sum.Profits[0], eps, "guaranteed is the minimum")
}

func TestSolveArbitrageIdempotent(t *testing.T) {
	legs := []domain.BetLeg{
		back(2.10, 100, 0),
		back(2.05, 0, 5),
		{Kind: domain.LegLay, Odd: 1.8, Commission: 2},
	}
	once := SolveArbitrage(legs, 0, 0.01)
	twice := SolveArbitrage(once, 0, 0.01)
	for i := range once {
		if once[i].Stake != twice[i].Stake {
			t.Fatalf("leg %d: re-solve changed stake %v -> %v", i, once[i].Stake, twice[i].Stake)
		}
	}
}

func TestSolveArbitrageNoOps(t *testing.T) {
	legs := []domain.BetLeg{back(2.0, 0, 0), back(2.2, 0, 0)}

	// Zero anchor stake: inputs returned unchanged.
	out := SolveArbitrage(legs, 0, 0)
	for i := range legs {
		if out[i] != legs[i] {
			t.Fatalf("zero anchor stake: leg %d mutated", i)
		}
	}

	// Out-of-range anchor index.
	if out := SolveArbitrage(legs, 5, 0); &out[0] != &legs[0] {
		// returned as-is, same backing array
		t.Fatalf("out-of-range anchor should return input slice")
	}

	// Anchor with no effective odd.
	bad := []domain.BetLeg{back(1.0, 100, 0), back(2.2, 0, 0)}
	out = SolveArbitrage(bad, 0, 0)
	if out[1].Stake != 0 {
		t.Fatalf("degenerate anchor: cover stake = %v, want untouched 0", out[1].Stake)
	}

	// Empty list.
	if out := SolveArbitrage(nil, 0, 0); out != nil {
		t.Fatalf("nil legs: got %v, want nil", out)
	}
}

func TestSolveArbitrageInvalidCoverForcedZero(t *testing.T) {
	legs := []domain.BetLeg{
		back(2.10, 100, 0),
		back(1.0, 50, 0), // stale stake from a previous edit; odd now invalid
		back(2.05, 0, 0),
	}
	solved := SolveArbitrage(legs, 0, 0)
	if solved[1].Stake != 0 {
		t.Fatalf("invalid cover odd: stake = %v, want 0", solved[1].Stake)
	}
	if solved[2].Stake <= 0 {
		t.Fatalf("valid cover should still receive a stake, got %v", solved[2].Stake)
	}
}

func TestSolveArbitrageFreebetAnchorEqualProfit(t *testing.T) {
	// With an SNR anchor, both scenario profits must be equal for any cover
	// odd: the freebet contributes nothing to the outlay, so equal returns
	// mean equal profits.
	for odd := 1.02; odd <= 10; odd += 0.07 {
		legs := []domain.BetLeg{
			{Kind: domain.LegBackFreebet, Odd: 3.0, Stake: 100},
			back(odd, 0, 0),
		}
		solved := SolveArbitrage(legs, 0, 0)
		sum := Summarize(solved)
		approx(t, sum.Profits[1], sum.Profits[0], eps, "freebet scenario profits")
	}
}

func TestSolveArbitrageRefundableAnchor(t *testing.T) {
	legs := []domain.BetLeg{
		{Kind: domain.LegBackRefundable, Odd: 2.0, Stake: 100, RefundFaceValue: 100, RefundExtractionRate: 70},
		back(2.0, 0, 0),
	}
	solved := SolveArbitrage(legs, 0, 0)
	// Target return 200 less the 70 recoverable on a loss: cover = 130/2.
	approx(t, solved[1].Stake, 65, eps, "refund reduces target return")

	sum := Summarize(solved)
	// Anchor wins: 200 - 165. Cover wins: 130 - 165 + 70. Both 35.
	approx(t, sum.Profits[0], 35, eps, "anchor-wins profit")
	approx(t, sum.Profits[1], 35, eps, "cover-wins profit includes refund")
}

func TestSolveArbitrageRoundingDrift(t *testing.T) {
	legs := []domain.BetLeg{
		back(2.10, 100, 0),
		back(2.05, 0, 5),
	}
	solved := SolveArbitrage(legs, 0, 1.00)
	approx(t, solved[1].Stake, 105, eps, "stake rounded to whole increment")

	sum := Summarize(solved)
	if sum.Profits[0] == sum.Profits[1] {
		t.Fatalf("rounded stakes should produce asymmetric profits, both %v", sum.Profits[0])
	}
	drift := math.Abs(sum.Profits[0] - sum.Profits[1])
	if maxDrift := 1.00 * 1.9975; drift > maxDrift {
		t.Fatalf("profit drift %v exceeds increment worst case %v", drift, maxDrift)
	}
	// The honest minimum is reported, never an average.
	want := math.Min(sum.Profits[0], sum.Profits[1])
	approx(t, sum.GuaranteedProfit, want, eps, "guaranteed profit after rounding")
}

func TestRoundStake(t *testing.T) {
	cases := []struct {
		stake, inc, want float64
	}{
		{105.1314, 1.00, 105},
		{105.1314, 0.01, 105.13},
		{105.1314, 0.50, 105},
		{105.26, 0.50, 105.5},
		{105.1314, 0, 105.1314},     // rounding disabled
		{105.1314, 0.001, 105.1314}, // at the minimum: disabled
	}
	for _, c := range cases {
		approx(t, RoundStake(c.stake, c.inc), c.want, eps, "round stake")
	}
}

func TestSolveFreebet(t *testing.T) {
	promo := domain.BetLeg{Odd: 3.0, Stake: 100}
	covers := []domain.BetLeg{back(2.0, 0, 0), back(4.0, 0, 0)}

	legs := SolveFreebet(promo, covers, 0)
	if legs[0].Kind != domain.LegBackFreebet {
		t.Fatalf("promo leg kind = %s, want freebet", legs[0].Kind)
	}
	// Target profit 100*(3-1) = 200; covers stake 200/(eff-1).
	approx(t, legs[1].Stake, 200, eps, "cover at 2.0")
	approx(t, legs[2].Stake, 200.0/3.0, eps, "cover at 4.0")
}

func TestSolveFreebetDegenerateCover(t *testing.T) {
	promo := domain.BetLeg{Odd: 3.0, Stake: 100}
	covers := []domain.BetLeg{back(1.0, 0, 0), back(1.01, 0, 99.9)}

	legs := SolveFreebet(promo, covers, 0)
	for i := 1; i < len(legs); i++ {
		if legs[i].Stake != 0 {
			t.Fatalf("cover %d with no margin: stake %v, want 0", i, legs[i].Stake)
		}
	}

	// Zero freebet credit: covers come back untouched.
	legs = SolveFreebet(domain.BetLeg{Odd: 3.0}, []domain.BetLeg{back(2.0, 0, 0)}, 0)
	if legs[1].Stake != 0 {
		t.Fatalf("zero credit should not distribute stakes")
	}
}

func TestSolveCashbackLevelled(t *testing.T) {
	qualifying := domain.BetLeg{Odd: 2.0, Stake: 100}
	covers := []domain.BetLeg{back(2.1, 0, 0)}

	legs := SolveCashback(qualifying, covers, 70, 0)
	if legs[0].Kind != domain.LegBackRefundable {
		t.Fatalf("qualifying leg kind = %s, want refundable", legs[0].Kind)
	}
	approx(t, legs[0].RefundValue(), 70, eps, "cashback value")

	// The solved system levels qualifying-wins against cover-wins-with-refund.
	sum := Summarize(legs)
	approx(t, sum.Profits[1], sum.Profits[0], 0.01, "cashback scenarios levelled")
}

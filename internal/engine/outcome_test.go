package engine

import (
	"testing"

	"github.com/dmaffei/arbdesk/internal/domain"
)

func TestTotalInvestmentLayLiability(t *testing.T) {
	legs := []domain.BetLeg{
		{Kind: domain.LegLay, Odd: 2.0, Stake: 100},
	}
	// The lay exposure is the liability, not the backer's stake.
	approx(t, TotalInvestment(legs), 100, eps, "lay liability 100*(2-1)")

	legs[0].Odd = 3.5
	approx(t, TotalInvestment(legs), 250, eps, "lay liability 100*(3.5-1)")
}

func TestTotalInvestmentFreebetExcluded(t *testing.T) {
	legs := []domain.BetLeg{
		{Kind: domain.LegBackFreebet, Odd: 3.0, Stake: 100},
		back(2.0, 50, 0),
	}
	approx(t, TotalInvestment(legs), 50, eps, "freebet credit is not cash at risk")
}

func TestScenarioProfitRefundsFromLosers(t *testing.T) {
	legs := []domain.BetLeg{
		back(2.0, 100, 0),
		{Kind: domain.LegBackRefundable, Odd: 2.0, Stake: 100, RefundFaceValue: 50, RefundExtractionRate: 80},
		back(10.0, 20, 0),
	}
	inv := 220.0

	// Leg 0 wins: refund collected from the losing rainbow leg.
	approx(t, ScenarioProfit(legs, 0), 200-inv+40, eps, "winner 0 collects refund")
	// Leg 1 (the rainbow) wins: no refund, it won.
	approx(t, ScenarioProfit(legs, 1), 200-inv, eps, "winning rainbow forfeits refund")
	// Out-of-range winner is a defined zero.
	if got := ScenarioProfit(legs, 7); got != 0 {
		t.Fatalf("out-of-range winner: got %v, want 0", got)
	}
}

func TestGuaranteedProfitEmpty(t *testing.T) {
	if got := GuaranteedProfit(nil); got != 0 {
		t.Fatalf("empty legs: got %v, want 0", got)
	}
	sum := Summarize(nil)
	if sum.GuaranteedProfit != 0 || sum.ROI != 0 || len(sum.Profits) != 0 {
		t.Fatalf("empty summary not zeroed: %+v", sum)
	}
}

func TestROIBasis(t *testing.T) {
	cash := []domain.BetLeg{back(2.0, 100, 0), back(2.2, 90, 0)}
	approx(t, ROIBasis(cash), 190, eps, "cash phase: basis is the outlay")

	promo := []domain.BetLeg{
		{Kind: domain.LegBackFreebet, Odd: 3.0, Stake: 100},
		back(2.0, 150, 0),
	}
	approx(t, ROIBasis(promo), 100, eps, "freebet phase: basis is the credit")
}

func TestSummarizeROIZeroBasis(t *testing.T) {
	legs := []domain.BetLeg{back(2.0, 0, 0), back(2.2, 0, 0)}
	sum := Summarize(legs)
	if sum.ROI != 0 {
		t.Fatalf("all-zero stakes: ROI = %v, want 0", sum.ROI)
	}
}

func TestSummarizeAllZeroStakesDegenerate(t *testing.T) {
	// The UI inspects this shape to raise "select at least one house"; the
	// engine itself must stay silent and well-defined.
	sum := Summarize([]domain.BetLeg{back(2.0, 0, 0)})
	if sum.TotalInvestment != 0 || sum.GuaranteedProfit != 0 {
		t.Fatalf("degenerate phase not zeroed: %+v", sum)
	}
}

package engine

import "github.com/dmaffei/arbdesk/internal/domain"

// Summary is the full outcome aggregation for a solved set of legs: the
// realized stakes, the profit of each "leg i wins" scenario, the cash outlay,
// the worst-case profit over all scenarios (the figure promised to the user)
// and the ROI over the appropriate basis.
type Summary struct {
	Stakes           []float64 `json:"stakes"`
	Profits          []float64 `json:"profits"`
	TotalInvestment  float64   `json:"total_investment"`
	GuaranteedProfit float64   `json:"guaranteed_profit"`
	ROI              float64   `json:"roi"`
}

// TotalInvestment sums each leg's cash contribution: lay liability for lays,
// nothing for freebet credit, the stake otherwise.
func TotalInvestment(legs []domain.BetLeg) float64 {
	var total float64
	for _, leg := range legs {
		total += Investment(leg)
	}
	return total
}

// ScenarioProfit computes the net profit when the leg at winnerIndex wins:
// the winner's return at its effective odd, minus the total outlay, plus the
// refunds collected from every losing refundable leg.
func ScenarioProfit(legs []domain.BetLeg, winnerIndex int) float64 {
	if winnerIndex < 0 || winnerIndex >= len(legs) {
		return 0
	}
	winner := legs[winnerIndex]
	winnerReturn := winner.Stake * EffectiveOdd(winner)

	var refunds float64
	for i, leg := range legs {
		if i == winnerIndex {
			continue
		}
		refunds += leg.RefundValue()
	}
	return winnerReturn - TotalInvestment(legs) + refunds
}

// GuaranteedProfit is the minimum scenario profit across all possible
// winners — the worst-case outcome. Zero for an empty leg list.
func GuaranteedProfit(legs []domain.BetLeg) float64 {
	if len(legs) == 0 {
		return 0
	}
	min := ScenarioProfit(legs, 0)
	for i := 1; i < len(legs); i++ {
		if p := ScenarioProfit(legs, i); p < min {
			min = p
		}
	}
	return min
}

// ROIBasis returns the denominator for the ROI figure: the freebet credit
// value when the phase extracts a free bet, the cash outlay otherwise.
func ROIBasis(legs []domain.BetLeg) float64 {
	for _, leg := range legs {
		if leg.IsFreebet() && leg.Stake > 0 {
			return leg.Stake
		}
	}
	return TotalInvestment(legs)
}

// Summarize aggregates a fully-solved leg set into its Summary. Profits are
// derived from the stakes as given — after rounding they are honestly
// asymmetric, and GuaranteedProfit reflects the true minimum, not an
// idealized pre-rounding figure.
func Summarize(legs []domain.BetLeg) Summary {
	stakes := make([]float64, len(legs))
	profits := make([]float64, len(legs))
	total := TotalInvestment(legs)
	for i, leg := range legs {
		stakes[i] = leg.Stake
		profits[i] = ScenarioProfit(legs, i)
	}

	guaranteed := 0.0
	if len(legs) > 0 {
		guaranteed = profits[0]
		for _, p := range profits[1:] {
			if p < guaranteed {
				guaranteed = p
			}
		}
	}

	roi := 0.0
	if basis := ROIBasis(legs); basis > 0 {
		roi = guaranteed / basis * 100
	}

	return Summary{
		Stakes:           stakes,
		Profits:          profits,
		TotalInvestment:  total,
		GuaranteedProfit: guaranteed,
		ROI:              roi,
	}
}

package engine

import (
	"math"

	"github.com/dmaffei/arbdesk/internal/domain"
)

// minRounding is the smallest configurable stake increment; anything at or
// below it means "do not round".
const minRounding = 0.001

// RoundStake rounds a stake to the nearest multiple of the configured
// increment. Increments at or below the minimum leave the stake untouched.
func RoundStake(stake, increment float64) float64 {
	if increment <= minRounding {
		return stake
	}
	return math.Round(stake/increment) * increment
}

// SolveArbitrage distributes stakes so every outcome yields the same net
// return, anchored on the leg at anchorIndex whose stake the user supplied.
// The target net return is the anchor's stake times its effective odd,
// reduced by the anchor's own refund value when the anchor is a refundable
// qualifying bet. Every other leg receives targetReturn / effectiveOdd,
// rounded to the configured increment.
//
// The call is a pure function of its inputs and idempotent: re-solving an
// already-solved slice yields the same stakes. Degenerate inputs are no-ops,
// not errors: a missing or zero anchor stake, an out-of-range anchor index or
// an anchor with no effective odd all return the legs unchanged, and a
// dependent leg with effective odd <= 0 gets stake 0.
//
// After rounding the per-outcome profits are no longer exactly equal; callers
// must re-derive them from the returned stakes via Summarize rather than
// assume equality.
func SolveArbitrage(legs []domain.BetLeg, anchorIndex int, rounding float64) []domain.BetLeg {
	if len(legs) == 0 {
		return legs
	}
	if anchorIndex < 0 || anchorIndex >= len(legs) {
		return legs
	}
	anchor := legs[anchorIndex]
	if !(anchor.Stake > 0) {
		return legs
	}
	anchorOdd := EffectiveOdd(anchor)
	if anchorOdd <= 0 {
		return legs
	}

	targetReturn := anchor.Stake*anchorOdd - anchor.RefundValue()

	solved := make([]domain.BetLeg, len(legs))
	copy(solved, legs)
	for i := range solved {
		if i == anchorIndex {
			continue
		}
		eff := EffectiveOdd(solved[i])
		if eff <= 0 {
			solved[i].Stake = 0
			continue
		}
		solved[i].Stake = RoundStake(targetReturn/eff, rounding)
	}
	return solved
}

// SolveFreebet computes cover stakes for freebet (SNR) dutching: the target
// profit is the promo leg's guaranteed winnings, freebetStake times its SNR
// winnings multiplier, and each cover leg stakes targetProfit/(effOdd-1).
// A cover whose effective odd leaves no margin (denominator <= 0) is clamped
// to a zero stake. The promo leg keeps its credit face value as stake.
//
// The returned slice is promo first, covers after, matching the phase order
// the dashboard persists.
func SolveFreebet(promo domain.BetLeg, covers []domain.BetLeg, rounding float64) []domain.BetLeg {
	legs := make([]domain.BetLeg, 0, len(covers)+1)
	promo.Kind = domain.LegBackFreebet
	legs = append(legs, promo)

	if !(promo.Stake > 0) {
		return append(legs, covers...)
	}
	// For a freebet-kind leg the effective odd already is the winnings
	// multiplier (boosted odd - 1, after commission).
	targetProfit := promo.Stake * EffectiveOdd(promo)

	for _, cover := range covers {
		eff := EffectiveOdd(cover)
		if eff-1 <= 0 {
			cover.Stake = 0
		} else {
			cover.Stake = RoundStake(targetProfit/(eff-1), rounding)
		}
		legs = append(legs, cover)
	}
	return legs
}

// SolveCashback computes cover stakes for a refund ("rainbow") qualifying
// bet. P is the qualifying stake, C the cash recoverable when it loses
// (P * cashbackRate/100), o the qualifying effective odd and H the harmonic
// sum of the cover effective odds. Solving the levelled system gives
//
//	N = -P*(1 - o + H*o) + H*C
//	S = P*o - N
//	coverStake_i = (N + S - C) / effOdd_i
//
// which equalizes the outcome where the qualifying bet wins against the
// outcomes where a cover wins and the refund is collected.
func SolveCashback(qualifying domain.BetLeg, covers []domain.BetLeg, cashbackRate, rounding float64) []domain.BetLeg {
	legs := make([]domain.BetLeg, 0, len(covers)+1)
	qualifying.Kind = domain.LegBackRefundable
	if qualifying.RefundFaceValue == 0 {
		qualifying.RefundFaceValue = qualifying.Stake
	}
	qualifying.RefundExtractionRate = cashbackRate
	legs = append(legs, qualifying)

	p := qualifying.Stake
	if !(p > 0) {
		return append(legs, covers...)
	}
	c := qualifying.RefundValue()

	// Qualifying effective odd uses the plain back rule: the stake is cash
	// and is returned on a win.
	backQualifying := qualifying
	backQualifying.Kind = domain.LegBack
	o := EffectiveOdd(backQualifying)

	effs := make([]float64, len(covers))
	var h float64
	for i, cover := range covers {
		eff := EffectiveOdd(cover)
		if eff <= 0 {
			eff = 1
		}
		effs[i] = eff
		h += 1 / eff
	}

	n := -p*(1-o+h*o) + h*c
	s := p*o - n
	numerator := n + s - c

	for i, cover := range covers {
		cover.Stake = RoundStake(numerator/effs[i], rounding)
		legs = append(legs, cover)
	}
	return legs
}

// Package engine implements the arbitrage calculation core: effective-odd
// derivation, stake distribution (arbitrage, freebet and cashback dutching)
// and per-scenario outcome aggregation. Every function is pure; invalid or
// incomplete input degrades to a defined zero-effect result rather than an
// error, because the engine runs on partially-typed form data during live
// editing.
package engine

import (
	"math"

	"github.com/dmaffei/arbdesk/internal/domain"
)

// BoostedOdd applies an odds-boost promotion to a raw back odd:
// odd + (odd-1)*boostPercent/100. Lay legs are never boosted.
func BoostedOdd(odd, boostPercent float64) float64 {
	if boostPercent <= 0 {
		return odd
	}
	return odd + (odd-1)*boostPercent/100
}

// EffectiveOdd derives the odd used for all profit math from the leg's
// instrument kind, commission and boost:
//
//	lay:      odd - commission/100
//	freebet:  (boostedOdd-1) * (1-commission/100)   (stake not returned)
//	back:     1 + (boostedOdd-1) * (1-commission/100)
//
// An odd that is missing, NaN or <= 1 has no arbitrage value; the result is 0
// and the solver excludes the leg from stake distribution.
func EffectiveOdd(leg domain.BetLeg) float64 {
	if !(leg.Odd > 1) || math.IsNaN(leg.Commission) {
		return 0
	}
	comm := leg.Commission / 100

	if leg.IsLay() {
		return leg.Odd - comm
	}

	boosted := leg.Odd
	if leg.Kind == domain.LegBackBoosted {
		boosted = BoostedOdd(leg.Odd, leg.BoostPercent)
	}
	if leg.IsFreebet() {
		return (boosted - 1) * (1 - comm)
	}
	return 1 + (boosted-1)*(1-comm)
}

// Liability returns the cash at risk on a lay bet: stake*(odd-1). Zero when
// the stake or odd makes no bet.
func Liability(stake, odd float64) float64 {
	if odd <= 1 || stake <= 0 {
		return 0
	}
	return stake * (odd - 1)
}

// Investment returns the leg's cash contribution to the total outlay: the lay
// liability for lay legs, zero for freebet legs (promotional credit, not
// cash), the stake otherwise.
func Investment(leg domain.BetLeg) float64 {
	switch {
	case leg.IsLay():
		return Liability(leg.Stake, leg.Odd)
	case leg.IsFreebet():
		return 0
	default:
		return leg.Stake
	}
}

package domain

// LegKind identifies the wagering instrument of a single bet leg. Exactly one
// kind applies to a leg; the promotional variants that were mutually-exclusive
// boolean toggles in the dashboard form are modelled as distinct kinds so an
// invalid combination (freebet + refundable, boosted lay) cannot be expressed.
type LegKind string

const (
	// LegBack is a plain back bet at a bookmaker.
	LegBack LegKind = "back"
	// LegBackBoosted is a back bet with an odds-boost promotion applied to
	// (odd-1) before commission.
	LegBackBoosted LegKind = "back_boosted"
	// LegBackFreebet is an SNR ("stake not returned") free bet: the stake is
	// promotional credit, not cash at risk, and a winning return excludes it.
	LegBackFreebet LegKind = "back_freebet"
	// LegBackRefundable is a qualifying ("rainbow") bet that pays a partial
	// cash refund when it loses.
	LegBackRefundable LegKind = "back_refundable"
	// LegLay is an exchange lay; the stake is the backer's stake and the
	// bettor's liability is stake*(odd-1).
	LegLay LegKind = "lay"
)

// Valid reports whether k is a known leg kind.
func (k LegKind) Valid() bool {
	switch k {
	case LegBack, LegBackBoosted, LegBackFreebet, LegBackRefundable, LegLay:
		return true
	}
	return false
}

// IsBack reports whether k is any of the back-instrument kinds.
func (k LegKind) IsBack() bool { return k != LegLay && k.Valid() }

// BetLeg is one wagering instruction on one bookmaker for one market.
//
// Odd and Stake are decimals; Commission, BoostPercent and
// RefundExtractionRate are percentages in [0,100]. BoostPercent is only
// meaningful on LegBackBoosted, RefundFaceValue/RefundExtractionRate only on
// LegBackRefundable. For a freebet leg Stake is the credit face value. The
// effective odd and investment contribution of a leg are always derived by
// the engine, never stored here.
type BetLeg struct {
	Kind                 LegKind `json:"kind"`
	Bookmaker            string  `json:"bookmaker,omitempty"`
	Market               string  `json:"market,omitempty"`
	Odd                  float64 `json:"odd"`
	Stake                float64 `json:"stake"`
	Commission           float64 `json:"commission,omitempty"`
	BoostPercent         float64 `json:"boost_percent,omitempty"`
	RefundFaceValue      float64 `json:"refund_face_value,omitempty"`
	RefundExtractionRate float64 `json:"refund_extraction_rate,omitempty"`
}

// IsFreebet reports whether the leg is an SNR free bet.
func (l BetLeg) IsFreebet() bool { return l.Kind == LegBackFreebet }

// IsRefundable reports whether the leg pays a refund when it loses.
func (l BetLeg) IsRefundable() bool { return l.Kind == LegBackRefundable }

// IsLay reports whether the leg is an exchange lay.
func (l BetLeg) IsLay() bool { return l.Kind == LegLay }

// RefundValue returns the cash recoverable if this leg loses: the face value
// scaled by the extraction rate. Zero for non-refundable kinds.
func (l BetLeg) RefundValue() float64 {
	if !l.IsRefundable() {
		return 0
	}
	return l.RefundFaceValue * l.RefundExtractionRate / 100
}

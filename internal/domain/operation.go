package domain

import "time"

// OperationStatus is the lifecycle state of an operation.
type OperationStatus string

const (
	// OperationActive means the operation is still being built or its bets
	// are not yet resolved.
	OperationActive OperationStatus = "active"
	// OperationAwaitingFreebet means the qualifying bet resolved and the
	// operation is waiting for the promotional credit to be granted.
	OperationAwaitingFreebet OperationStatus = "awaiting_freebet"
	// OperationSettled means all bets resolved and the aggregates are frozen.
	OperationSettled OperationStatus = "settled"
)

// Valid reports whether s is a known status.
func (s OperationStatus) Valid() bool {
	switch s {
	case OperationActive, OperationAwaitingFreebet, OperationSettled:
		return true
	}
	return false
}

// Closed reports whether the operation counts toward ledger metrics.
func (s OperationStatus) Closed() bool { return s == OperationSettled }

// ProfitSource says where an operation's profit figure comes from. Exactly one
// of the two variants is active: either the profit is the aggregate computed
// from the phases, or an operator entered a manual override ("double green")
// for an off-model outcome. The override optionally still passes through the
// partner commission.
type ProfitSource struct {
	Manual         bool    `json:"manual"`
	OverrideValue  float64 `json:"override_value,omitempty"`
	PassCommission bool    `json:"pass_commission,omitempty"`
}

// Computed is the profit source for operations whose profit flows from the
// per-phase computation.
func Computed() ProfitSource { return ProfitSource{} }

// ManualOverride is the profit source for operations whose profit was entered
// by hand, bypassing the per-leg computation.
func ManualOverride(value float64, passCommission bool) ProfitSource {
	return ProfitSource{Manual: true, OverrideValue: value, PassCommission: passCommission}
}

// Phase is one solved round of bets inside an operation: an ordered list of
// legs plus the aggregates derived from them. Invested, Return and Profit are
// outputs of the outcome aggregator for the legs as solved, never edited
// directly.
type Phase struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Strategy string   `json:"strategy"`
	Legs     []BetLeg `json:"legs"`
	Rounding float64  `json:"rounding"`
	Invested float64  `json:"invested"`
	Return   float64  `json:"return"`
	Profit   float64  `json:"profit"`
	ROI      float64  `json:"roi"`
}

// Operation is a named arbitrage event composed of one or more phases. Phases
// and their legs are exclusively owned by the operation; partners are
// referenced by ID. The Invested/Return/Profit aggregates are always the sum
// of the phase-level results and are frozen once the operation settles; the
// only way to bypass the computed profit is the manual-override profit source.
type Operation struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Game         string          `json:"game,omitempty"`
	Strategy     string          `json:"strategy"`
	Status       OperationStatus `json:"status"`
	EventDate    time.Time       `json:"event_date"`
	CreatedAt    time.Time       `json:"created_at"`
	SettledAt    *time.Time      `json:"settled_at,omitempty"`
	Phases       []Phase         `json:"phases"`
	Invested     float64         `json:"invested"`
	Return       float64         `json:"return"`
	Profit       float64         `json:"profit"`
	AverageOdd   float64         `json:"average_odd,omitempty"`
	Commission   float64         `json:"commission"` // partner repasse, percent
	ProfitSource ProfitSource    `json:"profit_source"`
	PartnerIDs   []string        `json:"partner_ids,omitempty"`
}

// Recompute refreshes the operation aggregates from its phases: invested,
// return and profit are each the sum over phases. It does not touch a manual
// profit override, which lives alongside (and takes precedence in the ledger).
func (o *Operation) Recompute() {
	var invested, ret, profit float64
	for _, p := range o.Phases {
		invested += p.Invested
		ret += p.Return
		profit += p.Profit
	}
	o.Invested = invested
	o.Return = ret
	o.Profit = profit
}

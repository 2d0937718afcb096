// Package service wires the pure engine and ledger packages to the stores,
// cache, bus and notifier. Services own validation and transitions; the math
// lives in internal/engine and internal/ledger.
package service

import (
	"log/slog"

	"github.com/dmaffei/arbdesk/internal/domain"
	"github.com/dmaffei/arbdesk/internal/engine"
)

// SolveRequest is a stateless solve for the calculator: legs with the anchor
// stake filled in, the anchor index, and a rounding increment (0 disables
// rounding).
type SolveRequest struct {
	Legs        []domain.BetLeg `json:"legs"`
	AnchorIndex int             `json:"anchor_index"`
	Rounding    float64         `json:"rounding"`
}

// FreebetRequest solves freebet dutching: extract value from a promotional
// credit by covering its outcomes at the given odds.
type FreebetRequest struct {
	Promo    domain.BetLeg   `json:"promo"`
	Covers   []domain.BetLeg `json:"covers"`
	Rounding float64         `json:"rounding"`
}

// CashbackRequest solves cashback dutching: a qualifying stake whose loss is
// partially refunded, levelled against cover legs.
type CashbackRequest struct {
	Qualifying   domain.BetLeg   `json:"qualifying"`
	Covers       []domain.BetLeg `json:"covers"`
	CashbackRate float64         `json:"cashback_rate"`
	Rounding     float64         `json:"rounding"`
}

// SolveResult carries the solved legs and the outcome summary derived from
// them.
type SolveResult struct {
	Legs    []domain.BetLeg `json:"legs"`
	Summary engine.Summary  `json:"summary"`
}

// SolverService runs the engine for the calculator endpoints. It holds no
// state beyond the configured default rounding increment.
type SolverService struct {
	defaultRounding float64
	logger          *slog.Logger
}

// NewSolverService creates a SolverService. defaultRounding is applied when a
// request leaves Rounding at zero but negative values disable rounding.
func NewSolverService(defaultRounding float64, logger *slog.Logger) *SolverService {
	return &SolverService{
		defaultRounding: defaultRounding,
		logger:          logger.With(slog.String("component", "solver_service")),
	}
}

func (s *SolverService) rounding(requested float64) float64 {
	if requested == 0 {
		return s.defaultRounding
	}
	if requested < 0 {
		return 0
	}
	return requested
}

// SolveArbitrage distributes stakes across the request legs so every
// scenario returns the anchor's target, then summarizes the outcomes.
func (s *SolverService) SolveArbitrage(req SolveRequest) (SolveResult, error) {
	if len(req.Legs) == 0 {
		return SolveResult{}, domain.ErrInvalidInput
	}
	if req.AnchorIndex < 0 || req.AnchorIndex >= len(req.Legs) {
		return SolveResult{}, domain.ErrInvalidInput
	}

	solved := engine.SolveArbitrage(req.Legs, req.AnchorIndex, s.rounding(req.Rounding))
	return SolveResult{Legs: solved, Summary: engine.Summarize(solved)}, nil
}

// SolveFreebet solves the freebet dutching strategy.
func (s *SolverService) SolveFreebet(req FreebetRequest) (SolveResult, error) {
	if len(req.Covers) == 0 {
		return SolveResult{}, domain.ErrInvalidInput
	}

	solved := engine.SolveFreebet(req.Promo, req.Covers, s.rounding(req.Rounding))
	return SolveResult{Legs: solved, Summary: engine.Summarize(solved)}, nil
}

// SolveCashback solves the cashback dutching strategy.
func (s *SolverService) SolveCashback(req CashbackRequest) (SolveResult, error) {
	if len(req.Covers) == 0 || req.CashbackRate < 0 {
		return SolveResult{}, domain.ErrInvalidInput
	}

	solved := engine.SolveCashback(req.Qualifying, req.Covers, req.CashbackRate, s.rounding(req.Rounding))
	return SolveResult{Legs: solved, Summary: engine.Summarize(solved)}, nil
}

package handler

import (
	"log/slog"
	"net/http"

	"github.com/dmaffei/arbdesk/internal/service"
)

// SolverHandler serves the stateless calculator endpoints. Requests carry
// legs with the anchor stake set; the response returns solved stakes and the
// per-scenario outcome summary.
type SolverHandler struct {
	solver *service.SolverService
	logger *slog.Logger
}

// NewSolverHandler creates a SolverHandler.
func NewSolverHandler(solver *service.SolverService, logger *slog.Logger) *SolverHandler {
	return &SolverHandler{
		solver: solver,
		logger: logger.With(slog.String("handler", "solver")),
	}
}

// SolveArbitrage distributes stakes so every scenario returns the anchor's
// target.
// POST /api/solver/arbitrage
func (h *SolverHandler) SolveArbitrage(w http.ResponseWriter, r *http.Request) {
	var req service.SolveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	result, err := h.solver.SolveArbitrage(req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// SolveFreebet solves the freebet dutching strategy.
// POST /api/solver/freebet
func (h *SolverHandler) SolveFreebet(w http.ResponseWriter, r *http.Request) {
	var req service.FreebetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	result, err := h.solver.SolveFreebet(req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// SolveCashback solves the cashback dutching strategy.
// POST /api/solver/cashback
func (h *SolverHandler) SolveCashback(w http.ResponseWriter, r *http.Request) {
	var req service.CashbackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	result, err := h.solver.SolveCashback(req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

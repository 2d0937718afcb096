package handler

import (
	"log/slog"
	"net/http"

	"github.com/dmaffei/arbdesk/internal/domain"
	"github.com/dmaffei/arbdesk/internal/service"
)

// OperationHandler serves the operation CRUD and lifecycle endpoints.
type OperationHandler struct {
	ops    *service.OperationService
	logger *slog.Logger
}

// NewOperationHandler creates an OperationHandler.
func NewOperationHandler(ops *service.OperationService, logger *slog.Logger) *OperationHandler {
	return &OperationHandler{
		ops:    ops,
		logger: logger.With(slog.String("handler", "operations")),
	}
}

// List returns operations, optionally filtered by status, strategy and a
// date window.
// GET /api/operations
func (h *OperationHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.OperationFilter{
		ListOpts: parseListOpts(r),
		Status:   domain.OperationStatus(r.URL.Query().Get("status")),
		Strategy: r.URL.Query().Get("strategy"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		writeError(w, http.StatusBadRequest, "unknown status filter")
		return
	}

	ops, err := h.ops.List(r.Context(), filter)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list operations failed", slog.String("error", err.Error()))
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"operations": ops, "count": len(ops)})
}

// Create stores a new operation.
// POST /api/operations
func (h *OperationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var op domain.Operation
	if err := decodeJSON(r, &op); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	created, err := h.ops.Create(r.Context(), op)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Get returns one operation.
// GET /api/operations/{id}
func (h *OperationHandler) Get(w http.ResponseWriter, r *http.Request) {
	op, err := h.ops.Get(r.Context(), pathParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, op)
}

// Update replaces an active operation's editable fields.
// PUT /api/operations/{id}
func (h *OperationHandler) Update(w http.ResponseWriter, r *http.Request) {
	var op domain.Operation
	if err := decodeJSON(r, &op); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	op.ID = pathParam(r, "id")

	updated, err := h.ops.Update(r.Context(), op)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes an operation.
// DELETE /api/operations/{id}
func (h *OperationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.ops.Delete(r.Context(), pathParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// addPhaseRequest carries the legs of a new phase plus the solve parameters.
type addPhaseRequest struct {
	Phase       domain.Phase `json:"phase"`
	AnchorIndex int          `json:"anchor_index"`
}

// AddPhase solves a phase through the engine and appends it.
// POST /api/operations/{id}/phases
func (h *OperationHandler) AddPhase(w http.ResponseWriter, r *http.Request) {
	var req addPhaseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	op, err := h.ops.AddPhase(r.Context(), pathParam(r, "id"), req.Phase, req.AnchorIndex)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, op)
}

// settleRequest selects the profit source at settlement. When Manual is
// true, Value is the hand-entered profit ("double green") and PassCommission
// says whether the partner cut still applies to it.
type settleRequest struct {
	Manual         bool    `json:"manual"`
	Value          float64 `json:"value"`
	PassCommission bool    `json:"pass_commission"`
}

// Settle closes an operation, freezing its aggregates and distributing
// partner payouts.
// POST /api/operations/{id}/settle
func (h *OperationHandler) Settle(w http.ResponseWriter, r *http.Request) {
	var req settleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	source := domain.Computed()
	if req.Manual {
		source = domain.ManualOverride(req.Value, req.PassCommission)
	}

	op, err := h.ops.Settle(r.Context(), pathParam(r, "id"), source)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, op)
}

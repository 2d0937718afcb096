package handler

import (
	"log/slog"
	"net/http"

	"github.com/dmaffei/arbdesk/internal/domain"
	"github.com/dmaffei/arbdesk/internal/service"
)

// PartnerHandler serves the partner CRUD and payout-preview endpoints.
type PartnerHandler struct {
	partners *service.PartnerService
	logger   *slog.Logger
}

// NewPartnerHandler creates a PartnerHandler.
func NewPartnerHandler(partners *service.PartnerService, logger *slog.Logger) *PartnerHandler {
	return &PartnerHandler{
		partners: partners,
		logger:   logger.With(slog.String("handler", "partners")),
	}
}

// List returns partners; ?active=true narrows to active ones.
// GET /api/partners
func (h *PartnerHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	ps, err := h.partners.List(r.Context(), activeOnly)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"partners": ps, "count": len(ps)})
}

// Create stores a new partner.
// POST /api/partners
func (h *PartnerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var p domain.Partner
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	created, err := h.partners.Create(r.Context(), p)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Get returns one partner.
// GET /api/partners/{id}
func (h *PartnerHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.partners.Get(r.Context(), pathParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Update replaces a partner's fields.
// PUT /api/partners/{id}
func (h *PartnerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var p domain.Partner
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	p.ID = pathParam(r, "id")

	updated, err := h.partners.Update(r.Context(), p)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a partner.
// DELETE /api/partners/{id}
func (h *PartnerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.partners.Delete(r.Context(), pathParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PreviewPayout computes the partner's cut over settled operations in the
// query window without writing anything.
// GET /api/partners/{id}/payout
func (h *PartnerHandler) PreviewPayout(w http.ResponseWriter, r *http.Request) {
	opts := parseListOpts(r)
	preview, err := h.partners.PreviewPayout(r.Context(), pathParam(r, "id"), opts.Since, opts.Until)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

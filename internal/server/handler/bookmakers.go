package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmaffei/arbdesk/internal/domain"
)

// BookmakerHandler serves bookmaker account CRUD straight off the store.
type BookmakerHandler struct {
	books  domain.BookmakerStore
	logger *slog.Logger
}

// NewBookmakerHandler creates a BookmakerHandler.
func NewBookmakerHandler(books domain.BookmakerStore, logger *slog.Logger) *BookmakerHandler {
	return &BookmakerHandler{
		books:  books,
		logger: logger.With(slog.String("handler", "bookmakers")),
	}
}

// List returns every bookmaker account.
// GET /api/bookmakers
func (h *BookmakerHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookmakers": books, "count": len(books)})
}

// Create stores a new bookmaker account.
// POST /api/bookmakers
func (h *BookmakerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var b domain.Bookmaker
	if err := decodeJSON(r, &b); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if b.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}

	b.ID = uuid.New().String()
	if b.Status == "" {
		b.Status = domain.BookmakerOpen
	}

	if err := h.books.Create(r.Context(), b); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// Get returns one bookmaker account.
// GET /api/bookmakers/{id}
func (h *BookmakerHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.books.GetByID(r.Context(), pathParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// Update replaces a bookmaker account's fields.
// PUT /api/bookmakers/{id}
func (h *BookmakerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var b domain.Bookmaker
	if err := decodeJSON(r, &b); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	b.ID = pathParam(r, "id")

	if err := h.books.Update(r.Context(), b); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// Delete removes a bookmaker account.
// DELETE /api/bookmakers/{id}
func (h *BookmakerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.books.Delete(r.Context(), pathParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

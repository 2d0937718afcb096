package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmaffei/arbdesk/internal/domain"
)

// validTxTypes mirrors the transaction type enum for request validation.
var validTxTypes = map[domain.TransactionType]bool{
	domain.TxDeposit:    true,
	domain.TxWithdrawal: true,
	domain.TxAdjustment: true,
	domain.TxRevenue:    true,
	domain.TxExpense:    true,
	domain.TxPayout:     true,
}

// TransactionHandler serves the cash-flow ledger endpoints straight off the
// store. Payout entries are created by settlement, not through this handler,
// but they list the same way.
type TransactionHandler struct {
	txs    domain.TransactionStore
	logger *slog.Logger
}

// NewTransactionHandler creates a TransactionHandler.
func NewTransactionHandler(txs domain.TransactionStore, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{
		txs:    txs,
		logger: logger.With(slog.String("handler", "transactions")),
	}
}

// List returns cash-flow entries, newest first. ?operation_id narrows to one
// operation's entries.
// GET /api/transactions
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	if opID := r.URL.Query().Get("operation_id"); opID != "" {
		txs, err := h.txs.ListByOperation(r.Context(), opID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"transactions": txs, "count": len(txs)})
		return
	}

	txs, err := h.txs.List(r.Context(), parseListOpts(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": txs, "count": len(txs)})
}

// Create stores a new cash-flow entry.
// POST /api/transactions
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var tx domain.Transaction
	if err := decodeJSON(r, &tx); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if !validTxTypes[tx.Type] {
		writeError(w, http.StatusBadRequest, "unknown transaction type")
		return
	}
	if tx.Value == 0 {
		writeError(w, http.StatusBadRequest, "value required")
		return
	}

	now := time.Now().UTC()
	tx.ID = uuid.New().String()
	tx.CreatedAt = now
	if tx.Date.IsZero() {
		tx.Date = now
	}
	if tx.Status == "" {
		tx.Status = domain.TxSettled
	}

	if err := h.txs.Create(r.Context(), tx); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

// UpdateStatus moves an entry between pending and settled.
// PUT /api/transactions/{id}/status
func (h *TransactionHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status domain.TransactionStatus `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Status != domain.TxPending && req.Status != domain.TxSettled {
		writeError(w, http.StatusBadRequest, "unknown status")
		return
	}

	if err := h.txs.UpdateStatus(r.Context(), pathParam(r, "id"), req.Status); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

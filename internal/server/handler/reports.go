package handler

import (
	"log/slog"
	"net/http"

	"github.com/dmaffei/arbdesk/internal/service"
)

// ReportHandler serves the dashboard metrics endpoints. All three accept
// optional since/until query params (RFC 3339 or 2006-01-02).
type ReportHandler struct {
	reports *service.ReportService
	logger  *slog.Logger
}

// NewReportHandler creates a ReportHandler.
func NewReportHandler(reports *service.ReportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		logger:  logger.With(slog.String("handler", "reports")),
	}
}

// Dashboard returns the full metrics block for the window.
// GET /api/reports/dashboard
func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	opts := parseListOpts(r)
	report, err := h.reports.Dashboard(r.Context(), opts.Since, opts.Until)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "dashboard report failed", slog.String("error", err.Error()))
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Equity returns the cumulative profit and drawdown series.
// GET /api/reports/equity
func (h *ReportHandler) Equity(w http.ResponseWriter, r *http.Request) {
	opts := parseListOpts(r)
	series, err := h.reports.Equity(r.Context(), opts.Since, opts.Until)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"equity": series, "count": len(series)})
}

// Strategies returns the per-strategy aggregate table.
// GET /api/reports/strategies
func (h *ReportHandler) Strategies(w http.ResponseWriter, r *http.Request) {
	opts := parseListOpts(r)
	table, err := h.reports.Strategies(r.Context(), opts.Since, opts.Until)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"strategies": table, "count": len(table)})
}

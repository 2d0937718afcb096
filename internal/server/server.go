// Package server exposes the dashboard HTTP and WebSocket API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmaffei/arbdesk/internal/domain"
	"github.com/dmaffei/arbdesk/internal/server/handler"
	"github.com/dmaffei/arbdesk/internal/server/middleware"
	"github.com/dmaffei/arbdesk/internal/server/ws"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port        int
	CORSOrigins []string
	APIKey      string // if empty, authentication is disabled

	// RateLimit requests per client per RateWindow; 0 disables the limiter.
	RateLimit  int
	RateWindow time.Duration
}

// Handlers aggregates all HTTP handlers that the server needs to register.
type Handlers struct {
	Health       *handler.HealthHandler
	Solver       *handler.SolverHandler
	Operations   *handler.OperationHandler
	Partners     *handler.PartnerHandler
	Bookmakers   *handler.BookmakerHandler
	Transactions *handler.TransactionHandler
	Reports      *handler.ReportHandler
}

// Server is the headless HTTP + WebSocket API behind the surebet dashboard.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	logger     *slog.Logger
}

// NewServer creates a Server with all routes registered on the ServeMux and
// the middleware chain (rate limit, auth, logging, CORS) wired up. limiter
// may be nil, which disables rate limiting regardless of config.
func NewServer(cfg Config, handlers Handlers, wsHub *ws.Hub, limiter domain.RateLimiter, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	// Health check.
	mux.HandleFunc("GET /api/health", handlers.Health.HealthCheck)

	// Calculator endpoints.
	mux.HandleFunc("POST /api/solver/arbitrage", handlers.Solver.SolveArbitrage)
	mux.HandleFunc("POST /api/solver/freebet", handlers.Solver.SolveFreebet)
	mux.HandleFunc("POST /api/solver/cashback", handlers.Solver.SolveCashback)

	// Operation lifecycle.
	mux.HandleFunc("GET /api/operations", handlers.Operations.List)
	mux.HandleFunc("POST /api/operations", handlers.Operations.Create)
	mux.HandleFunc("GET /api/operations/{id}", handlers.Operations.Get)
	mux.HandleFunc("PUT /api/operations/{id}", handlers.Operations.Update)
	mux.HandleFunc("DELETE /api/operations/{id}", handlers.Operations.Delete)
	mux.HandleFunc("POST /api/operations/{id}/phases", handlers.Operations.AddPhase)
	mux.HandleFunc("POST /api/operations/{id}/settle", handlers.Operations.Settle)

	// Partners.
	mux.HandleFunc("GET /api/partners", handlers.Partners.List)
	mux.HandleFunc("POST /api/partners", handlers.Partners.Create)
	mux.HandleFunc("GET /api/partners/{id}", handlers.Partners.Get)
	mux.HandleFunc("PUT /api/partners/{id}", handlers.Partners.Update)
	mux.HandleFunc("DELETE /api/partners/{id}", handlers.Partners.Delete)
	mux.HandleFunc("GET /api/partners/{id}/payout", handlers.Partners.PreviewPayout)

	// Bookmaker accounts.
	mux.HandleFunc("GET /api/bookmakers", handlers.Bookmakers.List)
	mux.HandleFunc("POST /api/bookmakers", handlers.Bookmakers.Create)
	mux.HandleFunc("GET /api/bookmakers/{id}", handlers.Bookmakers.Get)
	mux.HandleFunc("PUT /api/bookmakers/{id}", handlers.Bookmakers.Update)
	mux.HandleFunc("DELETE /api/bookmakers/{id}", handlers.Bookmakers.Delete)

	// Cash-flow ledger.
	mux.HandleFunc("GET /api/transactions", handlers.Transactions.List)
	mux.HandleFunc("POST /api/transactions", handlers.Transactions.Create)
	mux.HandleFunc("PUT /api/transactions/{id}/status", handlers.Transactions.UpdateStatus)

	// Reports.
	mux.HandleFunc("GET /api/reports/dashboard", handlers.Reports.Dashboard)
	mux.HandleFunc("GET /api/reports/equity", handlers.Reports.Equity)
	mux.HandleFunc("GET /api/reports/strategies", handlers.Reports.Strategies)

	// WebSocket endpoint.
	if wsHub != nil {
		mux.HandleFunc("GET /ws", wsHub.HandleWS)
	}

	// Build the middleware chain, innermost first.
	var h http.Handler = mux
	h = middleware.Auth(cfg.APIKey)(h)
	if limiter != nil && cfg.RateLimit > 0 {
		h = middleware.RateLimit(limiter, cfg.RateLimit, cfg.RateWindow)(h)
	}
	h = middleware.Logging(logger)(h)
	h = middleware.CORS(cfg.CORSOrigins)(h)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: srv,
		mux:        mux,
		logger:     logger,
	}
}

// Start begins listening for HTTP requests. It blocks until the server
// encounters an error or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting",
		slog.String("addr", s.httpServer.Addr),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// to complete within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

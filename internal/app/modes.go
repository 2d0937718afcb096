package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmaffei/arbdesk/internal/domain"
	"github.com/dmaffei/arbdesk/internal/notify"
	"github.com/dmaffei/arbdesk/internal/server"
	"github.com/dmaffei/arbdesk/internal/server/handler"
	"github.com/dmaffei/arbdesk/internal/server/ws"
	"github.com/dmaffei/arbdesk/internal/service"
)

// exportLockTTL bounds how long one export run can hold the cluster-wide
// lock before it expires on its own.
const exportLockTTL = 10 * time.Minute

// ServeMode runs the HTTP/WebSocket API until the context is cancelled.
func (a *App) ServeMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting serve mode")

	solverSvc := service.NewSolverService(a.cfg.Engine.DefaultRounding, a.logger)
	operationSvc := service.NewOperationService(
		deps.OperationStore,
		deps.PartnerStore,
		deps.TransactionStore,
		deps.SignalBus,
		deps.ReportCache,
		deps.Notifier,
		a.logger,
	)
	partnerSvc := service.NewPartnerService(deps.PartnerStore, deps.OperationStore, a.logger)
	reportSvc := service.NewReportService(
		deps.OperationStore,
		deps.ReportCache,
		a.cfg.Reports.InitialBankroll,
		a.cfg.Reports.CacheTTL.Duration,
		a.cfg.Reports.TopDaysWindow.Duration,
		a.logger,
	)

	hub := ws.NewHub(deps.SignalBus, a.logger)

	handlers := server.Handlers{
		Health:       handler.NewHealthHandler(a.logger),
		Solver:       handler.NewSolverHandler(solverSvc, a.logger),
		Operations:   handler.NewOperationHandler(operationSvc, a.logger),
		Partners:     handler.NewPartnerHandler(partnerSvc, a.logger),
		Bookmakers:   handler.NewBookmakerHandler(deps.BookmakerStore, a.logger),
		Transactions: handler.NewTransactionHandler(deps.TransactionStore, a.logger),
		Reports:      handler.NewReportHandler(reportSvc, a.logger),
	}

	srv := server.NewServer(server.Config{
		Port:        a.cfg.Server.Port,
		CORSOrigins: a.cfg.Server.CORSOrigins,
		APIKey:      a.cfg.Server.APIKey,
		RateLimit:   a.cfg.Server.RateLimit,
		RateWindow:  a.cfg.Server.RateWindow.Duration,
	}, handlers, hub, deps.RateLimiter, a.logger)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := hub.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		return srv.Start()
	})

	// Shut the HTTP server down when the context ends so Start returns.
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// ExportMode archives every settled operation to object storage once and
// exits. A distributed lock keeps concurrent scheduled runs from writing
// duplicate archives.
func (a *App) ExportMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting export mode")

	if deps.Exporter == nil {
		return fmt.Errorf("app: export mode requires s3 configuration")
	}

	unlock, err := deps.LockManager.Acquire(ctx, "export", exportLockTTL)
	if err != nil {
		if errors.Is(err, domain.ErrLockHeld) {
			a.logger.WarnContext(ctx, "export already running elsewhere, skipping")
			return nil
		}
		return fmt.Errorf("app: export lock: %w", err)
	}
	defer unlock()

	count, err := deps.Exporter.ExportSettled(ctx, nil, nil)
	if err != nil {
		return fmt.Errorf("app: export: %w", err)
	}

	a.logger.InfoContext(ctx, "export finished", slog.Int64("operations", count))
	if deps.Notifier != nil {
		title, message := notify.FormatExport(count, "")
		if nerr := deps.Notifier.Notify(ctx, notify.EventExportFinished, title, message); nerr != nil {
			a.logger.WarnContext(ctx, "export notification failed", slog.String("error", nerr.Error()))
		}
	}
	return nil
}

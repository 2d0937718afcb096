package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmaffei/arbdesk/internal/domain"
	"github.com/dmaffei/arbdesk/internal/ledger"
)

// topDaysLimit caps the top-days ranking on the dashboard.
const topDaysLimit = 5

// DashboardReport is the numeric block behind the dashboard view: the ledger
// summary plus the rankings and month-over-month comparison derived from the
// same operation list.
type DashboardReport struct {
	ledger.Summary
	Equity          []ledger.EquityPoint `json:"equity"`
	TopDays         []ledger.DayProfit   `json:"top_days"`
	MonthProfit     float64              `json:"month_profit"`
	PrevMonthProfit float64              `json:"prev_month_profit"`
	MonthDelta      float64              `json:"month_delta"`
	GeneratedAt     time.Time            `json:"generated_at"`
}

// ReportService computes dashboard metrics over the operation ledger. Results
// are cached in Redis with a short TTL and invalidated whenever an operation
// settles or is deleted.
type ReportService struct {
	ops             domain.OperationStore
	cache           domain.ReportCache
	initialBankroll float64
	cacheTTL        time.Duration
	topDaysWindow   time.Duration
	logger          *slog.Logger
	now             func() time.Time
}

// NewReportService creates a ReportService. cache may be nil, which disables
// caching entirely.
func NewReportService(
	ops domain.OperationStore,
	cache domain.ReportCache,
	initialBankroll float64,
	cacheTTL time.Duration,
	topDaysWindow time.Duration,
	logger *slog.Logger,
) *ReportService {
	return &ReportService{
		ops:             ops,
		cache:           cache,
		initialBankroll: initialBankroll,
		cacheTTL:        cacheTTL,
		topDaysWindow:   topDaysWindow,
		logger:          logger.With(slog.String("component", "report_service")),
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// Dashboard returns the full metrics block for the given window. Open
// operations contribute money-in-play and total staked; settled operations
// drive everything else.
func (s *ReportService) Dashboard(ctx context.Context, since, until *time.Time) (DashboardReport, error) {
	key := "dashboard:" + periodKey(since, until)
	if report, ok := s.cached(ctx, key); ok {
		return report, nil
	}

	ops, err := s.ops.List(ctx, domain.OperationFilter{
		ListOpts: domain.ListOpts{Since: since, Until: until},
	})
	if err != nil {
		return DashboardReport{}, fmt.Errorf("report_service: dashboard: %w", err)
	}

	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	prevMonthStart := monthStart.AddDate(0, -1, 0)

	report := DashboardReport{
		Summary:         ledger.Summarize(ops, s.initialBankroll),
		Equity:          ledger.EquitySeries(ops),
		TopDays:         ledger.TopDays(ops, s.topDaysWindow, topDaysLimit, now),
		MonthProfit:     ledger.SumBetween(ops, monthStart, monthStart.AddDate(0, 1, 0)),
		PrevMonthProfit: ledger.SumBetween(ops, prevMonthStart, monthStart),
		GeneratedAt:     now,
	}
	report.MonthDelta = report.MonthProfit - report.PrevMonthProfit

	s.store(ctx, key, report)
	return report, nil
}

// Equity returns the cumulative profit and drawdown series over settled
// operations in the window.
func (s *ReportService) Equity(ctx context.Context, since, until *time.Time) ([]ledger.EquityPoint, error) {
	ops, err := s.ops.ListClosed(ctx, since, until)
	if err != nil {
		return nil, fmt.Errorf("report_service: equity: %w", err)
	}
	return ledger.EquitySeries(ops), nil
}

// Strategies returns the per-strategy aggregate table for the window.
func (s *ReportService) Strategies(ctx context.Context, since, until *time.Time) ([]ledger.StrategyAggregate, error) {
	ops, err := s.ops.ListClosed(ctx, since, until)
	if err != nil {
		return nil, fmt.Errorf("report_service: strategies: %w", err)
	}
	return ledger.PerStrategy(ops), nil
}

func (s *ReportService) cached(ctx context.Context, key string) (DashboardReport, bool) {
	if s.cache == nil {
		return DashboardReport{}, false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			s.logger.WarnContext(ctx, "report cache read failed",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
		return DashboardReport{}, false
	}
	var report DashboardReport
	if err := json.Unmarshal(data, &report); err != nil {
		return DashboardReport{}, false
	}
	return report, true
}

func (s *ReportService) store(ctx context.Context, key string, report DashboardReport) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.logger.WarnContext(ctx, "report cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

// periodKey renders a window as a stable cache key fragment.
func periodKey(since, until *time.Time) string {
	const layout = "20060102"
	switch {
	case since != nil && until != nil:
		return since.UTC().Format(layout) + "-" + until.UTC().Format(layout)
	case since != nil:
		return since.UTC().Format(layout) + "-"
	case until != nil:
		return "-" + until.UTC().Format(layout)
	}
	return "all"
}

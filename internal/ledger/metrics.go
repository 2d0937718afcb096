// Package ledger derives portfolio-level metrics from settled operations: net
// profit after partner commission, win rate, streaks, per-strategy aggregates
// and equity/drawdown series. Everything is a single pass over the input
// slice, recomputed fresh on each call; the package holds no state.
package ledger

import (
	"sort"

	"github.com/dmaffei/arbdesk/internal/domain"
)

// NetProfit is the house's take from one operation after the partner
// commission. A manual profit override replaces the computed aggregate
// entirely; the override optionally still passes through the commission.
func NetProfit(op domain.Operation) float64 {
	comm := op.Commission / 100
	if op.ProfitSource.Manual {
		v := op.ProfitSource.OverrideValue
		if op.ProfitSource.PassCommission {
			return v * (1 - comm)
		}
		return v
	}
	return op.Profit - op.Profit*comm
}

// closedByDateDesc returns the settled operations sorted most recent first.
func closedByDateDesc(ops []domain.Operation) []domain.Operation {
	closed := make([]domain.Operation, 0, len(ops))
	for _, op := range ops {
		if op.Status.Closed() {
			closed = append(closed, op)
		}
	}
	sort.SliceStable(closed, func(i, j int) bool {
		return closed[i].EventDate.After(closed[j].EventDate)
	})
	return closed
}

// WinRate is the percentage of settled operations with a positive net profit,
// rounded to the nearest integer. Zero when nothing has settled.
func WinRate(ops []domain.Operation) int {
	var wins, total int
	for _, op := range ops {
		if !op.Status.Closed() {
			continue
		}
		total++
		if NetProfit(op) > 0 {
			wins++
		}
	}
	if total == 0 {
		return 0
	}
	return int(float64(wins)/float64(total)*100 + 0.5)
}

// CurrentStreak counts consecutive profitable settled operations, most recent
// first. The streak ends at the first loss; a break-even operation neither
// extends nor ends it.
func CurrentStreak(ops []domain.Operation) int {
	streak := 0
	for _, op := range closedByDateDesc(ops) {
		net := NetProfit(op)
		switch {
		case net > 0:
			streak++
		case net < 0:
			return streak
		}
	}
	return streak
}

// StrategyAggregate is the summed result for one strategy label.
type StrategyAggregate struct {
	Strategy string  `json:"strategy"`
	Profit   float64 `json:"profit"`
	Count    int     `json:"count"`
}

// PerStrategy groups settled operations by strategy label and sums net profit
// per group, sorted by profit descending. Operations without a label fall
// under "outros". The first entry is the best strategy.
func PerStrategy(ops []domain.Operation) []StrategyAggregate {
	byLabel := make(map[string]*StrategyAggregate)
	var order []string
	for _, op := range ops {
		if !op.Status.Closed() {
			continue
		}
		label := op.Strategy
		if label == "" {
			label = "outros"
		}
		agg, ok := byLabel[label]
		if !ok {
			agg = &StrategyAggregate{Strategy: label}
			byLabel[label] = agg
			order = append(order, label)
		}
		agg.Profit += NetProfit(op)
		agg.Count++
	}

	out := make([]StrategyAggregate, 0, len(order))
	for _, label := range order {
		out = append(out, *byLabel[label])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Profit > out[j].Profit })
	return out
}

// Summary is the combined dashboard metrics block derived from one operation
// list and an initial bankroll.
type Summary struct {
	RealizedProfit float64             `json:"realized_profit"`
	MoneyInPlay    float64             `json:"money_in_play"`
	TotalStaked    float64             `json:"total_staked"`
	TotalReturn    float64             `json:"total_return"`
	Bankroll       float64             `json:"bankroll"`
	Growth         float64             `json:"growth"`
	ROI            float64             `json:"roi"`
	WinRate        int                 `json:"win_rate"`
	WinCount       int                 `json:"win_count"`
	ClosedCount    int                 `json:"closed_count"`
	CurrentStreak  int                 `json:"current_streak"`
	Strategies     []StrategyAggregate `json:"strategies"`
	BestStrategy   string              `json:"best_strategy"`
}

// Summarize computes the full dashboard metrics block. Realized profit and
// return come from settled operations only; the total staked counts every
// operation because the cash has left the bankroll either way, and money in
// play is the outlay still locked in open operations.
func Summarize(ops []domain.Operation, initialBankroll float64) Summary {
	var s Summary
	for _, op := range ops {
		s.TotalStaked += op.Invested
		if op.Status.Closed() {
			net := NetProfit(op)
			s.RealizedProfit += net
			s.TotalReturn += op.Invested + net
			s.ClosedCount++
			if net > 0 {
				s.WinCount++
			}
		} else {
			s.MoneyInPlay += op.Invested
		}
	}

	s.Bankroll = initialBankroll + s.RealizedProfit
	if initialBankroll > 0 {
		s.Growth = s.RealizedProfit / initialBankroll * 100
	}
	if s.TotalStaked > 0 {
		s.ROI = s.RealizedProfit / s.TotalStaked * 100
	}
	if s.ClosedCount > 0 {
		s.WinRate = int(float64(s.WinCount)/float64(s.ClosedCount)*100 + 0.5)
	}
	s.CurrentStreak = CurrentStreak(ops)
	s.Strategies = PerStrategy(ops)
	if len(s.Strategies) > 0 {
		s.BestStrategy = s.Strategies[0].Strategy
	}
	return s
}

package ledger

import (
	"sort"
	"time"

	"github.com/dmaffei/arbdesk/internal/domain"
)

// EquityPoint is one day on the cumulative profit curve. Drawdown is the
// distance below the running peak, always <= 0.
type EquityPoint struct {
	Date       time.Time `json:"date"`
	Profit     float64   `json:"profit"`
	Cumulative float64   `json:"cumulative"`
	Drawdown   float64   `json:"drawdown"`
}

// dayKey truncates a timestamp to its calendar date in UTC.
func dayKey(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EquitySeries groups settled operations by calendar date, sums net profit
// per day, and walks the days in ascending order accumulating the equity
// curve and its drawdown (cumulative minus the running peak).
func EquitySeries(ops []domain.Operation) []EquityPoint {
	daily := make(map[time.Time]float64)
	for _, op := range ops {
		if !op.Status.Closed() {
			continue
		}
		daily[dayKey(op.EventDate)] += NetProfit(op)
	}
	if len(daily) == 0 {
		return nil
	}

	days := make([]time.Time, 0, len(daily))
	for d := range daily {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	series := make([]EquityPoint, 0, len(days))
	var cumulative, peak float64
	for _, d := range days {
		cumulative += daily[d]
		if cumulative > peak {
			peak = cumulative
		}
		series = append(series, EquityPoint{
			Date:       d,
			Profit:     daily[d],
			Cumulative: cumulative,
			Drawdown:   cumulative - peak,
		})
	}
	return series
}

// DayProfit is one entry in the top-days ranking.
type DayProfit struct {
	Date   time.Time `json:"date"`
	Profit float64   `json:"profit"`
}

// TopDays ranks the most profitable calendar dates among settled operations
// in the trailing window, best first, at most limit entries.
func TopDays(ops []domain.Operation, window time.Duration, limit int, now time.Time) []DayProfit {
	cutoff := now.Add(-window)
	daily := make(map[time.Time]float64)
	for _, op := range ops {
		if !op.Status.Closed() || op.EventDate.Before(cutoff) {
			continue
		}
		daily[dayKey(op.EventDate)] += NetProfit(op)
	}

	out := make([]DayProfit, 0, len(daily))
	for d, p := range daily {
		out = append(out, DayProfit{Date: d, Profit: p})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Profit != out[j].Profit {
			return out[i].Profit > out[j].Profit
		}
		return out[i].Date.Before(out[j].Date)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// SumBetween sums the net profit of settled operations whose event date falls
// in [from, to). Used for month-over-month comparisons.
func SumBetween(ops []domain.Operation, from, to time.Time) float64 {
	var total float64
	for _, op := range ops {
		if !op.Status.Closed() {
			continue
		}
		if op.EventDate.Before(from) || !op.EventDate.Before(to) {
			continue
		}
		total += NetProfit(op)
	}
	return total
}

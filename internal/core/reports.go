package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// RevenueMonths is the fixed width of the revenue-over-time series: the
// current month plus the five preceding ones.
const RevenueMonths = 6

type (
	// SummaryData is the dashboard headline record.
	SummaryData struct {
		TotalBalance    Money
		MonthlyIncome   Money
		MonthlyExpenses Money
		PercentChange   float64
	}

	// RevenuePoint is one month bucket of the revenue-over-time series.
	RevenuePoint struct {
		Month    string // e.g. "Jan 2023"
		Revenue  Money
		Expenses Money
	}

	// CategoryAmount is an absolute expense sum aggregated by category.
	CategoryAmount struct {
		Category string
		Amount   Money
	}

	// MonthFlow carries the income/expense sums of a single month bucket.
	MonthFlow struct {
		Revenue  Money
		Expenses Money
	}

	// MonthWindow is a calendar-month aggregation window.
	MonthWindow struct {
		Year  int
		Month time.Month
	}
)

// CurrentMonth returns the window containing now.
func CurrentMonth(now time.Time) MonthWindow {
	return MonthWindow{Year: now.Year(), Month: now.Month()}
}

// Previous returns the immediately preceding calendar month, rolling the
// year back across January.
func (w MonthWindow) Previous() MonthWindow {
	return w.Back(1)
}

// Back returns the window n months earlier.
func (w MonthWindow) Back(n int) MonthWindow {
	t := time.Date(w.Year, w.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -n, 0)
	return MonthWindow{Year: t.Year(), Month: t.Month()}
}

// First returns the first day of the month.
func (w MonthWindow) First() Date {
	return NewDate(w.Year, int(w.Month), 1)
}

// Last returns the last day of the month. Day zero of the following month
// normalizes to it, which also handles leap Februaries.
func (w MonthWindow) Last() Date {
	return Date{Time: time.Date(w.Year, w.Month+1, 0, 0, 0, 0, 0, time.UTC)}
}

// Label returns the human-readable bucket label, e.g. "Jan 2023".
func (w MonthWindow) Label() string {
	return w.First().Format("Jan 2006")
}

// Key returns the YYYY-MM grouping key matching the stores' month buckets.
func (w MonthWindow) Key() string {
	return w.First().Format("2006-01")
}

// TrailingMonths returns the n windows ending at the month containing now,
// in ascending chronological order.
func TrailingMonths(now time.Time, n int) []MonthWindow {
	current := CurrentMonth(now)
	months := make([]MonthWindow, 0, n)
	for i := n - 1; i >= 0; i-- {
		months = append(months, current.Back(i))
	}
	return months
}

// PercentChange returns the month-over-month change of the current net total
// against the previous one, in percent rounded to two decimals. A zero
// previous total yields 0 rather than an unbounded value.
func PercentChange(current, previous Money) float64 {
	if previous.IsZero() {
		return 0
	}
	cur := decimal.New(current.Cents, -2)
	prev := decimal.New(previous.Cents, -2)
	return cur.Sub(prev).Div(prev.Abs()).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
}

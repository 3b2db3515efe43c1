package core

import (
	"testing"
	"time"
)

func TestMonthWindowBounds(t *testing.T) {
	cases := []struct {
		w     MonthWindow
		first string
		last  string
	}{
		{MonthWindow{2024, time.November}, "2024-11-01", "2024-11-30"},
		{MonthWindow{2024, time.February}, "2024-02-01", "2024-02-29"}, // leap year
		{MonthWindow{2025, time.February}, "2025-02-01", "2025-02-28"},
		{MonthWindow{2024, time.December}, "2024-12-01", "2024-12-31"},
	}
	for i, tc := range cases {
		if got := tc.w.First().String(); got != tc.first {
			t.Fatalf("case %d: First = %s, want %s", i, got, tc.first)
		}
		if got := tc.w.Last().String(); got != tc.last {
			t.Fatalf("case %d: Last = %s, want %s", i, got, tc.last)
		}
	}
}

func TestMonthWindowPrevious(t *testing.T) {
	jan := MonthWindow{2025, time.January}
	prev := jan.Previous()
	if prev.Year != 2024 || prev.Month != time.December {
		t.Fatalf("previous of Jan 2025 = %v, want Dec 2024", prev)
	}

	mar := MonthWindow{2025, time.March}
	if prev := mar.Previous(); prev.Year != 2025 || prev.Month != time.February {
		t.Fatalf("previous of Mar 2025 = %v, want Feb 2025", prev)
	}
}

func TestMonthWindowLabelAndKey(t *testing.T) {
	w := MonthWindow{2023, time.January}
	if w.Label() != "Jan 2023" {
		t.Fatalf("Label = %q, want %q", w.Label(), "Jan 2023")
	}
	if w.Key() != "2023-01" {
		t.Fatalf("Key = %q, want %q", w.Key(), "2023-01")
	}
}

func TestTrailingMonths(t *testing.T) {
	now := time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)
	months := TrailingMonths(now, RevenueMonths)
	if len(months) != RevenueMonths {
		t.Fatalf("got %d months, want %d", len(months), RevenueMonths)
	}
	wantLabels := []string{"Oct 2024", "Nov 2024", "Dec 2024", "Jan 2025", "Feb 2025", "Mar 2025"}
	for i, w := range months {
		if w.Label() != wantLabels[i] {
			t.Fatalf("month %d label = %q, want %q", i, w.Label(), wantLabels[i])
		}
	}
}

func TestPercentChange(t *testing.T) {
	cases := []struct {
		name     string
		current  Money
		previous Money
		want     float64
	}{
		{"zero previous guards to zero", Money{Cents: 150000}, Money{}, 0},
		{"both zero", Money{}, Money{}, 0},
		{"doubling", Money{Cents: 20000}, Money{Cents: 10000}, 100},
		{"halving", Money{Cents: 5000}, Money{Cents: 10000}, -50},
		{"negative previous uses absolute denominator", Money{Cents: 5000}, Money{Cents: -10000}, 150},
		{"fractional result rounds to two decimals", Money{Cents: 10001}, Money{Cents: 30000}, -66.66},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PercentChange(tc.current, tc.previous); got != tc.want {
				t.Fatalf("PercentChange(%d, %d) = %v, want %v", tc.current.Cents, tc.previous.Cents, got, tc.want)
			}
		})
	}
}

package http

import (
	"log/slog"
	"net/http"
)

type summaryJSON struct {
	TotalBalance    float64 `json:"totalBalance"`
	MonthlyIncome   float64 `json:"monthlyIncome"`
	MonthlyExpenses float64 `json:"monthlyExpenses"`
	PercentChange   float64 `json:"percentChange"`
}

type revenuePointJSON struct {
	Month    string  `json:"month"`
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
}

type categoryAmountJSON struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.reports.Summary(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Summary failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to fetch summary")
		return
	}

	writeJSON(w, r, http.StatusOK, summaryJSON{
		TotalBalance:    summary.TotalBalance.Float64(),
		MonthlyIncome:   summary.MonthlyIncome.Float64(),
		MonthlyExpenses: summary.MonthlyExpenses.Float64(),
		PercentChange:   summary.PercentChange,
	})
}

func (s *Server) handleRevenue(w http.ResponseWriter, r *http.Request) {
	points, err := s.reports.Revenue(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Revenue report failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to fetch revenue data")
		return
	}

	out := make([]revenuePointJSON, 0, len(points))
	for _, p := range points {
		out = append(out, revenuePointJSON{
			Month:    p.Month,
			Revenue:  p.Revenue.Float64(),
			Expenses: p.Expenses.Float64(),
		})
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleExpenseBreakdown(w http.ResponseWriter, r *http.Request) {
	sums, err := s.reports.ExpenseBreakdown(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Expense breakdown failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to fetch expense breakdown")
		return
	}

	out := make([]categoryAmountJSON, 0, len(sums))
	for _, c := range sums {
		out = append(out, categoryAmountJSON{
			Category: c.Category,
			Amount:   c.Amount.Float64(),
		})
	}
	writeJSON(w, r, http.StatusOK, out)
}

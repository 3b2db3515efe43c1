package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"finboard/internal/core"
	"finboard/internal/storage"
)

// ReportService derives the dashboard's summary metrics, revenue series and
// category breakdown from the ledger. Every call recomputes from scratch;
// there is no cache between this service and the store.
type ReportService struct {
	store storage.Store
	now   func() time.Time
}

func NewReportService(store storage.Store) *ReportService {
	return &ReportService{
		store: store,
		now:   time.Now,
	}
}

// Summary computes the headline metrics. The four aggregate queries are
// independent, so they fan out concurrently and join before returning; the
// first failure aborts the whole call and no partial result escapes.
func (s *ReportService) Summary(ctx context.Context) (core.SummaryData, error) {
	current := core.CurrentMonth(s.now())
	previous := current.Previous()

	var (
		income      core.Money
		expenses    core.Money
		previousNet core.Money
		balance     core.Money
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		income, err = s.store.SumIncome(gctx, current)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = s.store.SumExpenses(gctx, current)
		return err
	})
	g.Go(func() error {
		var err error
		previousNet, err = s.store.SumNet(gctx, previous)
		return err
	})
	g.Go(func() error {
		var err error
		balance, err = s.store.SumBalance(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.SummaryData{}, fmt.Errorf("fetch summary data: %w", err)
	}

	currentNet := income.Sub(expenses)
	return core.SummaryData{
		TotalBalance:    balance,
		MonthlyIncome:   income,
		MonthlyExpenses: expenses,
		PercentChange:   core.PercentChange(currentNet, previousNet),
	}, nil
}

// Revenue returns the income/expense series for the current month and the
// five preceding ones, ascending. Months without rows are zero-filled, so
// the result always has exactly core.RevenueMonths entries.
func (s *ReportService) Revenue(ctx context.Context) ([]core.RevenuePoint, error) {
	months := core.TrailingMonths(s.now(), core.RevenueMonths)

	flows, err := s.store.MonthlyFlows(ctx, months[0], months[len(months)-1])
	if err != nil {
		return nil, fmt.Errorf("fetch revenue data: %w", err)
	}

	points := make([]core.RevenuePoint, 0, len(months))
	for _, m := range months {
		flow := flows[m.Key()] // zero value fills empty months
		points = append(points, core.RevenuePoint{
			Month:    m.Label(),
			Revenue:  flow.Revenue,
			Expenses: flow.Expenses,
		})
	}
	return points, nil
}

// ExpenseBreakdown returns the current month's absolute expense sums per
// category, descending. Categories without expenses are omitted.
func (s *ReportService) ExpenseBreakdown(ctx context.Context) ([]core.CategoryAmount, error) {
	sums, err := s.store.ExpenseSumsByCategory(ctx, core.CurrentMonth(s.now()))
	if err != nil {
		return nil, fmt.Errorf("fetch expense breakdown: %w", err)
	}
	return sums, nil
}

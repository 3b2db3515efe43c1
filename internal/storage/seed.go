package storage

import (
	"context"
	"fmt"
	"log/slog"

	"finboard/internal/core"
)

// demoRows is the demo ledger inserted into empty development databases so
// the dashboard renders out of the box.
var demoRows = []core.TransactionInput{
	{Date: core.NewDate(2024, 10, 10), Description: "Doctor Visit", Category: "Healthcare", Amount: core.Money{Cents: -12000}, Status: core.StatusCompleted},
	{Date: core.NewDate(2024, 10, 14), Description: "Grocery Shopping", Category: "Food", Amount: core.Money{Cents: -23414}, Status: core.StatusCompleted},
	{Date: core.NewDate(2024, 10, 16), Description: "Phone Bill", Category: "Utilities", Amount: core.Money{Cents: -6000}, Status: core.StatusCompleted},
	{Date: core.NewDate(2024, 10, 17), Description: "Freelance Work", Category: "Income", Amount: core.Money{Cents: 116338}, Status: core.StatusCompleted},
	{Date: core.NewDate(2024, 11, 15), Description: "Gym Membership", Category: "Healthcare", Amount: core.Money{Cents: -5000}, Status: core.StatusPending},
	{Date: core.NewDate(2024, 11, 17), Description: "Salary", Category: "Income", Amount: core.Money{Cents: 500000}, Status: core.StatusCompleted},
	{Date: core.NewDate(2024, 11, 22), Description: "Gas Bill", Category: "Utilities", Amount: core.Money{Cents: -4063}, Status: core.StatusFailed},
	{Date: core.NewDate(2024, 11, 27), Description: "Internet Bill", Category: "Utilities", Amount: core.Money{Cents: -8000}, Status: core.StatusPending},
	{Date: core.NewDate(2024, 12, 10), Description: "Phone Bill", Category: "Utilities", Amount: core.Money{Cents: -6000}, Status: core.StatusCompleted},
	{Date: core.NewDate(2024, 12, 19), Description: "Rent", Category: "Housing", Amount: core.Money{Cents: -150000}, Status: core.StatusCompleted},
	{Date: core.NewDate(2025, 1, 11), Description: "Bonus", Category: "Income", Amount: core.Money{Cents: 100000}, Status: core.StatusCompleted},
	{Date: core.NewDate(2025, 1, 25), Description: "Internet Bill", Category: "Utilities", Amount: core.Money{Cents: -8000}, Status: core.StatusPending},
	{Date: core.NewDate(2025, 2, 13), Description: "Electricity Bill", Category: "Utilities", Amount: core.Money{Cents: -13388}, Status: core.StatusCompleted},
	{Date: core.NewDate(2025, 2, 25), Description: "Car Insurance", Category: "Transportation", Amount: core.Money{Cents: -15000}, Status: core.StatusPending},
	{Date: core.NewDate(2025, 3, 1), Description: "Salary", Category: "Income", Amount: core.Money{Cents: 500000}, Status: core.StatusCompleted},
	{Date: core.NewDate(2025, 3, 3), Description: "Doctor Visit", Category: "Healthcare", Amount: core.Money{Cents: -12000}, Status: core.StatusCompleted},
	{Date: core.NewDate(2025, 3, 6), Description: "Gym Membership", Category: "Healthcare", Amount: core.Money{Cents: -5000}, Status: core.StatusPending},
}

// SeedDemoData inserts the demo ledger when the table is empty. It is a
// no-op on populated databases so restarts never duplicate rows.
func SeedDemoData(ctx context.Context, store Store) error {
	count, err := store.CountTransactions(ctx)
	if err != nil {
		return fmt.Errorf("count before seed: %w", err)
	}
	if count > 0 {
		slog.InfoContext(ctx, "Skipping demo seed, ledger not empty", "rows", count)
		return nil
	}

	for _, in := range demoRows {
		if _, err := store.InsertTransaction(ctx, in); err != nil {
			return fmt.Errorf("seed transaction %q: %w", in.Description, err)
		}
	}

	slog.InfoContext(ctx, "Seeded demo ledger", "rows", len(demoRows))
	return nil
}

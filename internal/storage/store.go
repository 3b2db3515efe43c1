// Package storage provides the ledger store: a single relational table of
// transactions behind the Store port, with SQLite and Postgres backends.
package storage

import (
	"context"

	"finboard/internal/core"
)

// Store is the ledger's storage port. Every method issues parameterized SQL
// against the transactions table; callers never see rows, only domain types.
type Store interface {
	// ListTransactions returns rows ordered by date descending (newest
	// first, id descending as tiebreak so paging is stable).
	ListTransactions(ctx context.Context, limit, offset int) ([]core.Transaction, error)

	// CountTransactions returns the unfiltered row count.
	CountTransactions(ctx context.Context) (int, error)

	// GetTransaction returns the row matching id, or
	// core.ErrTransactionNotFound.
	GetTransaction(ctx context.Context, id int64) (core.Transaction, error)

	// InsertTransaction stores a new row with a server-assigned id and
	// returns it as persisted.
	InsertTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error)

	// UpdateTransaction replaces every field of the row matching id, or
	// returns core.ErrTransactionNotFound.
	UpdateTransaction(ctx context.Context, id int64, in core.TransactionInput) (core.Transaction, error)

	// DeleteTransaction removes the row matching id, or returns
	// core.ErrTransactionNotFound.
	DeleteTransaction(ctx context.Context, id int64) error

	// SumIncome sums positive amounts inside the window.
	SumIncome(ctx context.Context, w core.MonthWindow) (core.Money, error)

	// SumExpenses sums the absolute value of negative amounts inside the
	// window.
	SumExpenses(ctx context.Context, w core.MonthWindow) (core.Money, error)

	// SumNet sums all amounts, any sign, inside the window.
	SumNet(ctx context.Context, w core.MonthWindow) (core.Money, error)

	// SumBalance sums all amounts across the entire table.
	SumBalance(ctx context.Context) (core.Money, error)

	// MonthlyFlows returns income/expense sums per month bucket between the
	// first day of from and the last day of to, keyed by YYYY-MM. Months
	// with no rows are absent; callers zero-fill.
	MonthlyFlows(ctx context.Context, from, to core.MonthWindow) (map[string]core.MonthFlow, error)

	// ExpenseSumsByCategory returns absolute expense sums inside the window
	// grouped by category, descending by amount. Categories with no
	// matching rows are omitted.
	ExpenseSumsByCategory(ctx context.Context, w core.MonthWindow) ([]core.CategoryAmount, error)

	Close() error
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"finboard/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the default Store implementation. Dates are persisted
// as YYYY-MM-DD text, which compares correctly for the BETWEEN windows, and
// amounts as integer cents.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const transactionColumns = "id, date, description, category, amount_cents, status"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		tx      core.Transaction
		dateStr string
		status  string
	)
	if err := row.Scan(&tx.ID, &dateStr, &tx.Description, &tx.Category, &tx.Amount.Cents, &status); err != nil {
		return core.Transaction{}, err
	}
	date, err := core.ParseDate(dateStr)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse stored date %q: %w", dateStr, err)
	}
	tx.Date = date
	tx.Status = core.Status(status)
	return tx, nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, limit, offset int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions ORDER BY date DESC, id DESC LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]core.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return transactions, nil
}

func (r *SQLiteRepository) CountTransactions(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return count, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ?", id)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrTransactionNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

func (r *SQLiteRepository) InsertTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO transactions (date, description, category, amount_cents, status)
		 VALUES (?, ?, ?, ?, ?)
		 RETURNING `+transactionColumns,
		in.Date.String(), in.Description, in.Category, in.Amount.Cents, string(in.Status))
	tx, err := scanTransaction(row)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", tx.ID,
		"date", tx.Date.String(),
		"category", tx.Category,
		"amount_cents", tx.Amount.Cents)

	return tx, nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, id int64, in core.TransactionInput) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE transactions
		 SET date = ?, description = ?, category = ?, amount_cents = ?, status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?
		 RETURNING `+transactionColumns,
		in.Date.String(), in.Description, in.Category, in.Amount.Cents, string(in.Status), id)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrTransactionNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	return tx, nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrTransactionNotFound
	}
	return nil
}

func (r *SQLiteRepository) sumCents(ctx context.Context, query string, args ...any) (core.Money, error) {
	var cents int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&cents); err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}

func (r *SQLiteRepository) SumIncome(ctx context.Context, w core.MonthWindow) (core.Money, error) {
	m, err := r.sumCents(ctx,
		"SELECT COALESCE(SUM(amount_cents), 0) FROM transactions WHERE amount_cents > 0 AND date BETWEEN ? AND ?",
		w.First().String(), w.Last().String())
	if err != nil {
		return core.Money{}, fmt.Errorf("sum income: %w", err)
	}
	return m, nil
}

func (r *SQLiteRepository) SumExpenses(ctx context.Context, w core.MonthWindow) (core.Money, error) {
	m, err := r.sumCents(ctx,
		"SELECT COALESCE(SUM(-amount_cents), 0) FROM transactions WHERE amount_cents < 0 AND date BETWEEN ? AND ?",
		w.First().String(), w.Last().String())
	if err != nil {
		return core.Money{}, fmt.Errorf("sum expenses: %w", err)
	}
	return m, nil
}

func (r *SQLiteRepository) SumNet(ctx context.Context, w core.MonthWindow) (core.Money, error) {
	m, err := r.sumCents(ctx,
		"SELECT COALESCE(SUM(amount_cents), 0) FROM transactions WHERE date BETWEEN ? AND ?",
		w.First().String(), w.Last().String())
	if err != nil {
		return core.Money{}, fmt.Errorf("sum net: %w", err)
	}
	return m, nil
}

func (r *SQLiteRepository) SumBalance(ctx context.Context) (core.Money, error) {
	m, err := r.sumCents(ctx, "SELECT COALESCE(SUM(amount_cents), 0) FROM transactions")
	if err != nil {
		return core.Money{}, fmt.Errorf("sum balance: %w", err)
	}
	return m, nil
}

func (r *SQLiteRepository) MonthlyFlows(ctx context.Context, from, to core.MonthWindow) (map[string]core.MonthFlow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT substr(date, 1, 7) AS month,
		        COALESCE(SUM(CASE WHEN amount_cents > 0 THEN amount_cents ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN amount_cents < 0 THEN -amount_cents ELSE 0 END), 0)
		 FROM transactions
		 WHERE date BETWEEN ? AND ?
		 GROUP BY month`,
		from.First().String(), to.Last().String())
	if err != nil {
		return nil, fmt.Errorf("monthly flows: %w", err)
	}
	defer rows.Close()

	flows := make(map[string]core.MonthFlow)
	for rows.Next() {
		var (
			key  string
			flow core.MonthFlow
		)
		if err := rows.Scan(&key, &flow.Revenue.Cents, &flow.Expenses.Cents); err != nil {
			return nil, fmt.Errorf("scan monthly flow: %w", err)
		}
		flows[key] = flow
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate monthly flows: %w", err)
	}
	return flows, nil
}

func (r *SQLiteRepository) ExpenseSumsByCategory(ctx context.Context, w core.MonthWindow) ([]core.CategoryAmount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category, COALESCE(SUM(-amount_cents), 0) AS total
		 FROM transactions
		 WHERE amount_cents < 0 AND date BETWEEN ? AND ?
		 GROUP BY category
		 ORDER BY total DESC, category ASC`,
		w.First().String(), w.Last().String())
	if err != nil {
		return nil, fmt.Errorf("expense sums by category: %w", err)
	}
	defer rows.Close()

	sums := make([]core.CategoryAmount, 0)
	for rows.Next() {
		var ca core.CategoryAmount
		if err := rows.Scan(&ca.Category, &ca.Amount.Cents); err != nil {
			return nil, fmt.Errorf("scan category sum: %w", err)
		}
		sums = append(sums, ca)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category sums: %w", err)
	}
	return sums, nil
}

var _ Store = (*SQLiteRepository)(nil)

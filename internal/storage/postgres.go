package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finboard/internal/core"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is the Store implementation for deployments backed by a
// managed Postgres. The schema is ensured at startup; the engine's row-level
// locking serializes concurrent mutations by primary key.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS transactions (
    id BIGSERIAL PRIMARY KEY,
    date DATE NOT NULL,
    description TEXT NOT NULL,
    category TEXT NOT NULL,
    amount_cents BIGINT NOT NULL,
    status TEXT NOT NULL,
    created_at TIMESTAMPTZ DEFAULT NOW(),
    updated_at TIMESTAMPTZ DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);
CREATE INDEX IF NOT EXISTS idx_transactions_category ON transactions(category);
`

func NewPostgresRepository(ctx context.Context, url string) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

func (r *PostgresRepository) Close() error {
	if r.pool != nil {
		r.pool.Close()
	}
	return nil
}

func scanPgTransaction(row pgx.Row) (core.Transaction, error) {
	var (
		tx     core.Transaction
		date   time.Time
		status string
	)
	if err := row.Scan(&tx.ID, &date, &tx.Description, &tx.Category, &tx.Amount.Cents, &status); err != nil {
		return core.Transaction{}, err
	}
	tx.Date = core.NewDate(date.Year(), int(date.Month()), date.Day())
	tx.Status = core.Status(status)
	return tx, nil
}

func (r *PostgresRepository) ListTransactions(ctx context.Context, limit, offset int) ([]core.Transaction, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+transactionColumns+" FROM transactions ORDER BY date DESC, id DESC LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]core.Transaction, 0)
	for rows.Next() {
		tx, err := scanPgTransaction(rows)
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

func (r *PostgresRepository) CountTransactions(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM transactions").Scan(&count); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = $1", id)
	tx, err := scanPgTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Transaction{}, core.ErrTransactionNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

func (r *PostgresRepository) InsertTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO transactions (date, description, category, amount_cents, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+transactionColumns,
		in.Date.Time, in.Description, in.Category, in.Amount.Cents, string(in.Status))
	tx, err := scanPgTransaction(row)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	return tx, nil
}

func (r *PostgresRepository) UpdateTransaction(ctx context.Context, id int64, in core.TransactionInput) (core.Transaction, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE transactions
		 SET date = $1, description = $2, category = $3, amount_cents = $4, status = $5, updated_at = NOW()
		 WHERE id = $6
		 RETURNING `+transactionColumns,
		in.Date.Time, in.Description, in.Category, in.Amount.Cents, string(in.Status), id)
	tx, err := scanPgTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Transaction{}, core.ErrTransactionNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	return tx, nil
}

func (r *PostgresRepository) DeleteTransaction(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM transactions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrTransactionNotFound
	}
	return nil
}

func (r *PostgresRepository) sumCents(ctx context.Context, query string, args ...any) (core.Money, error) {
	var cents int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&cents); err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}

func (r *PostgresRepository) SumIncome(ctx context.Context, w core.MonthWindow) (core.Money, error) {
	m, err := r.sumCents(ctx,
		"SELECT COALESCE(SUM(amount_cents), 0) FROM transactions WHERE amount_cents > 0 AND date BETWEEN $1 AND $2",
		w.First().Time, w.Last().Time)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum income: %w", err)
	}
	return m, nil
}

func (r *PostgresRepository) SumExpenses(ctx context.Context, w core.MonthWindow) (core.Money, error) {
	m, err := r.sumCents(ctx,
		"SELECT COALESCE(SUM(-amount_cents), 0) FROM transactions WHERE amount_cents < 0 AND date BETWEEN $1 AND $2",
		w.First().Time, w.Last().Time)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum expenses: %w", err)
	}
	return m, nil
}

func (r *PostgresRepository) SumNet(ctx context.Context, w core.MonthWindow) (core.Money, error) {
	m, err := r.sumCents(ctx,
		"SELECT COALESCE(SUM(amount_cents), 0) FROM transactions WHERE date BETWEEN $1 AND $2",
		w.First().Time, w.Last().Time)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum net: %w", err)
	}
	return m, nil
}

func (r *PostgresRepository) SumBalance(ctx context.Context) (core.Money, error) {
	m, err := r.sumCents(ctx, "SELECT COALESCE(SUM(amount_cents), 0) FROM transactions")
	if err != nil {
		return core.Money{}, fmt.Errorf("sum balance: %w", err)
	}
	return m, nil
}

func (r *PostgresRepository) MonthlyFlows(ctx context.Context, from, to core.MonthWindow) (map[string]core.MonthFlow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT to_char(date, 'YYYY-MM') AS month,
		        COALESCE(SUM(CASE WHEN amount_cents > 0 THEN amount_cents ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN amount_cents < 0 THEN -amount_cents ELSE 0 END), 0)
		 FROM transactions
		 WHERE date BETWEEN $1 AND $2
		 GROUP BY month`,
		from.First().Time, to.Last().Time)
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

func (r *PostgresRepository) ExpenseSumsByCategory(ctx context.Context, w core.MonthWindow) ([]core.CategoryAmount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT category, COALESCE(SUM(-amount_cents), 0) AS total
		 FROM transactions
		 WHERE amount_cents < 0 AND date BETWEEN $1 AND $2
		 GROUP BY category
		 ORDER BY total DESC, category ASC`,
		w.First().Time, w.Last().Time)
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

var _ Store = (*PostgresRepository)(nil)

package services

import (
	"context"
	"sort"

	"finboard/internal/amqp"
	"finboard/internal/core"
)

// fakeStore is an in-memory ledger used by the service tests. Aggregates are
// computed over the held rows so report tests exercise real windows.
type fakeStore struct {
	rows   []core.Transaction
	nextID int64
	errs   map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1, errs: map[string]error{}}
}

func (f *fakeStore) failWith(method string, err error) {
	f.errs[method] = err
}

func (f *fakeStore) add(date string, description, category string, cents int64, status core.Status) core.Transaction {
	d, err := core.ParseDate(date)
	if err != nil {
		panic(err)
	}
	tx := core.Transaction{
		ID:          f.nextID,
		Date:        d,
		Description: description,
		Category:    category,
		Amount:      core.Money{Cents: cents},
		Status:      status,
	}
	f.nextID++
	f.rows = append(f.rows, tx)
	return tx
}

func (f *fakeStore) inWindow(tx core.Transaction, w core.MonthWindow) bool {
	s := tx.Date.String()
	return s >= w.First().String() && s <= w.Last().String()
}

func (f *fakeStore) ListTransactions(_ context.Context, limit, offset int) ([]core.Transaction, error) {
	if err := f.errs["list"]; err != nil {
		return nil, err
	}
	sorted := make([]core.Transaction, len(f.rows))
	copy(sorted, f.rows)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Date.String() != sorted[j].Date.String() {
			return sorted[i].Date.String() > sorted[j].Date.String()
		}
		return sorted[i].ID > sorted[j].ID
	})
	if offset >= len(sorted) {
		return nil, nil
	}
	sorted = sorted[offset:]
	if limit < len(sorted) {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

func (f *fakeStore) CountTransactions(context.Context) (int, error) {
	if err := f.errs["count"]; err != nil {
		return 0, err
	}
	return len(f.rows), nil
}

func (f *fakeStore) GetTransaction(_ context.Context, id int64) (core.Transaction, error) {
	if err := f.errs["get"]; err != nil {
		return core.Transaction{}, err
	}
	for _, tx := range f.rows {
		if tx.ID == id {
			return tx, nil
		}
	}
	return core.Transaction{}, core.ErrTransactionNotFound
}

func (f *fakeStore) InsertTransaction(_ context.Context, in core.TransactionInput) (core.Transaction, error) {
	if err := f.errs["insert"]; err != nil {
		return core.Transaction{}, err
	}
	tx := core.Transaction{
		ID:          f.nextID,
		Date:        in.Date,
		Description: in.Description,
		Category:    in.Category,
		Amount:      in.Amount,
		Status:      in.Status,
	}
	f.nextID++
	f.rows = append(f.rows, tx)
	return tx, nil
}

func (f *fakeStore) UpdateTransaction(_ context.Context, id int64, in core.TransactionInput) (core.Transaction, error) {
	if err := f.errs["update"]; err != nil {
		return core.Transaction{}, err
	}
	for i, tx := range f.rows {
		if tx.ID == id {
			updated := core.Transaction{
				ID:          id,
				Date:        in.Date,
				Description: in.Description,
				Category:    in.Category,
				Amount:      in.Amount,
				Status:      in.Status,
			}
			f.rows[i] = updated
			return updated, nil
		}
	}
	return core.Transaction{}, core.ErrTransactionNotFound
}

func (f *fakeStore) DeleteTransaction(_ context.Context, id int64) error {
	if err := f.errs["delete"]; err != nil {
		return err
	}
	for i, tx := range f.rows {
		if tx.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return core.ErrTransactionNotFound
}

func (f *fakeStore) SumIncome(_ context.Context, w core.MonthWindow) (core.Money, error) {
	if err := f.errs["sumIncome"]; err != nil {
		return core.Money{}, err
	}
	var total core.Money
	for _, tx := range f.rows {
		if tx.Amount.Cents > 0 && f.inWindow(tx, w) {
			total = total.Add(tx.Amount)
		}
	}
	return total, nil
}

func (f *fakeStore) SumExpenses(_ context.Context, w core.MonthWindow) (core.Money, error) {
	if err := f.errs["sumExpenses"]; err != nil {
		return core.Money{}, err
	}
	var total core.Money
	for _, tx := range f.rows {
		if tx.Amount.Cents < 0 && f.inWindow(tx, w) {
			total = total.Add(tx.Amount.Abs())
		}
	}
	return total, nil
}

func (f *fakeStore) SumNet(_ context.Context, w core.MonthWindow) (core.Money, error) {
	if err := f.errs["sumNet"]; err != nil {
		return core.Money{}, err
	}
	var total core.Money
	for _, tx := range f.rows {
		if f.inWindow(tx, w) {
			total = total.Add(tx.Amount)
		}
	}
	return total, nil
}

func (f *fakeStore) SumBalance(context.Context) (core.Money, error) {
	if err := f.errs["sumBalance"]; err != nil {
		return core.Money{}, err
	}
	var total core.Money
	for _, tx := range f.rows {
		total = total.Add(tx.Amount)
	}
	return total, nil
}

func (f *fakeStore) MonthlyFlows(_ context.Context, from, to core.MonthWindow) (map[string]core.MonthFlow, error) {
	if err := f.errs["monthlyFlows"]; err != nil {
		return nil, err
	}
	flows := make(map[string]core.MonthFlow)
	for _, tx := range f.rows {
		s := tx.Date.String()
		if s < from.First().String() || s > to.Last().String() {
			continue
		}
		key := tx.Date.Format("2006-01")
		flow := flows[key]
		if tx.Amount.Cents > 0 {
			flow.Revenue = flow.Revenue.Add(tx.Amount)
		} else {
			flow.Expenses = flow.Expenses.Add(tx.Amount.Abs())
		}
		flows[key] = flow
	}
	return flows, nil
}

func (f *fakeStore) ExpenseSumsByCategory(_ context.Context, w core.MonthWindow) ([]core.CategoryAmount, error) {
	if err := f.errs["expenseSums"]; err != nil {
		return nil, err
	}
	byCategory := make(map[string]core.Money)
	for _, tx := range f.rows {
		if tx.Amount.Cents < 0 && f.inWindow(tx, w) {
			byCategory[tx.Category] = byCategory[tx.Category].Add(tx.Amount.Abs())
		}
	}
	sums := make([]core.CategoryAmount, 0, len(byCategory))
	for category, amount := range byCategory {
		sums = append(sums, core.CategoryAmount{Category: category, Amount: amount})
	}
	sort.Slice(sums, func(i, j int) bool {
		if sums[i].Amount.Cents != sums[j].Amount.Cents {
			return sums[i].Amount.Cents > sums[j].Amount.Cents
		}
		return sums[i].Category < sums[j].Category
	})
	return sums, nil
}

func (f *fakeStore) Close() error { return nil }

// fakePublisher records published events and optionally fails.
type fakePublisher struct {
	events []string
	err    error
}

func (p *fakePublisher) PublishTransactionEvent(_ context.Context, action amqp.Action, id int64) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, string(action))
	return nil
}

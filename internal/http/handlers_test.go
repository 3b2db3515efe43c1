package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"finboard/internal/core"
	"finboard/internal/services"
)

type fakeTransactionAPI struct {
	listed  []core.Transaction
	count   int
	added   core.Transaction
	updated core.Transaction
	err     error

	gotLimit  int
	gotOffset int
	gotID     int64
	gotInput  core.TransactionInput
}

func (f *fakeTransactionAPI) List(_ context.Context, limit, offset int) ([]core.Transaction, error) {
	f.gotLimit, f.gotOffset = limit, offset
	if limit < 0 || offset < 0 {
		return nil, services.ErrInvalidPagination
	}
	return f.listed, f.err
}

func (f *fakeTransactionAPI) Count(context.Context) (int, error) {
	return f.count, f.err
}

func (f *fakeTransactionAPI) Add(_ context.Context, in core.TransactionInput) (core.Transaction, error) {
	if err := in.Validate(); err != nil {
		return core.Transaction{}, err
	}
	f.gotInput = in
	return f.added, f.err
}

func (f *fakeTransactionAPI) Update(_ context.Context, id int64, in core.TransactionInput) (core.Transaction, error) {
	if err := in.Validate(); err != nil {
		return core.Transaction{}, err
	}
	f.gotID, f.gotInput = id, in
	return f.updated, f.err
}

func (f *fakeTransactionAPI) Delete(_ context.Context, id int64) error {
	f.gotID = id
	return f.err
}

type fakeReportAPI struct {
	summary   core.SummaryData
	revenue   []core.RevenuePoint
	breakdown []core.CategoryAmount
	err       error
}

func (f *fakeReportAPI) Summary(context.Context) (core.SummaryData, error) {
	return f.summary, f.err
}

func (f *fakeReportAPI) Revenue(context.Context) ([]core.RevenuePoint, error) {
	return f.revenue, f.err
}

func (f *fakeReportAPI) ExpenseBreakdown(context.Context) ([]core.CategoryAmount, error) {
	return f.breakdown, f.err
}

func newTestServer(tx *fakeTransactionAPI, rp *fakeReportAPI) *Server {
	if tx == nil {
		tx = &fakeTransactionAPI{}
	}
	if rp == nil {
		rp = &fakeReportAPI{}
	}
	return NewServer(":0", tx, rp)
}

func doRequest(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func sampleTransaction() core.Transaction {
	return core.Transaction{
		ID:          42,
		Date:        core.NewDate(2024, 11, 17),
		Description: "Salary",
		Category:    "Income",
		Amount:      core.Money{Cents: 500000},
		Status:      core.StatusCompleted,
	}
}

const validBody = `{"date":"2024-11-17","description":"Salary","category":"Income","amount":5000,"status":"Completed"}`

func TestListTransactionsDefaultsAndWireShape(t *testing.T) {
	tx := &fakeTransactionAPI{listed: []core.Transaction{sampleTransaction()}}
	s := newTestServer(tx, nil)

	rec := doRequest(t, s, http.MethodGet, "/api/transactions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if tx.gotLimit != services.DefaultListLimit || tx.gotOffset != services.DefaultListOffset {
		t.Fatalf("defaults not applied: limit=%d offset=%d", tx.gotLimit, tx.gotOffset)
	}

	var out []transactionJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d rows, want 1", len(out))
	}
	got := out[0]
	if got.ID != "42" {
		t.Fatalf("id on the wire must be a string, got %q", got.ID)
	}
	if got.Date != "2024-11-17" || got.Amount != 5000 || got.Status != "Completed" {
		t.Fatalf("wire row = %+v", got)
	}
}

func TestListTransactionsPagination(t *testing.T) {
	tx := &fakeTransactionAPI{}
	s := newTestServer(tx, nil)

	rec := doRequest(t, s, http.MethodGet, "/api/transactions?limit=25&offset=50", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if tx.gotLimit != 25 || tx.gotOffset != 50 {
		t.Fatalf("limit=%d offset=%d, want 25/50", tx.gotLimit, tx.gotOffset)
	}

	if rec := doRequest(t, s, http.MethodGet, "/api/transactions?limit=abc", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("non-integer limit: status = %d, want 400", rec.Code)
	}
	if rec := doRequest(t, s, http.MethodGet, "/api/transactions?limit=-1", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("negative limit: status = %d, want 400", rec.Code)
	}
}

func TestCountTransactions(t *testing.T) {
	s := newTestServer(&fakeTransactionAPI{count: 17}, nil)

	rec := doRequest(t, s, http.MethodGet, "/api/transactions/count", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var out map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["count"] != 17 {
		t.Fatalf("count = %d, want 17", out["count"])
	}
}

func TestAddTransaction(t *testing.T) {
	tx := &fakeTransactionAPI{added: sampleTransaction()}
	s := newTestServer(tx, nil)

	rec := doRequest(t, s, http.MethodPost, "/api/transactions", validBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if tx.gotInput.Amount.Cents != 500000 {
		t.Fatalf("amount converted to %d cents, want 500000", tx.gotInput.Amount.Cents)
	}

	if rec := doRequest(t, s, http.MethodPost, "/api/transactions", "{not json"); rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body: status = %d, want 400", rec.Code)
	}

	bad := strings.Replace(validBody, "Completed", "Unknown", 1)
	if rec := doRequest(t, s, http.MethodPost, "/api/transactions", bad); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid status: status = %d, want 422", rec.Code)
	}

	noDate := strings.Replace(validBody, "2024-11-17", "17/11/2024", 1)
	if rec := doRequest(t, s, http.MethodPost, "/api/transactions", noDate); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad date: status = %d, want 422", rec.Code)
	}
}

func TestUpdateTransaction(t *testing.T) {
	tx := &fakeTransactionAPI{updated: sampleTransaction()}
	s := newTestServer(tx, nil)

	rec := doRequest(t, s, http.MethodPut, "/api/transactions/42", validBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if tx.gotID != 42 {
		t.Fatalf("id = %d, want 42", tx.gotID)
	}

	if rec := doRequest(t, s, http.MethodPut, "/api/transactions/abc", validBody); rec.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric id: status = %d, want 400", rec.Code)
	}

	tx.err = core.ErrTransactionNotFound
	if rec := doRequest(t, s, http.MethodPut, "/api/transactions/404", validBody); rec.Code != http.StatusNotFound {
		t.Fatalf("missing row: status = %d, want 404", rec.Code)
	}

	tx.err = errors.New("storage unavailable")
	if rec := doRequest(t, s, http.MethodPut, "/api/transactions/42", validBody); rec.Code != http.StatusInternalServerError {
		t.Fatalf("storage failure: status = %d, want 500", rec.Code)
	}
}

func TestDeleteTransaction(t *testing.T) {
	tx := &fakeTransactionAPI{}
	s := newTestServer(tx, nil)

	rec := doRequest(t, s, http.MethodDelete, "/api/transactions/42", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if tx.gotID != 42 {
		t.Fatalf("id = %d, want 42", tx.gotID)
	}

	tx.err = core.ErrTransactionNotFound
	if rec := doRequest(t, s, http.MethodDelete, "/api/transactions/42", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("missing row: status = %d, want 404", rec.Code)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	rp := &fakeReportAPI{summary: core.SummaryData{
		TotalBalance:    core.Money{Cents: 1097924},
		MonthlyIncome:   core.Money{Cents: 500000},
		MonthlyExpenses: core.Money{Cents: 4063},
		PercentChange:   433.7,
	}}
	s := newTestServer(nil, rp)

	rec := doRequest(t, s, http.MethodGet, "/api/summary", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var out summaryJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.TotalBalance != 10979.24 || out.MonthlyIncome != 5000 ||
		out.MonthlyExpenses != 40.63 || out.PercentChange != 433.7 {
		t.Fatalf("summary = %+v", out)
	}
}

func TestRevenueEndpoint(t *testing.T) {
	rp := &fakeReportAPI{revenue: []core.RevenuePoint{
		{Month: "Oct 2024", Revenue: core.Money{Cents: 116338}, Expenses: core.Money{Cents: 23414}},
		{Month: "Nov 2024", Revenue: core.Money{Cents: 500000}, Expenses: core.Money{Cents: 4063}},
	}}
	s := newTestServer(nil, rp)

	rec := doRequest(t, s, http.MethodGet, "/api/revenue", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var out []revenuePointJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 || out[0].Month != "Oct 2024" || out[1].Revenue != 5000 {
		t.Fatalf("revenue = %+v", out)
	}
}

func TestExpenseBreakdownEndpoint(t *testing.T) {
	rp := &fakeReportAPI{breakdown: []core.CategoryAmount{
		{Category: "Healthcare", Amount: core.Money{Cents: 17000}},
		{Category: "Utilities", Amount: core.Money{Cents: 6000}},
	}}
	s := newTestServer(nil, rp)

	rec := doRequest(t, s, http.MethodGet, "/api/expense-breakdown", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var out []categoryAmountJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 || out[0].Category != "Healthcare" || out[0].Amount != 170 {
		t.Fatalf("breakdown = %+v", out)
	}
}

func TestReportFailuresReturn500(t *testing.T) {
	rp := &fakeReportAPI{err: errors.New("storage unavailable")}
	s := newTestServer(nil, rp)

	for _, target := range []string{"/api/summary", "/api/revenue", "/api/expense-breakdown"} {
		if rec := doRequest(t, s, http.MethodGet, target, ""); rec.Code != http.StatusInternalServerError {
			t.Fatalf("%s: status = %d, want 500", target, rec.Code)
		}
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(nil, nil)
	rec := doRequest(t, s, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestBearerTokenExtraction(t *testing.T) {
	var seen RequestContext
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	})
	h := withRequestContext(inner)

	req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen.AuthToken != "s3cret" {
		t.Fatalf("token = %q, want s3cret", seen.AuthToken)
	}

	seen = RequestContext{AuthToken: "stale"}
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/summary", nil))
	if seen.AuthToken != "" {
		t.Fatalf("missing header must yield empty token, got %q", seen.AuthToken)
	}
}

// Package http exposes the dashboard operations as a JSON API.
package http

import (
	"context"
	"net/http"

	"finboard/internal/core"
	"finboard/internal/middleware/trace"
)

// TransactionAPI is the ledger surface the handlers consume.
type TransactionAPI interface {
	List(ctx context.Context, limit, offset int) ([]core.Transaction, error)
	Count(ctx context.Context) (int, error)
	Add(ctx context.Context, in core.TransactionInput) (core.Transaction, error)
	Update(ctx context.Context, id int64, in core.TransactionInput) (core.Transaction, error)
	Delete(ctx context.Context, id int64) error
}

// ReportAPI is the aggregation surface the handlers consume.
type ReportAPI interface {
	Summary(ctx context.Context) (core.SummaryData, error)
	Revenue(ctx context.Context) ([]core.RevenuePoint, error)
	ExpenseBreakdown(ctx context.Context) ([]core.CategoryAmount, error)
}

type Server struct {
	http.Server
	transactions TransactionAPI
	reports      ReportAPI
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, transactions TransactionAPI, reports ReportAPI) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr: addr,
		},
		transactions: transactions,
		reports:      reports,
	}

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleAddTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)
	mux.HandleFunc("GET /api/transactions/count", s.handleCountTransactions)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/revenue", s.handleRevenue)
	mux.HandleFunc("GET /api/expense-breakdown", s.handleExpenseBreakdown)
	mux.HandleFunc("GET /healthz", handleHealth)

	traced := trace.NewMiddleware(clientIP)
	s.Handler = traced.Middleware(withRequestContext(mux))

	return s
}

// clientIP resolves the caller address, preferring proxy headers.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

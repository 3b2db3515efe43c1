package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"finboard/internal/core"
	"finboard/internal/services"
)

// transactionJSON is the wire shape of a ledger row. The id travels as a
// string and the amount as a decimal number of currency units.
type transactionJSON struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Status      string  `json:"status"`
}

type transactionInputJSON struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Status      string  `json:"status"`
}

func toTransactionJSON(tx core.Transaction) transactionJSON {
	return transactionJSON{
		ID:          strconv.FormatInt(tx.ID, 10),
		Date:        tx.Date.String(),
		Description: tx.Description,
		Category:    tx.Category,
		Amount:      tx.Amount.Float64(),
		Status:      string(tx.Status),
	}
}

// toInput maps the wire shape onto a core input. An unparseable date flows
// through as the zero Date so validation reports it alongside other fields.
func (in transactionInputJSON) toInput() core.TransactionInput {
	date, err := core.ParseDate(in.Date)
	if err != nil {
		date = core.Date{}
	}
	return core.TransactionInput{
		Date:        date,
		Description: in.Description,
		Category:    in.Category,
		Amount:      core.MoneyFromFloat(in.Amount),
		Status:      core.Status(in.Status),
	}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(r, "limit", services.DefaultListLimit)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "limit must be an integer")
		return
	}
	offset, ok := queryInt(r, "offset", services.DefaultListOffset)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "offset must be an integer")
		return
	}

	txs, err := s.transactions.List(r.Context(), limit, offset)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPagination) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "List transactions failed",
			"error", err,
			"limit", limit,
			"offset", offset)
		writeError(w, r, http.StatusInternalServerError, "failed to fetch transactions")
		return
	}

	out := make([]transactionJSON, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionJSON(tx))
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleCountTransactions(w http.ResponseWriter, r *http.Request) {
	count, err := s.transactions.Count(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Count transactions failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to count transactions")
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]int{"count": count})
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var in transactionInputJSON
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	tx, err := s.transactions.Add(r.Context(), in.toInput())
	if err != nil {
		if core.IsValidationError(err) {
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Add transaction failed",
			"error", err,
			"description", in.Description)
		writeError(w, r, http.StatusInternalServerError, "failed to add transaction")
		return
	}

	slog.InfoContext(r.Context(), "Transaction added",
		"id", tx.ID,
		"amount_cents", tx.Amount.Cents,
		"category", tx.Category)
	writeJSON(w, r, http.StatusCreated, toTransactionJSON(tx))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid transaction id")
		return
	}

	var in transactionInputJSON
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	tx, err := s.transactions.Update(r.Context(), id, in.toInput())
	if err != nil {
		switch {
		case errors.Is(err, core.ErrTransactionNotFound):
			writeError(w, r, http.StatusNotFound, "transaction not found")
		case core.IsValidationError(err):
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		default:
			slog.ErrorContext(r.Context(), "Update transaction failed",
				"error", err,
				"id", id)
			writeError(w, r, http.StatusInternalServerError, "failed to update transaction")
		}
		return
	}

	slog.InfoContext(r.Context(), "Transaction updated",
		"id", tx.ID,
		"amount_cents", tx.Amount.Cents)
	writeJSON(w, r, http.StatusOK, toTransactionJSON(tx))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid transaction id")
		return
	}

	if err := s.transactions.Delete(r.Context(), id); err != nil {
		if errors.Is(err, core.ErrTransactionNotFound) {
			writeError(w, r, http.StatusNotFound, "transaction not found")
			return
		}
		slog.ErrorContext(r.Context(), "Delete transaction failed",
			"error", err,
			"id", id)
		writeError(w, r, http.StatusInternalServerError, "failed to delete transaction")
		return
	}

	slog.InfoContext(r.Context(), "Transaction deleted", "id", id)
	writeJSON(w, r, http.StatusOK, map[string]bool{"deleted": true})
}

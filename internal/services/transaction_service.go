// Package services holds the application core: transaction CRUD over the
// ledger store and the report computations the dashboard reads.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"finboard/internal/amqp"
	"finboard/internal/core"
	"finboard/internal/storage"
)

// Pagination defaults applied by the API facade when the client omits the
// parameters. No upper bound is imposed on limit: a full-table listing
// (limit = row count) is a legal request.
const (
	DefaultListLimit  = 10
	DefaultListOffset = 0
)

var ErrInvalidPagination = errors.New("limit and offset must not be negative")

// EventPublisher emits ledger change notifications. Publishing is
// best-effort: a failure is logged and never fails the mutation.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, action amqp.Action, id int64) error
}

// TransactionService implements the ledger CRUD contract on top of a Store,
// publishing a change event after each successful mutation.
type TransactionService struct {
	store  storage.Store
	events EventPublisher
}

func NewTransactionService(store storage.Store, events EventPublisher) *TransactionService {
	return &TransactionService{
		store:  store,
		events: events,
	}
}

// List returns up to limit rows ordered by date descending, skipping offset.
func (s *TransactionService) List(ctx context.Context, limit, offset int) ([]core.Transaction, error) {
	if limit < 0 || offset < 0 {
		return nil, ErrInvalidPagination
	}
	transactions, err := s.store.ListTransactions(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}
	return transactions, nil
}

// Count returns the unfiltered number of ledger rows.
func (s *TransactionService) Count(ctx context.Context) (int, error) {
	count, err := s.store.CountTransactions(ctx)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return count, nil
}

// Add validates and inserts a new transaction, returning it as persisted.
func (s *TransactionService) Add(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	if err := in.Validate(); err != nil {
		return core.Transaction{}, err
	}

	tx, err := s.store.InsertTransaction(ctx, in)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}

	s.publishEvent(ctx, amqp.ActionCreated, tx.ID)
	return tx, nil
}

// Update replaces every field of the transaction matching id.
// core.ErrTransactionNotFound passes through unwrapped so the facade can
// distinguish a missing row from a storage failure.
func (s *TransactionService) Update(ctx context.Context, id int64, in core.TransactionInput) (core.Transaction, error) {
	if err := in.Validate(); err != nil {
		return core.Transaction{}, err
	}

	tx, err := s.store.UpdateTransaction(ctx, id, in)
	if errors.Is(err, core.ErrTransactionNotFound) {
		return core.Transaction{}, core.ErrTransactionNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}

	s.publishEvent(ctx, amqp.ActionUpdated, tx.ID)
	return tx, nil
}

// Delete removes the transaction matching id.
func (s *TransactionService) Delete(ctx context.Context, id int64) error {
	err := s.store.DeleteTransaction(ctx, id)
	if errors.Is(err, core.ErrTransactionNotFound) {
		return core.ErrTransactionNotFound
	}
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.publishEvent(ctx, amqp.ActionDeleted, id)
	return nil
}

func (s *TransactionService) publishEvent(ctx context.Context, action amqp.Action, id int64) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishTransactionEvent(ctx, action, id); err != nil {
		// The mutation already succeeded; a lost event only delays the mirror.
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"id", id,
			"action", action,
			"error", err)
	}
}

// Package worker applies transaction change events to the spreadsheet mirror.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"finboard/internal/amqp"
	"finboard/internal/core"
	"finboard/internal/sheets"
	"finboard/internal/storage"
)

// MirrorWorker consumes transaction events and replays each change against
// the spreadsheet mirror. The ledger stays the source of truth: created and
// updated events re-read the row before mirroring it.
type MirrorWorker struct {
	store  storage.Store
	mirror sheets.TransactionMirror
}

func NewMirrorWorker(store storage.Store, mirror sheets.TransactionMirror) *MirrorWorker {
	return &MirrorWorker{
		store:  store,
		mirror: mirror,
	}
}

// HandleEvent processes a single transaction event.
func (w *MirrorWorker) HandleEvent(ctx context.Context, msg *amqp.TransactionEventMessage) error {
	slog.InfoContext(ctx, "Processing transaction event",
		"id", msg.ID,
		"action", msg.Action)

	switch msg.Action {
	case amqp.ActionCreated:
		return w.mirrorCurrentRow(ctx, msg.ID, w.mirror.AppendTransaction)
	case amqp.ActionUpdated:
		return w.mirrorCurrentRow(ctx, msg.ID, w.mirror.UpdateTransaction)
	case amqp.ActionDeleted:
		if err := w.mirror.DeleteTransaction(ctx, msg.ID); err != nil {
			return fmt.Errorf("delete mirrored transaction: %w", err)
		}
		return nil
	default:
		// Unknown actions are dropped, requeueing cannot fix them.
		slog.WarnContext(ctx, "Dropping event with unknown action",
			"id", msg.ID,
			"action", msg.Action)
		return nil
	}
}

func (w *MirrorWorker) mirrorCurrentRow(ctx context.Context, id int64, apply func(context.Context, core.Transaction) error) error {
	tx, err := w.store.GetTransaction(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrTransactionNotFound) {
			// Row was deleted between the event and now; the coming
			// deleted event will clear the mirror.
			slog.WarnContext(ctx, "Transaction gone before mirroring, skipping", "id", id)
			return nil
		}
		return fmt.Errorf("get transaction for mirroring: %w", err)
	}

	if err := apply(ctx, tx); err != nil {
		return fmt.Errorf("mirror transaction: %w", err)
	}
	return nil
}

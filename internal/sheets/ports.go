// Package sheets defines the spreadsheet-mirror port the worker drives.
package sheets

import (
	"context"

	"finboard/internal/core"
)

// TransactionMirror keeps an external spreadsheet in step with the ledger.
// The mirror reflects current rows only; it is an export, not a journal.
type TransactionMirror interface {
	// AppendTransaction adds a row for a newly created transaction.
	AppendTransaction(ctx context.Context, tx core.Transaction) error

	// UpdateTransaction rewrites the row whose id column matches tx.ID.
	// Missing rows are appended instead, so the mirror self-heals.
	UpdateTransaction(ctx context.Context, tx core.Transaction) error

	// DeleteTransaction clears the row whose id column matches id.
	DeleteTransaction(ctx context.Context, id int64) error
}

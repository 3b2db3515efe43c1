// Package google implements the spreadsheet mirror on the Google Sheets API.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"finboard/internal/core"
	ports "finboard/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Client mirrors ledger rows into one sheet of a spreadsheet. Column A holds
// the transaction id, which is how update and delete locate their row.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ ports.TransactionMirror = (*Client)(nil)

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Optional: GOOGLE_SHEET_NAME (default "Ledger"), GOOGLE_CREDENTIALS_JSON
// for explicit service-account credentials; otherwise application default
// credentials apply.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Ledger"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	opts := []goption.ClientOption{goption.WithScopes(gsheet.SpreadsheetsScope)}
	if credentialsJSON := os.Getenv("GOOGLE_CREDENTIALS_JSON"); credentialsJSON != "" {
		opts = append(opts, goption.WithCredentialsJSON([]byte(credentialsJSON)))
	}
	return gsheet.NewService(ctx, opts...)
}

func rowValues(tx core.Transaction) []interface{} {
	return []interface{}{
		strconv.FormatInt(tx.ID, 10),
		tx.Date.String(),
		tx.Description,
		tx.Category,
		tx.Amount.Float64(),
		string(tx.Status),
	}
}

// AppendTransaction implements sheets.TransactionMirror.
func (c *Client) AppendTransaction(ctx context.Context, tx core.Transaction) error {
	vr := &gsheet.ValueRange{Values: [][]interface{}{rowValues(tx)}}
	_, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, c.sheetName+"!A:F", vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append transaction row: %w", err)
	}

	slog.InfoContext(ctx, "Mirrored transaction to sheet",
		"id", tx.ID,
		"sheet", c.sheetName)
	return nil
}

// UpdateTransaction implements sheets.TransactionMirror.
func (c *Client) UpdateTransaction(ctx context.Context, tx core.Transaction) error {
	rowIndex, err := c.findRow(ctx, tx.ID)
	if err != nil {
		return err
	}
	if rowIndex == 0 {
		// Row never made it to the sheet, e.g. a lost created event.
		slog.WarnContext(ctx, "Mirror row missing on update, appending instead", "id", tx.ID)
		return c.AppendTransaction(ctx, tx)
	}

	rng := fmt.Sprintf("%s!A%d:F%d", c.sheetName, rowIndex, rowIndex)
	vr := &gsheet.ValueRange{Values: [][]interface{}{rowValues(tx)}}
	_, err = c.svc.Spreadsheets.Values.
		Update(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update transaction row: %w", err)
	}

	slog.InfoContext(ctx, "Updated mirrored transaction",
		"id", tx.ID,
		"row", rowIndex)
	return nil
}

// DeleteTransaction implements sheets.TransactionMirror.
func (c *Client) DeleteTransaction(ctx context.Context, id int64) error {
	rowIndex, err := c.findRow(ctx, id)
	if err != nil {
		return err
	}
	if rowIndex == 0 {
		slog.WarnContext(ctx, "Mirror row missing on delete, nothing to clear", "id", id)
		return nil
	}

	rng := fmt.Sprintf("%s!A%d:F%d", c.sheetName, rowIndex, rowIndex)
	_, err = c.svc.Spreadsheets.Values.
		Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear transaction row: %w", err)
	}

	slog.InfoContext(ctx, "Cleared mirrored transaction",
		"id", id,
		"row", rowIndex)
	return nil
}

// findRow returns the 1-based sheet row whose id column matches id, or 0
// when no row matches.
func (c *Client) findRow(ctx context.Context, id int64) (int, error) {
	resp, err := c.svc.Spreadsheets.Values.
		Get(c.spreadsheetID, c.sheetName+"!A:A").
		Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read id column: %w", err)
	}

	want := strconv.FormatInt(id, 10)
	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if cell, ok := row[0].(string); ok && cell == want {
			return i + 1, nil
		}
	}
	return 0, nil
}

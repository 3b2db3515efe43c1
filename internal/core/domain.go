package core

import (
	"errors"
	"strings"
	"time"
)

const (
	StatusCompleted Status = "Completed"
	StatusPending   Status = "Pending"
	StatusFailed    Status = "Failed"
)

type (
	// Status describes the settlement state of a transaction. It is purely
	// descriptive: aggregation never filters on it.
	Status string

	// Date is a calendar date with no time component, normalized to UTC
	// midnight. Its wire form is always YYYY-MM-DD.
	Date struct {
		time.Time
	}

	// Transaction is the single persisted entity: one row of the ledger.
	// The sign of Amount encodes direction, positive is income and negative
	// is expense. All amounts share one implied currency.
	Transaction struct {
		ID          int64
		Date        Date
		Description string
		Category    string
		Amount      Money
		Status      Status
	}

	// TransactionInput carries the client-supplied fields for create and
	// update. Update is a full replace of every field, never a patch.
	TransactionInput struct {
		Date        Date
		Description string
		Category    string
		Amount      Money
		Status      Status
	}
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")

	ErrInvalidDate        = errors.New("invalid date")
	ErrEmptyDescription   = errors.New("empty description")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
	ErrEmptyCategory      = errors.New("empty category")
	ErrInvalidStatus      = errors.New("invalid status")
)

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String returns the date in YYYY-MM-DD form.
func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (s Status) IsValid() bool {
	switch s {
	case StatusCompleted, StatusPending, StatusFailed:
		return true
	default:
		return false
	}
}

func (in TransactionInput) Validate() error {
	if err := in.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(in.Description) == "" {
		return ErrEmptyDescription
	}
	if len(in.Description) > 200 {
		return ErrDescriptionTooLong
	}
	if strings.TrimSpace(in.Category) == "" {
		return ErrEmptyCategory
	}
	if !in.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

// IsValidationError reports whether err came from TransactionInput
// validation, so the API facade can map it separately from storage failures.
func IsValidationError(err error) bool {
	for _, sentinel := range []error{ErrInvalidDate, ErrEmptyDescription, ErrDescriptionTooLong, ErrEmptyCategory, ErrInvalidStatus} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

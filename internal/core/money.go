// Package core holds the ledger domain: transactions, money, calendar
// windows and the derived dashboard records.
package core

import "github.com/shopspring/decimal"

// Money is a signed amount in integer cents of the single implied currency.
// Cents keep SQL sums exact; conversion to and from the float form clients
// see goes through decimal arithmetic, never raw float math.
type Money struct {
	Cents int64
}

// MoneyFromFloat converts a client-supplied decimal amount (e.g. -40.63)
// to cents, rounding half-up on the third decimal place.
func MoneyFromFloat(f float64) Money {
	cents := decimal.NewFromFloat(f).Mul(decimal.NewFromInt(100)).Round(0)
	return Money{Cents: cents.IntPart()}
}

// Float64 returns the two-decimal float form used on the wire.
func (m Money) Float64() float64 {
	return decimal.New(m.Cents, -2).InexactFloat64()
}

func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents}
}

func (m Money) Abs() Money {
	if m.Cents < 0 {
		return Money{Cents: -m.Cents}
	}
	return m
}

func (m Money) IsZero() bool {
	return m.Cents == 0
}

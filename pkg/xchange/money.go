// Package xchange holds the immutable value objects the search engine and
// execution-plan engine operate on: currency-aware money, asset pairs,
// exchange rates, order bounds, fee breakdowns and orders.
//
// Every constructor validates its invariants eagerly and fails with
// errs.ErrInvalidInput — construction never produces a half-valid value.
package xchange

import (
	"fmt"
	"strings"

	"github.com/mExOms/pathfinder/internal/decimal"
	"github.com/mExOms/pathfinder/internal/errs"
)

// Money is a non-negative decimal amount of a specific currency at an
// explicit scale.
type Money struct {
	Currency string
	Amount   decimal.Decimal
	Scale    int32
}

// NewMoney validates and constructs Money. currency must be 3-12 uppercase
// letters/digits; amount must be >= 0.
func NewMoney(currency string, amount decimal.Decimal, scale int32) (Money, error) {
	if err := validateCurrency(currency); err != nil {
		return Money{}, err
	}
	if scale < 0 {
		return Money{}, fmt.Errorf("%w: negative scale %d", errs.ErrInvalidInput, scale)
	}
	if amount.IsNegative() {
		return Money{}, fmt.Errorf("%w: negative money amount %s %s", errs.ErrInvalidInput, amount.String(), currency)
	}
	return Money{Currency: currency, Amount: decimal.Normalize(amount, scale), Scale: scale}, nil
}

func validateCurrency(currency string) error {
	if len(currency) < 3 || len(currency) > 12 {
		return fmt.Errorf("%w: currency must be 3-12 characters, got %q", errs.ErrInvalidInput, currency)
	}
	if strings.ToUpper(currency) != currency {
		return fmt.Errorf("%w: currency must be uppercase, got %q", errs.ErrInvalidInput, currency)
	}
	for _, r := range currency {
		if !((r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return fmt.Errorf("%w: currency contains invalid character %q in %q", errs.ErrInvalidInput, string(r), currency)
		}
	}
	return nil
}

// Add returns a+b. Currencies must match; the result scale is
// max(a.Scale, b.Scale).
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: currency mismatch %s vs %s", errs.ErrInvalidInput, m.Currency, other.Currency)
	}
	scale := maxScale(m.Scale, other.Scale)
	return NewMoney(m.Currency, m.Amount.Add(other.Amount), scale)
}

// Sub returns a-b. Subtracting a greater amount is forbidden.
func (m Money) Sub(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: currency mismatch %s vs %s", errs.ErrInvalidInput, m.Currency, other.Currency)
	}
	if decimal.Compare(other.Amount, m.Amount) > 0 {
		return Money{}, fmt.Errorf("%w: cannot subtract %s from %s %s", errs.ErrInvalidInput, other.Amount.String(), m.Amount.String(), m.Currency)
	}
	scale := maxScale(m.Scale, other.Scale)
	return NewMoney(m.Currency, m.Amount.Sub(other.Amount), scale)
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m.Amount.IsZero() }

// String renders money as "<amount> <currency>" at its declared scale.
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.RenderAtScale(m.Scale), m.Currency)
}

func maxScale(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

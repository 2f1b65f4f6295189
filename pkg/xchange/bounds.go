package xchange

import (
	"fmt"

	"github.com/mExOms/pathfinder/internal/decimal"
	"github.com/mExOms/pathfinder/internal/errs"
)

// OrderBounds is the inclusive [Min, Max] range of base-currency amounts an
// order will accept.
type OrderBounds struct {
	Min Money
	Max Money
}

// NewOrderBounds validates and constructs OrderBounds. Min and Max must
// share a currency and Min must not exceed Max; both are normalized to
// max(min.Scale, max.Scale) before comparison so Contains/Clamp never
// compare amounts recorded at differing scales (§3: OrderBounds is
// "normalized to shared scale").
func NewOrderBounds(min, max Money) (OrderBounds, error) {
	if min.Currency != max.Currency {
		return OrderBounds{}, fmt.Errorf("%w: bounds currency mismatch %s vs %s", errs.ErrInvalidInput, min.Currency, max.Currency)
	}
	scale := maxScale(min.Scale, max.Scale)
	min, err := NewMoney(min.Currency, min.Amount, scale)
	if err != nil {
		return OrderBounds{}, err
	}
	max, err = NewMoney(max.Currency, max.Amount, scale)
	if err != nil {
		return OrderBounds{}, err
	}
	if decimal.Compare(min.Amount, max.Amount) > 0 {
		return OrderBounds{}, fmt.Errorf("%w: min %s exceeds max %s", errs.ErrInvalidInput, min.Amount.String(), max.Amount.String())
	}
	return OrderBounds{Min: min, Max: max}, nil
}

// Contains reports whether amount falls within [Min, Max], inclusive.
func (b OrderBounds) Contains(amount Money) bool {
	if amount.Currency != b.Min.Currency {
		return false
	}
	return decimal.Compare(amount.Amount, b.Min.Amount) >= 0 && decimal.Compare(amount.Amount, b.Max.Amount) <= 0
}

// Clamp restricts amount to [Min, Max].
func (b OrderBounds) Clamp(amount Money) Money {
	if decimal.Compare(amount.Amount, b.Min.Amount) < 0 {
		return b.Min
	}
	if decimal.Compare(amount.Amount, b.Max.Amount) > 0 {
		return b.Max
	}
	return amount
}

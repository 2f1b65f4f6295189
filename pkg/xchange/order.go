package xchange

import (
	"fmt"

	"github.com/mExOms/pathfinder/internal/decimal"
	"github.com/mExOms/pathfinder/internal/errs"
)

// Side is the direction of an order relative to its AssetPair.
type Side string

const (
	// Buy acquires Pair.Base by spending Pair.Quote.
	Buy Side = "BUY"
	// Sell disposes of Pair.Base to acquire Pair.Quote.
	Sell Side = "SELL"
)

func (s Side) valid() bool { return s == Buy || s == Sell }

// FeePolicy computes the fee a fill at a given base amount incurs. Policies
// are pure functions of (side, baseFill, quoteAmount) so that two orders
// sharing a policy, pair and rate coalesce into one graph edge.
type FeePolicy interface {
	Compute(side Side, baseFill, quoteAmount Money) (FeeBreakdown, error)
	// Fingerprint is a stable string identifying the policy's behavior,
	// used as part of the edge-coalescing key.
	Fingerprint() string
}

// NoFeePolicy charges nothing.
type NoFeePolicy struct{}

// Compute implements FeePolicy.
func (NoFeePolicy) Compute(Side, Money, Money) (FeeBreakdown, error) { return FeeBreakdown{}, nil }

// Fingerprint implements FeePolicy.
func (NoFeePolicy) Fingerprint() string { return "none" }

// PercentageFeePolicy charges a fixed basis-point cut of the base and/or
// quote leg of a fill.
type PercentageFeePolicy struct {
	BaseBps  int64
	QuoteBps int64
}

// Compute implements FeePolicy.
func (p PercentageFeePolicy) Compute(_ Side, baseFill, quoteAmount Money) (FeeBreakdown, error) {
	var out FeeBreakdown
	if p.BaseBps != 0 {
		fee, err := bpsOf(baseFill, p.BaseBps)
		if err != nil {
			return FeeBreakdown{}, err
		}
		out.BaseFee = &fee
	}
	if p.QuoteBps != 0 {
		fee, err := bpsOf(quoteAmount, p.QuoteBps)
		if err != nil {
			return FeeBreakdown{}, err
		}
		out.QuoteFee = &fee
	}
	return out, nil
}

// Fingerprint implements FeePolicy.
func (p PercentageFeePolicy) Fingerprint() string {
	return fmt.Sprintf("pct:%d:%d", p.BaseBps, p.QuoteBps)
}

func bpsOf(amount Money, bps int64) (Money, error) {
	numerator := amount.Amount.Mul(decimal.FromInt(bps))
	divided, err := decimal.Div(numerator, decimal.FromInt(10000), amount.Scale+decimal.RatioExtraScale)
	if err != nil {
		return Money{}, err
	}
	return NewMoney(amount.Currency, divided, amount.Scale)
}

// Order is a standing offer to convert Pair.Base into Pair.Quote (or vice
// versa, per Side) at Rate within Bounds, net of FeePolicy.
type Order struct {
	Side      Side
	Pair      AssetPair
	Bounds    OrderBounds
	Rate      ExchangeRate
	FeePolicy FeePolicy
}

// NewOrder validates and constructs an Order. FeePolicy defaults to
// NoFeePolicy when nil.
func NewOrder(side Side, pair AssetPair, bounds OrderBounds, rate ExchangeRate, feePolicy FeePolicy) (Order, error) {
	if !side.valid() {
		return Order{}, fmt.Errorf("%w: unknown order side %q", errs.ErrInvalidInput, side)
	}
	if rate.Pair != pair {
		return Order{}, fmt.Errorf("%w: rate pair %s does not match order pair %s", errs.ErrInvalidInput, rate.Pair, pair)
	}
	if bounds.Min.Currency != pair.Base {
		return Order{}, fmt.Errorf("%w: bounds currency %s does not match order base %s", errs.ErrInvalidInput, bounds.Min.Currency, pair.Base)
	}
	if feePolicy == nil {
		feePolicy = NoFeePolicy{}
	}
	return Order{Side: side, Pair: pair, Bounds: bounds, Rate: rate, FeePolicy: feePolicy}, nil
}

// Fees computes the fee breakdown a fill of baseFill units of Pair.Base
// would incur.
func (o Order) Fees(baseFill Money) (FeeBreakdown, error) {
	quoteAmount, err := o.Rate.Convert(baseFill)
	if err != nil {
		return FeeBreakdown{}, err
	}
	return o.FeePolicy.Compute(o.Side, baseFill, quoteAmount)
}

// EffectiveQuoteAmount returns the quote-currency amount received for
// baseFill units of Pair.Base, net of any quote-currency fee. baseFill must
// fall within Bounds.
func (o Order) EffectiveQuoteAmount(baseFill Money) (Money, error) {
	if !o.Bounds.Contains(baseFill) {
		return Money{}, fmt.Errorf("%w: fill %s outside order bounds [%s, %s]", errs.ErrInvalidInput, baseFill, o.Bounds.Min, o.Bounds.Max)
	}
	quoteAmount, err := o.Rate.Convert(baseFill)
	if err != nil {
		return Money{}, err
	}
	fees, err := o.FeePolicy.Compute(o.Side, baseFill, quoteAmount)
	if err != nil {
		return Money{}, err
	}
	if fees.HasQuoteFee() {
		return quoteAmount.Sub(*fees.QuoteFee)
	}
	return quoteAmount, nil
}

// GrossBaseAmount returns the base-currency amount the order consumes for a
// fill of baseFill units, including any base-currency fee charged on top.
func (o Order) GrossBaseAmount(baseFill Money) (Money, error) {
	if !o.Bounds.Contains(baseFill) {
		return Money{}, fmt.Errorf("%w: fill %s outside order bounds [%s, %s]", errs.ErrInvalidInput, baseFill, o.Bounds.Min, o.Bounds.Max)
	}
	fees, err := o.Fees(baseFill)
	if err != nil {
		return Money{}, err
	}
	if fees.HasBaseFee() {
		return baseFill.Add(*fees.BaseFee)
	}
	return baseFill, nil
}

// Convert applies the order to a spend of either leg of Pair, returning the
// money received net of fees plus the fee breakdown charged. It dispatches
// on spend.Currency so route-replay code (graph.ReplayRoute, the execution
// plan engine) does not need to know which side of the order it is
// crossing: spending Pair.Base behaves like EffectiveQuoteAmount/Fees;
// spending Pair.Quote inverts the rate first to find the implied base fill,
// then applies the same fee policy to it.
func (o Order) Convert(spend Money) (Money, FeeBreakdown, error) {
	switch spend.Currency {
	case o.Pair.Base:
		received, err := o.EffectiveQuoteAmount(spend)
		if err != nil {
			return Money{}, FeeBreakdown{}, err
		}
		fees, err := o.Fees(spend)
		if err != nil {
			return Money{}, FeeBreakdown{}, err
		}
		return received, fees, nil
	case o.Pair.Quote:
		invRate, err := o.Rate.Invert()
		if err != nil {
			return Money{}, FeeBreakdown{}, err
		}
		grossBase, err := invRate.Convert(spend)
		if err != nil {
			return Money{}, FeeBreakdown{}, err
		}
		if !o.Bounds.Contains(grossBase) {
			return Money{}, FeeBreakdown{}, fmt.Errorf("%w: implied fill %s outside order bounds [%s, %s]", errs.ErrInvalidInput, grossBase, o.Bounds.Min, o.Bounds.Max)
		}
		fees, err := o.FeePolicy.Compute(o.Side, grossBase, spend)
		if err != nil {
			return Money{}, FeeBreakdown{}, err
		}
		received := grossBase
		if fees.HasBaseFee() {
			received, err = grossBase.Sub(*fees.BaseFee)
			if err != nil {
				return Money{}, FeeBreakdown{}, err
			}
		}
		return received, fees, nil
	default:
		return Money{}, FeeBreakdown{}, fmt.Errorf("%w: spend currency %s matches neither leg of pair %s", errs.ErrInvalidInput, spend.Currency, o.Pair)
	}
}

// Fingerprint is a stable string identifying the order's economic behavior
// (pair, rate, scale, fee policy) independent of identity — two orders with
// an identical fingerprint coalesce into one graph edge.
func (o Order) Fingerprint() string {
	return fmt.Sprintf("%s|%s|%s|%d|%s", o.Pair, o.Side, o.Rate.Rate.RenderAtScale(o.Rate.Scale), o.Rate.Scale, o.FeePolicy.Fingerprint())
}

package xchange

import (
	"fmt"

	"github.com/mExOms/pathfinder/internal/decimal"
	"github.com/mExOms/pathfinder/internal/errs"
)

// ExchangeRate is a directed price: 1 unit of Pair.Base converts to Rate
// units of Pair.Quote. Rate is always strictly positive.
type ExchangeRate struct {
	Pair  AssetPair
	Rate  decimal.Decimal
	Scale int32
}

// NewExchangeRate validates and constructs an ExchangeRate.
func NewExchangeRate(pair AssetPair, rate decimal.Decimal, scale int32) (ExchangeRate, error) {
	if !rate.IsPositive() {
		return ExchangeRate{}, fmt.Errorf("%w: exchange rate must be positive, got %s", errs.ErrInvalidInput, rate.String())
	}
	if scale < 0 {
		return ExchangeRate{}, fmt.Errorf("%w: negative scale %d", errs.ErrInvalidInput, scale)
	}
	return ExchangeRate{Pair: pair, Rate: decimal.Normalize(rate, scale), Scale: scale}, nil
}

// Convert applies the rate to an amount of the base currency, returning the
// equivalent quote-currency Money rounded at r.Scale.
func (r ExchangeRate) Convert(base Money) (Money, error) {
	if base.Currency != r.Pair.Base {
		return Money{}, fmt.Errorf("%w: amount currency %s does not match rate base %s", errs.ErrInvalidInput, base.Currency, r.Pair.Base)
	}
	converted := base.Amount.Mul(r.Rate)
	return NewMoney(r.Pair.Quote, converted, r.Scale)
}

// Invert returns the reciprocal rate (quote->base), rounded at the same
// scale using the decimal kernel's single rounding site.
func (r ExchangeRate) Invert() (ExchangeRate, error) {
	inverted, err := decimal.Div(decimal.One(), r.Rate, r.Scale+decimal.RatioExtraScale)
	if err != nil {
		return ExchangeRate{}, err
	}
	return NewExchangeRate(r.Pair.Inverted(), inverted, r.Scale)
}

package xchange

import (
	"errors"
	"testing"

	"github.com/mExOms/pathfinder/internal/decimal"
	"github.com/mExOms/pathfinder/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustOrder(t *testing.T, feePolicy FeePolicy) Order {
	t.Helper()
	pair, err := NewAssetPair("BTC", "USD", false)
	require.NoError(t, err)
	rate, err := NewExchangeRate(pair, decimal.MustParse("20000"), 2)
	require.NoError(t, err)
	min, _ := NewMoney("BTC", decimal.MustParse("0.01"), 8)
	max, _ := NewMoney("BTC", decimal.MustParse("5"), 8)
	bounds, err := NewOrderBounds(min, max)
	require.NoError(t, err)
	order, err := NewOrder(Sell, pair, bounds, rate, feePolicy)
	require.NoError(t, err)
	return order
}

func TestNewOrder_RejectsUnknownSide(t *testing.T) {
	pair, _ := NewAssetPair("BTC", "USD", false)
	rate, _ := NewExchangeRate(pair, decimal.MustParse("20000"), 2)
	min, _ := NewMoney("BTC", decimal.MustParse("0.01"), 8)
	max, _ := NewMoney("BTC", decimal.MustParse("5"), 8)
	bounds, _ := NewOrderBounds(min, max)

	_, err := NewOrder("HOLD", pair, bounds, rate, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrInvalidInput))
}

func TestOrder_EffectiveQuoteAmount_NoFee(t *testing.T) {
	order := mustOrder(t, nil)
	fill, _ := NewMoney("BTC", decimal.MustParse("1"), 8)
	quote, err := order.EffectiveQuoteAmount(fill)
	require.NoError(t, err)
	assert.Equal(t, "20000.00", quote.Amount.RenderAtScale(2))
}

func TestOrder_EffectiveQuoteAmount_RejectsOutOfBoundsFill(t *testing.T) {
	order := mustOrder(t, nil)
	fill, _ := NewMoney("BTC", decimal.MustParse("10"), 8)
	_, err := order.EffectiveQuoteAmount(fill)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrInvalidInput))
}

func TestOrder_EffectiveQuoteAmount_DeductsQuoteFee(t *testing.T) {
	order := mustOrder(t, PercentageFeePolicy{QuoteBps: 10})
	fill, _ := NewMoney("BTC", decimal.MustParse("1"), 8)
	quote, err := order.EffectiveQuoteAmount(fill)
	require.NoError(t, err)
	// 10 bps of 20000 is 20.
	assert.Equal(t, "19980.00", quote.Amount.RenderAtScale(2))
}

func TestOrder_GrossBaseAmount_AddsBaseFee(t *testing.T) {
	order := mustOrder(t, PercentageFeePolicy{BaseBps: 100})
	fill, _ := NewMoney("BTC", decimal.MustParse("1"), 8)
	gross, err := order.GrossBaseAmount(fill)
	require.NoError(t, err)
	// 100 bps of 1 BTC is 0.01 BTC.
	assert.Equal(t, "1.01000000", gross.Amount.RenderAtScale(8))
}

func TestOrder_FingerprintStableForEquivalentOrders(t *testing.T) {
	a := mustOrder(t, PercentageFeePolicy{QuoteBps: 10})
	b := mustOrder(t, PercentageFeePolicy{QuoteBps: 10})
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	c := mustOrder(t, PercentageFeePolicy{QuoteBps: 20})
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

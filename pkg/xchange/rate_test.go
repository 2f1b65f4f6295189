package xchange

import (
	"errors"
	"testing"

	"github.com/mExOms/pathfinder/internal/decimal"
	"github.com/mExOms/pathfinder/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExchangeRate_RejectsNonPositiveRate(t *testing.T) {
	pair, _ := NewAssetPair("BTC", "USD", false)
	_, err := NewExchangeRate(pair, decimal.Zero(), 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrInvalidInput))
}

func TestExchangeRate_Convert(t *testing.T) {
	pair, _ := NewAssetPair("BTC", "USD", false)
	rate, err := NewExchangeRate(pair, decimal.MustParse("20000"), 2)
	require.NoError(t, err)

	base, _ := NewMoney("BTC", decimal.MustParse("1.5"), 8)
	quote, err := rate.Convert(base)
	require.NoError(t, err)
	assert.Equal(t, "USD", quote.Currency)
	assert.Equal(t, "30000.00", quote.Amount.RenderAtScale(2))
}

func TestExchangeRate_Invert(t *testing.T) {
	pair, _ := NewAssetPair("BTC", "USD", false)
	rate, err := NewExchangeRate(pair, decimal.MustParse("4"), 4)
	require.NoError(t, err)

	inv, err := rate.Invert()
	require.NoError(t, err)
	assert.Equal(t, "USD", inv.Pair.Base)
	assert.Equal(t, "BTC", inv.Pair.Quote)
	assert.Equal(t, "0.2500", inv.Rate.RenderAtScale(4))
}

func TestExchangeRate_ConvertRejectsCurrencyMismatch(t *testing.T) {
	pair, _ := NewAssetPair("BTC", "USD", false)
	rate, _ := NewExchangeRate(pair, decimal.MustParse("20000"), 2)
	eur, _ := NewMoney("EUR", decimal.MustParse("1"), 2)
	_, err := rate.Convert(eur)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrInvalidInput))
}

package xchange

import (
	"errors"
	"testing"

	"github.com/mExOms/pathfinder/internal/decimal"
	"github.com/mExOms/pathfinder/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney_RejectsBadCurrencyAndNegativeAmount(t *testing.T) {
	_, err := NewMoney("us", decimal.Zero(), 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrInvalidInput))

	_, err = NewMoney("usd", decimal.Zero(), 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrInvalidInput))

	_, err = NewMoney("USD", decimal.MustParse("-1"), 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrInvalidInput))
}

func TestMoney_AddRequiresMatchingCurrency(t *testing.T) {
	usd, _ := NewMoney("USD", decimal.MustParse("10"), 2)
	eur, _ := NewMoney("EUR", decimal.MustParse("5"), 2)
	_, err := usd.Add(eur)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrInvalidInput))
}

func TestMoney_AddUsesMaxScale(t *testing.T) {
	a, _ := NewMoney("USD", decimal.MustParse("1"), 2)
	b, _ := NewMoney("USD", decimal.MustParse("1"), 4)
	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, int32(4), sum.Scale)
	assert.Equal(t, "2.0000", sum.Amount.RenderAtScale(4))
}

func TestMoney_SubForbidsNegativeResult(t *testing.T) {
	a, _ := NewMoney("USD", decimal.MustParse("1"), 2)
	b, _ := NewMoney("USD", decimal.MustParse("2"), 2)
	_, err := a.Sub(b)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrInvalidInput))
}

package xchange

import (
	"errors"
	"testing"

	"github.com/mExOms/pathfinder/internal/decimal"
	"github.com/mExOms/pathfinder/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderBounds_RejectsMinGreaterThanMax(t *testing.T) {
	min, _ := NewMoney("BTC", decimal.MustParse("2"), 8)
	max, _ := NewMoney("BTC", decimal.MustParse("1"), 8)
	_, err := NewOrderBounds(min, max)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrInvalidInput))
}

func TestNewOrderBounds_NormalizesDifferingScalesToMax(t *testing.T) {
	min, _ := NewMoney("BTC", decimal.MustParse("0.1"), 2)
	max, _ := NewMoney("BTC", decimal.MustParse("1"), 8)
	bounds, err := NewOrderBounds(min, max)
	require.NoError(t, err)

	assert.Equal(t, int32(8), bounds.Min.Scale)
	assert.Equal(t, int32(8), bounds.Max.Scale)
	assert.Equal(t, "0.10000000", bounds.Min.Amount.RenderAtScale(8))
}

func TestOrderBounds_ContainsIsInclusive(t *testing.T) {
	min, _ := NewMoney("BTC", decimal.MustParse("0.1"), 8)
	max, _ := NewMoney("BTC", decimal.MustParse("1"), 8)
	bounds, err := NewOrderBounds(min, max)
	require.NoError(t, err)

	assert.True(t, bounds.Contains(min))
	assert.True(t, bounds.Contains(max))

	mid, _ := NewMoney("BTC", decimal.MustParse("0.5"), 8)
	assert.True(t, bounds.Contains(mid))

	low, _ := NewMoney("BTC", decimal.MustParse("0.01"), 8)
	assert.False(t, bounds.Contains(low))

	high, _ := NewMoney("BTC", decimal.MustParse("2"), 8)
	assert.False(t, bounds.Contains(high))
}

func TestOrderBounds_Clamp(t *testing.T) {
	min, _ := NewMoney("BTC", decimal.MustParse("0.1"), 8)
	max, _ := NewMoney("BTC", decimal.MustParse("1"), 8)
	bounds, _ := NewOrderBounds(min, max)

	low, _ := NewMoney("BTC", decimal.MustParse("0.01"), 8)
	clamped := bounds.Clamp(low)
	assert.True(t, decimal.Compare(clamped.Amount, min.Amount) == 0)

	high, _ := NewMoney("BTC", decimal.MustParse("2"), 8)
	clamped = bounds.Clamp(high)
	assert.True(t, decimal.Compare(clamped.Amount, max.Amount) == 0)
}

package xchange

import (
	"testing"

	"github.com/mExOms/pathfinder/internal/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeeBreakdown_ZeroValuedComponentsAreAbsent(t *testing.T) {
	var fb FeeBreakdown
	assert.False(t, fb.HasBaseFee())
	assert.False(t, fb.HasQuoteFee())

	zero, _ := NewMoney("USD", decimal.Zero(), 2)
	fb.BaseFee = &zero
	assert.False(t, fb.HasBaseFee())
}

func TestFeeBreakdown_MergeIsAdditive(t *testing.T) {
	a1, _ := NewMoney("USD", decimal.MustParse("1"), 2)
	a2, _ := NewMoney("USD", decimal.MustParse("2"), 2)
	a := FeeBreakdown{BaseFee: &a1}
	b := FeeBreakdown{BaseFee: &a2}

	merged, err := a.Merge(b)
	require.NoError(t, err)
	require.True(t, merged.HasBaseFee())
	assert.Equal(t, "3.00", merged.BaseFee.Amount.RenderAtScale(2))
	assert.False(t, merged.HasQuoteFee())
}

func TestFeeBreakdown_MergeWithAbsentComponentKeepsOther(t *testing.T) {
	a1, _ := NewMoney("USD", decimal.MustParse("1"), 2)
	a := FeeBreakdown{BaseFee: &a1}
	b := FeeBreakdown{}

	merged, err := a.Merge(b)
	require.NoError(t, err)
	require.True(t, merged.HasBaseFee())
	assert.Equal(t, "1.00", merged.BaseFee.Amount.RenderAtScale(2))
}

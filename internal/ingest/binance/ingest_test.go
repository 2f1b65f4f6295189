package binance

import (
	"testing"

	"github.com/mExOms/pathfinder/pkg/xchange"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelToOrder_SkipsZeroQuantityLevel(t *testing.T) {
	pair, err := xchange.NewAssetPair("BTC", "USDT", false)
	require.NoError(t, err)

	_, ok, err := levelToOrder(xchange.Sell, pair, "20000", "0", xchange.NoFeePolicy{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLevelToOrder_BuildsSellOrderFromAskLevel(t *testing.T) {
	pair, err := xchange.NewAssetPair("BTC", "USDT", false)
	require.NoError(t, err)

	order, ok, err := levelToOrder(xchange.Sell, pair, "20000.50", "1.5", xchange.NoFeePolicy{})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, xchange.Sell, order.Side)
	assert.Equal(t, "1.50000000", order.Bounds.Max.Amount.RenderAtScale(8))
	assert.Equal(t, "0.00000000", order.Bounds.Min.Amount.RenderAtScale(8))
}

func TestLevelToOrder_RejectsMalformedPrice(t *testing.T) {
	pair, err := xchange.NewAssetPair("BTC", "USDT", false)
	require.NoError(t, err)

	_, _, err = levelToOrder(xchange.Buy, pair, "not-a-number", "1", xchange.NoFeePolicy{})
	require.Error(t, err)
}

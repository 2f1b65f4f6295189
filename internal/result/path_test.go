package result

import (
	"encoding/json"
	"testing"

	"github.com/mExOms/pathfinder/internal/decimal"
	"github.com/mExOms/pathfinder/internal/graph"
	"github.com/mExOms/pathfinder/internal/search"
	"github.com/mExOms/pathfinder/pkg/xchange"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sellOrder(t *testing.T, base, quote, rate string) xchange.Order {
	t.Helper()
	pair, err := xchange.NewAssetPair(base, quote, false)
	require.NoError(t, err)
	r, err := xchange.NewExchangeRate(pair, decimal.MustParse(rate), 8)
	require.NoError(t, err)
	min, _ := xchange.NewMoney(base, decimal.MustParse("0.001"), 8)
	max, _ := xchange.NewMoney(base, decimal.MustParse("1000"), 8)
	bounds, err := xchange.NewOrderBounds(min, max)
	require.NoError(t, err)
	order, err := xchange.NewOrder(xchange.Sell, pair, bounds, r, nil)
	require.NoError(t, err)
	return order
}

func TestMaterialize_DirectPathHasZeroResidualTolerance(t *testing.T) {
	g, err := graph.NewGraphBuilder().Build([]xchange.Order{sellOrder(t, "USD", "USDT", "1.0")})
	require.NoError(t, err)
	req, err := search.NewPathSearchConfig("USD", "USDT").SpendAmount("100").HopLimits(1, 2).Build()
	require.NoError(t, err)

	outcome, err := search.NewEngine().Search(g, req)
	require.NoError(t, err)
	require.Len(t, outcome.States, 1)

	result, err := BuildOutcome(g, req, outcome)
	require.NoError(t, err)
	require.Equal(t, 1, result.Paths.Len())

	path := result.Paths.At(0)
	assert.Equal(t, "USD", path.TotalSpent.Currency)
	assert.Equal(t, "100.00", path.TotalSpent.Amount.RenderAtScale(2))
	assert.Equal(t, "USDT", path.TotalReceived.Currency)
	assert.Equal(t, "100.00", path.TotalReceived.Amount.RenderAtScale(2))
	assert.True(t, path.ResidualTolerance.IsZero())
	require.Len(t, path.Legs, 1)
	assert.Equal(t, "USD", path.Legs[0].From)
	assert.Equal(t, "USDT", path.Legs[0].To)
}

func TestMaterialize_TwoCandidatesHavePositiveResidualForWorse(t *testing.T) {
	orders := []xchange.Order{
		sellOrder(t, "BTC", "USD", "20000"), // best
		sellOrder(t, "BTC", "USD", "19800"), // within 2% tolerance window
	}
	g, err := graph.NewGraphBuilder().Build(orders)
	require.NoError(t, err)
	req, err := search.NewPathSearchConfig("BTC", "USD").SpendAmount("1").HopLimits(1, 1).
		ToleranceBounds("0", "0.02").ResultLimit(5).Build()
	require.NoError(t, err)

	outcome, err := search.NewEngine().Search(g, req)
	require.NoError(t, err)
	require.Len(t, outcome.States, 2)

	result, err := BuildOutcome(g, req, outcome)
	require.NoError(t, err)
	require.Equal(t, 2, result.Paths.Len())
	assert.True(t, result.Paths.At(0).ResidualTolerance.IsZero())
	assert.True(t, result.Paths.At(1).ResidualTolerance.IsPositive())
}

func TestPathResult_MarshalJSONShape(t *testing.T) {
	g, err := graph.NewGraphBuilder().Build([]xchange.Order{sellOrder(t, "USD", "USDT", "1.0")})
	require.NoError(t, err)
	req, err := search.NewPathSearchConfig("USD", "USDT").SpendAmount("100").HopLimits(1, 1).Build()
	require.NoError(t, err)
	outcome, err := search.NewEngine().Search(g, req)
	require.NoError(t, err)
	built, err := BuildOutcome(g, req, outcome)
	require.NoError(t, err)

	raw, err := json.Marshal(built.Paths.At(0))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Contains(t, decoded, "totalSpent")
	assert.Contains(t, decoded, "totalReceived")
	assert.Contains(t, decoded, "residualTolerance")
	assert.Contains(t, decoded, "feeBreakdown")
	assert.Contains(t, decoded, "legs")
}

package portfolio

import (
	"testing"

	"github.com/mExOms/pathfinder/internal/decimal"
	"github.com/mExOms/pathfinder/internal/graph"
	"github.com/mExOms/pathfinder/internal/guard"
	"github.com/mExOms/pathfinder/pkg/xchange"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sellOrder(t *testing.T, base, quote, rate, minBase, maxBase string) xchange.Order {
	t.Helper()
	pair, err := xchange.NewAssetPair(base, quote, false)
	require.NoError(t, err)
	r, err := xchange.NewExchangeRate(pair, decimal.MustParse(rate), 8)
	require.NoError(t, err)
	min, err := xchange.NewMoney(base, decimal.MustParse(minBase), 8)
	require.NoError(t, err)
	max, err := xchange.NewMoney(base, decimal.MustParse(maxBase), 8)
	require.NoError(t, err)
	bounds, err := xchange.NewOrderBounds(min, max)
	require.NoError(t, err)
	order, err := xchange.NewOrder(xchange.Sell, pair, bounds, r, nil)
	require.NoError(t, err)
	return order
}

func transferOrder(t *testing.T, currency, rate string) xchange.Order {
	t.Helper()
	pair, err := xchange.NewAssetPair(currency, currency, true)
	require.NoError(t, err)
	r, err := xchange.NewExchangeRate(pair, decimal.MustParse(rate), 8)
	require.NoError(t, err)
	min, err := xchange.NewMoney(currency, decimal.MustParse("0.01"), 8)
	require.NoError(t, err)
	max, err := xchange.NewMoney(currency, decimal.MustParse("1000"), 8)
	require.NoError(t, err)
	bounds, err := xchange.NewOrderBounds(min, max)
	require.NoError(t, err)
	order, err := xchange.NewOrder(xchange.Sell, pair, bounds, r, nil)
	require.NoError(t, err)
	return order
}

func buildGraph(t *testing.T, allowTransfers bool, orders ...xchange.Order) *graph.Graph {
	t.Helper()
	b := &graph.GraphBuilder{AllowTransfers: allowTransfers}
	g, err := b.Build(orders)
	require.NoError(t, err)
	return g
}

func TestEngine_PlanDirectSingleRoute(t *testing.T) {
	order := sellOrder(t, "A", "B", "2", "0.01", "100")
	g := buildGraph(t, false, order)

	e := NewEngine()
	plan, report, err := e.Plan(g, PlanRequest{
		Source: "A",
		Target: "B",
		Spend:  money(t, "A", "10"),
		Guards: guard.SearchGuards{MaxExpansions: 100, MaxVisitedStates: 100},
	})
	require.NoError(t, err)
	assert.False(t, report.AnyLimitReached())
	assert.False(t, plan.Partial)
	require.Equal(t, 1, plan.StepCount())
	assert.True(t, plan.IsLinear())

	received, err := plan.TotalReceived()
	require.NoError(t, err)
	assert.Equal(t, "B", received.Currency)
	assert.Equal(t, "20.00000000", received.Amount.RenderAtScale(8))

	path, err := plan.ToPath()
	require.NoError(t, err)
	require.Len(t, path.Legs, 1)
	assert.Equal(t, "A", path.Legs[0].From)
	assert.Equal(t, "B", path.Legs[0].To)
}

func TestEngine_PlanRoutesFullSpendAroundUndersizedDirectOrder(t *testing.T) {
	direct := sellOrder(t, "A", "B", "1", "0.01", "5")
	viaC1 := sellOrder(t, "A", "C", "1", "0.01", "100")
	viaC2 := sellOrder(t, "C", "B", "1", "0.01", "100")
	g := buildGraph(t, false, direct, viaC1, viaC2)

	e := NewEngine()
	plan, report, err := e.Plan(g, PlanRequest{
		Source: "A",
		Target: "B",
		Spend:  money(t, "A", "10"),
		Guards: guard.SearchGuards{MaxExpansions: 100, MaxVisitedStates: 100},
	})
	require.NoError(t, err)
	assert.False(t, report.AnyLimitReached())
	assert.False(t, plan.Partial)

	received, err := plan.TotalReceived()
	require.NoError(t, err)
	assert.Equal(t, "10.00000000", received.Amount.RenderAtScale(8))
}

func TestEngine_PlanIsPartialWhenLiquidityInsufficient(t *testing.T) {
	order := sellOrder(t, "A", "B", "1", "0.01", "5")
	g := buildGraph(t, false, order)

	e := NewEngine()
	plan, _, err := e.Plan(g, PlanRequest{
		Source: "A",
		Target: "B",
		Spend:  money(t, "A", "10"),
		Guards: guard.SearchGuards{MaxExpansions: 100, MaxVisitedStates: 100},
	})
	require.NoError(t, err)
	assert.True(t, plan.Partial)
}

func TestEngine_PlanAllowsSameCurrencyTransferOrder(t *testing.T) {
	transfer := transferOrder(t, "USD", "0.999")
	g := buildGraph(t, true, transfer)

	e := NewEngine()
	plan, _, err := e.Plan(g, PlanRequest{
		Source: "USD",
		Target: "USD",
		Spend:  money(t, "USD", "100"),
		Guards: guard.SearchGuards{MaxExpansions: 100, MaxVisitedStates: 100},
	})
	require.NoError(t, err)
	require.Equal(t, 1, plan.StepCount())
	assert.Equal(t, "USD", plan.Fills[0].Spend.Currency)
	assert.Equal(t, "USD", plan.Fills[0].Received.Currency)
}

func TestEngine_PlanIsEmptyForZeroSpend(t *testing.T) {
	order := sellOrder(t, "A", "B", "1", "0.01", "5")
	g := buildGraph(t, false, order)

	e := NewEngine()
	zero, err := xchange.NewMoney("A", decimal.Zero(), 8)
	require.NoError(t, err)
	plan, report, err := e.Plan(g, PlanRequest{Source: "A", Target: "B", Spend: zero})
	require.NoError(t, err)
	assert.Equal(t, 0, plan.StepCount())
	assert.False(t, report.AnyLimitReached())
}

func TestEngine_PlanIsEmptyForUnknownCurrency(t *testing.T) {
	order := sellOrder(t, "A", "B", "1", "0.01", "5")
	g := buildGraph(t, false, order)

	e := NewEngine()
	plan, _, err := e.Plan(g, PlanRequest{Source: "A", Target: "Z", Spend: money(t, "A", "10")})
	require.NoError(t, err)
	assert.Equal(t, 0, plan.StepCount())
}

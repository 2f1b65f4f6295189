package portfolio

import (
	"errors"
	"testing"

	"github.com/mExOms/pathfinder/internal/decimal"
	"github.com/mExOms/pathfinder/internal/errs"
	"github.com/mExOms/pathfinder/pkg/xchange"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(t *testing.T, currency, amount string) xchange.Money {
	t.Helper()
	m, err := xchange.NewMoney(currency, decimal.MustParse(amount), 8)
	require.NoError(t, err)
	return m
}

func TestPortfolioState_ExecuteDrainsSpendCurrencyAndMarksVisited(t *testing.T) {
	state := NewPortfolioState(money(t, "A", "100"))
	fill := Fill{OrderID: 0, Spend: money(t, "A", "100"), Received: money(t, "B", "100"), Cost: decimal.One()}

	next, err := state.Execute(fill)
	require.NoError(t, err)

	balA, _ := next.Balance("A")
	assert.True(t, balA.IsZero())
	assert.True(t, next.IsVisited("A"))
	balB, _ := next.Balance("B")
	assert.Equal(t, "100.00000000", balB.Amount.RenderAtScale(8))
	assert.True(t, next.HasUsedOrder(0))
}

func TestPortfolioState_ExecuteRejectsInsufficientBalance(t *testing.T) {
	state := NewPortfolioState(money(t, "A", "10"))
	fill := Fill{OrderID: 0, Spend: money(t, "A", "100"), Received: money(t, "B", "100")}

	_, err := state.Execute(fill)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrInvalidInput))
}

func TestPortfolioState_ExecuteRejectsReusedOrder(t *testing.T) {
	state := NewPortfolioState(money(t, "A", "100"))
	fill := Fill{OrderID: 5, Spend: money(t, "A", "50"), Received: money(t, "B", "50")}
	next, err := state.Execute(fill)
	require.NoError(t, err)

	_, err = next.Execute(Fill{OrderID: 5, Spend: money(t, "A", "10"), Received: money(t, "C", "10")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrInvalidInput))
}

func TestPortfolioState_RejectsReceivingIntoDrainedCurrencyFromUnrelatedRoute(t *testing.T) {
	state := NewPortfolioState(money(t, "A", "100"))
	drained, err := state.Execute(Fill{OrderID: 0, Spend: money(t, "A", "100"), Received: money(t, "B", "100")})
	require.NoError(t, err)
	spentB, err := drained.Execute(Fill{OrderID: 1, Spend: money(t, "B", "100"), Received: money(t, "C", "100")})
	require.NoError(t, err)
	assert.True(t, spentB.IsVisited("B"))

	_, err = spentB.Execute(Fill{OrderID: 2, Spend: money(t, "C", "50"), Received: money(t, "B", "10")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrInvalidInput))
}

func TestPortfolioState_AllowsMergingIntoUndrainedCurrencyAfterSourceDrained(t *testing.T) {
	state := NewPortfolioState(money(t, "A", "100"))
	split1, err := state.Execute(Fill{OrderID: 0, Spend: money(t, "A", "50"), Received: money(t, "B", "50")})
	require.NoError(t, err)
	split2, err := split1.Execute(Fill{OrderID: 1, Spend: money(t, "A", "50"), Received: money(t, "C", "50")})
	require.NoError(t, err)
	assert.True(t, split2.IsVisited("A"))

	merged, err := split2.Execute(Fill{OrderID: 2, Spend: money(t, "C", "50"), Received: money(t, "B", "50")})
	require.NoError(t, err)
	balB, _ := merged.Balance("B")
	assert.Equal(t, "100.00000000", balB.Amount.RenderAtScale(8))
}

func TestPortfolioState_SameCurrencyFillHandlesTransferInline(t *testing.T) {
	state := NewPortfolioState(money(t, "USD", "100"))
	next, err := state.Execute(Fill{OrderID: 0, Spend: money(t, "USD", "100"), Received: money(t, "USD", "99.5")})
	require.NoError(t, err)
	bal, _ := next.Balance("USD")
	assert.Equal(t, "99.50000000", bal.Amount.RenderAtScale(8))
	assert.False(t, next.IsVisited("USD"))
}

func TestPortfolioState_PositiveBalanceCurrenciesIsDeterministic(t *testing.T) {
	state := NewPortfolioState(money(t, "A", "100"))
	next, err := state.Execute(Fill{OrderID: 0, Spend: money(t, "A", "40"), Received: money(t, "B", "40")})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, next.PositiveBalanceCurrencies())
}

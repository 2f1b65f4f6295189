// Package portfolio implements the execution-plan engine (spec.md §4.4):
// the multi-currency PortfolioState that tracks balances across a
// split/merge execution, and the augmenting-path loop that repeatedly
// finds a best single route (reusing internal/search as a subroutine),
// applies it, and accumulates Fills into an ExecutionPlan.
package portfolio

import (
	"fmt"

	"github.com/mExOms/pathfinder/internal/decimal"
	"github.com/mExOms/pathfinder/internal/errs"
	"github.com/mExOms/pathfinder/pkg/xchange"
)

// PortfolioState is the immutable balance snapshot an execution plan
// walks through. Every mutation (Execute) returns a new state; the
// receiver is left untouched, matching the copy-on-transition discipline
// §5 requires of SearchState.
type PortfolioState struct {
	balances   map[string]xchange.Money
	order      []string // currency insertion order, for deterministic iteration
	visited    map[string]struct{}
	usedOrders map[int]struct{}
	totalCost  decimal.Decimal
}

// NewPortfolioState seeds a portfolio with a single starting balance.
func NewPortfolioState(source xchange.Money) PortfolioState {
	return PortfolioState{
		balances:   map[string]xchange.Money{source.Currency: source},
		order:      []string{source.Currency},
		visited:    make(map[string]struct{}),
		usedOrders: make(map[int]struct{}),
		totalCost:  decimal.Zero(),
	}
}

// Balance returns the currency's balance and whether it has ever held one.
func (p PortfolioState) Balance(currency string) (xchange.Money, bool) {
	m, ok := p.balances[currency]
	return m, ok
}

// PositiveBalanceCurrencies returns, in deterministic insertion order,
// every currency currently holding a strictly positive balance.
func (p PortfolioState) PositiveBalanceCurrencies() []string {
	out := make([]string, 0, len(p.order))
	for _, currency := range p.order {
		if m, ok := p.balances[currency]; ok && m.Amount.IsPositive() {
			out = append(out, currency)
		}
	}
	return out
}

// IsVisited reports whether currency has ever been fully drained by a
// spend.
func (p PortfolioState) IsVisited(currency string) bool {
	_, ok := p.visited[currency]
	return ok
}

// HasUsedOrder reports whether orderID has already been consumed in this
// plan.
func (p PortfolioState) HasUsedOrder(orderID int) bool {
	_, ok := p.usedOrders[orderID]
	return ok
}

// TotalCost returns the running sum of per-fill costs applied so far.
func (p PortfolioState) TotalCost() decimal.Decimal { return p.totalCost }

// Execute applies fill, returning the resulting state. It enforces every
// PortfolioState invariant: the order must not already have been used;
// the spend currency must hold at least the spent amount; a currency that
// was previously drained to zero may only receive funds if it still
// carries a residual balance from another concurrent route.
func (p PortfolioState) Execute(fill Fill) (PortfolioState, error) {
	if p.HasUsedOrder(fill.OrderID) {
		return PortfolioState{}, fmt.Errorf("%w: order %d already used in this execution plan", errs.ErrInvalidInput, fill.OrderID)
	}
	available, ok := p.Balance(fill.Spend.Currency)
	if !ok || decimal.Compare(available.Amount, fill.Spend.Amount) < 0 {
		return PortfolioState{}, fmt.Errorf("%w: insufficient %s balance for fill of %s", errs.ErrInvalidInput, fill.Spend.Currency, fill.Spend)
	}

	next := p.clone()

	// A same-currency (transfer-order) fill spends and receives the same
	// currency within a single hop: apply both legs together so the
	// intermediate zero balance never trips the drained-currency check
	// below against itself.
	if fill.Spend.Currency == fill.Received.Currency {
		remaining, err := available.Sub(fill.Spend)
		if err != nil {
			return PortfolioState{}, err
		}
		combined, err := remaining.Add(fill.Received)
		if err != nil {
			return PortfolioState{}, err
		}
		next.setBalance(combined)
		if combined.IsZero() {
			next.visited[fill.Spend.Currency] = struct{}{}
		}
		next.usedOrders[fill.OrderID] = struct{}{}
		next.totalCost = next.totalCost.Add(fill.Cost)
		return next, nil
	}

	remaining, err := available.Sub(fill.Spend)
	if err != nil {
		return PortfolioState{}, err
	}
	next.setBalance(remaining)
	if remaining.IsZero() {
		next.visited[fill.Spend.Currency] = struct{}{}
	}

	if _, wasVisited := next.visited[fill.Received.Currency]; wasVisited {
		existing, hasBalance := next.balances[fill.Received.Currency]
		if !hasBalance || existing.IsZero() {
			return PortfolioState{}, fmt.Errorf("%w: currency %s was already drained and cannot re-receive funds from an unrelated route", errs.ErrInvalidInput, fill.Received.Currency)
		}
	}
	if existing, hasBalance := next.balances[fill.Received.Currency]; hasBalance {
		sum, err := existing.Add(fill.Received)
		if err != nil {
			return PortfolioState{}, err
		}
		next.setBalance(sum)
	} else {
		next.setBalance(fill.Received)
	}

	next.usedOrders[fill.OrderID] = struct{}{}
	next.totalCost = next.totalCost.Add(fill.Cost)
	return next, nil
}

func (p *PortfolioState) setBalance(m xchange.Money) {
	if _, seen := p.balances[m.Currency]; !seen {
		p.order = append(p.order, m.Currency)
	}
	p.balances[m.Currency] = m
}

func (p PortfolioState) clone() PortfolioState {
	balances := make(map[string]xchange.Money, len(p.balances))
	for k, v := range p.balances {
		balances[k] = v
	}
	visited := make(map[string]struct{}, len(p.visited))
	for k := range p.visited {
		visited[k] = struct{}{}
	}
	usedOrders := make(map[int]struct{}, len(p.usedOrders))
	for k := range p.usedOrders {
		usedOrders[k] = struct{}{}
	}
	return PortfolioState{
		balances:   balances,
		order:      append([]string(nil), p.order...),
		visited:    visited,
		usedOrders: usedOrders,
		totalCost:  p.totalCost,
	}
}

// Fill is one executed hop of an execution plan: the order crossed, the
// money spent and received, the fees charged, this leg's cost
// contribution, and its position in execution order.
type Fill struct {
	OrderID  int
	Order    xchange.Order
	Spend    xchange.Money
	Received xchange.Money
	Fees     xchange.FeeBreakdown
	Cost     decimal.Decimal
	Sequence int
}

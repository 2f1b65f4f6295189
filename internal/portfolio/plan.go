package portfolio

import (
	"fmt"

	"github.com/mExOms/pathfinder/internal/errs"
	"github.com/mExOms/pathfinder/internal/result"
	"github.com/mExOms/pathfinder/pkg/xchange"
)

// ExecutionPlan is the materialized outcome of the augmenting-path loop:
// an ordered sequence of Fills from Source to Target, possibly crossing
// more than one route (split) or converging several routes onto Target
// (merge). Partial reports whether the requested spend could not be fully
// routed (insufficient aggregate liquidity, not an error per spec.md §4.4).
type ExecutionPlan struct {
	Source  string
	Target  string
	Fills   []Fill
	Partial bool
}

// StepCount returns how many fills the plan contains.
func (p ExecutionPlan) StepCount() int { return len(p.Fills) }

// Steps returns the fills in execution order.
func (p ExecutionPlan) Steps() []Fill { return append([]Fill(nil), p.Fills...) }

// IsLinear reports whether the plan forms a single unbranched chain: each
// step's Received currency feeds exactly the next step's Spend currency,
// no currency is spent from by more than one fill (no split) and no
// currency is received into by more than one fill (no merge).
func (p ExecutionPlan) IsLinear() bool {
	if len(p.Fills) == 0 {
		return true
	}
	spendCount := make(map[string]int, len(p.Fills))
	receiveCount := make(map[string]int, len(p.Fills))
	for _, f := range p.Fills {
		spendCount[f.Spend.Currency]++
		receiveCount[f.Received.Currency]++
	}
	for _, n := range spendCount {
		if n > 1 {
			return false
		}
	}
	for _, n := range receiveCount {
		if n > 1 {
			return false
		}
	}
	for i := 0; i < len(p.Fills)-1; i++ {
		if p.Fills[i].Received.Currency != p.Fills[i+1].Spend.Currency {
			return false
		}
	}
	return true
}

// ToPath downconverts a linear plan to the legacy single-route Path view
// (spec.md §4.4, §8 property 12). It errors if the plan is not linear.
func (p ExecutionPlan) ToPath() (result.Path, error) {
	if !p.IsLinear() {
		return result.Path{}, fmt.Errorf("%w: execution plan is not linear, has %d fills across a non-chain topology", errs.ErrInvalidInput, len(p.Fills))
	}
	legs := make([]result.PathLeg, 0, len(p.Fills))
	for _, f := range p.Fills {
		legs = append(legs, result.PathLeg{From: f.Spend.Currency, To: f.Received.Currency, Spent: f.Spend, Received: f.Received, Fees: f.Fees})
	}
	return result.Path{Legs: legs}, nil
}

// TotalSpent sums every fill whose Spend currency is the plan's Source —
// the portion of the original request actually routed.
func (p ExecutionPlan) TotalSpent() (xchange.Money, error) {
	return sumByCurrency(p.Fills, p.Source, func(f Fill) xchange.Money { return f.Spend })
}

// TotalReceived sums every fill whose Received currency is the plan's
// Target — the total delivered to the destination currency.
func (p ExecutionPlan) TotalReceived() (xchange.Money, error) {
	return sumByCurrency(p.Fills, p.Target, func(f Fill) xchange.Money { return f.Received })
}

func sumByCurrency(fills []Fill, currency string, pick func(Fill) xchange.Money) (xchange.Money, error) {
	var total xchange.Money
	var started bool
	for _, f := range fills {
		m := pick(f)
		if m.Currency != currency {
			continue
		}
		if !started {
			total = m
			started = true
			continue
		}
		sum, err := total.Add(m)
		if err != nil {
			return xchange.Money{}, err
		}
		total = sum
	}
	if !started {
		return xchange.Money{Currency: currency}, nil
	}
	return total, nil
}

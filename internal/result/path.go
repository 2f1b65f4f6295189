// Package result materializes the search engine's terminal states into the
// result shapes §4.6/§6 document: per-leg PathResult values, the bounded
// PathResultSet, and their JSON wire contract. None of this lives in
// internal/search because the engine's job ends at producing an ordered
// set of CandidatePath values — translating a route's order IDs back into
// actual spend/receive amounts is a separate, replaceable concern (the
// same CandidatePath could be rendered as a human summary, a fill plan, or
// this JSON contract without touching the engine).
package result

import (
	"encoding/json"
	"fmt"

	"github.com/mExOms/pathfinder/internal/decimal"
	"github.com/mExOms/pathfinder/internal/errs"
	"github.com/mExOms/pathfinder/internal/graph"
	"github.com/mExOms/pathfinder/internal/search"
	"github.com/mExOms/pathfinder/pkg/xchange"
)

// PathLeg is one hop of a materialized path.
type PathLeg struct {
	From     string
	To       string
	Spent    xchange.Money
	Received xchange.Money
	Fees     xchange.FeeBreakdown
}

// Path is the legacy single-route view an ExecutionPlan downconverts to
// when it turns out to be linear (spec.md §4.4, §8 property 12): an
// ordered leg sequence with no split/merge topology, replaying exactly
// what Steps() returned.
type Path struct {
	Legs []PathLeg
}

// PathResult is the external, user-facing rendering of one CandidatePath:
// total spent/received, the aggregated fee breakdown, the per-leg detail,
// and how much slack (relative to the best candidate in the same result
// set) this path consumed.
type PathResult struct {
	TotalSpent        xchange.Money
	TotalReceived     xchange.Money
	ResidualTolerance decimal.Decimal
	FeeBreakdown      map[string]xchange.Money
	Legs              []PathLeg
}

// Materialize replays candidate's route over g starting from spend and
// produces the PathResult, including the residual tolerance relative to
// bestCost (the cost of the best candidate in the same result set).
func Materialize(g *graph.Graph, startCurrency, targetCurrency string, spend xchange.Money, candidate search.CandidatePath, bestCost decimal.Decimal) (PathResult, error) {
	steps, err := graph.ReplayRoute(g, startCurrency, candidate.RouteOrderIDs, spend)
	if err != nil {
		return PathResult{}, err
	}

	legs := make([]PathLeg, 0, len(steps))
	feeTotals := make(map[string]xchange.Money)
	for _, step := range steps {
		legs = append(legs, PathLeg{From: step.From, To: step.To, Spent: step.Spend, Received: step.Received, Fees: step.Fees})
		if step.Fees.HasBaseFee() {
			if err := accumulateFee(feeTotals, *step.Fees.BaseFee); err != nil {
				return PathResult{}, err
			}
		}
		if step.Fees.HasQuoteFee() {
			if err := accumulateFee(feeTotals, *step.Fees.QuoteFee); err != nil {
				return PathResult{}, err
			}
		}
	}

	totalReceived := spend
	if len(steps) > 0 {
		totalReceived = steps[len(steps)-1].Received
	}
	if totalReceived.Currency != targetCurrency {
		return PathResult{}, fmt.Errorf("%w: route ends at %s, expected target currency %s", errs.ErrInvalidInput, totalReceived.Currency, targetCurrency)
	}

	residual, err := residualTolerance(candidate.Cost, bestCost)
	if err != nil {
		return PathResult{}, err
	}

	return PathResult{
		TotalSpent:        spend,
		TotalReceived:     totalReceived,
		ResidualTolerance: residual,
		FeeBreakdown:      feeTotals,
		Legs:              legs,
	}, nil
}

func accumulateFee(totals map[string]xchange.Money, fee xchange.Money) error {
	existing, ok := totals[fee.Currency]
	if !ok {
		totals[fee.Currency] = fee
		return nil
	}
	sum, err := existing.Add(fee)
	if err != nil {
		return err
	}
	totals[fee.Currency] = sum
	return nil
}

// residualTolerance computes (this-cost - best-cost) / best-cost at
// working scale: zero for the best candidate itself, and a positive
// fraction growing with how much costlier a candidate is than the best
// one in its result set, clamped to zero if cost ever comes in cheaper
// than bestCost (which should not happen given the engine's own
// ordering). There is no upper clamp: a candidate costing at least twice
// the best yields 1 or more, which the engine's tolerance window admits
// only when ToleranceMax is 0.5 or above. spec.md §4.6's literal
// (best_cost − this_cost)/best_cost text would make this always zero or
// negative for every non-best candidate, since bestCost is by
// construction the minimum cost in the set — the operands are swapped
// here to match the documented non-negative, growing-with-badness range.
func residualTolerance(cost, bestCost decimal.Decimal) (decimal.Decimal, error) {
	if bestCost.IsZero() {
		return decimal.Zero(), nil
	}
	diff := cost.Sub(bestCost)
	if !diff.IsPositive() {
		return decimal.Zero(), nil
	}
	ratio, err := decimal.Div(diff, bestCost, decimal.WorkingScale+decimal.RatioExtraScale)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return decimal.Normalize(ratio, decimal.WorkingScale), nil
}

// PathResultSet is the ordered, bounded collection of PathResult values a
// search produces. The ordering itself comes from the engine's own
// best-first drain (§4.3's composite comparator) — this type is a thin,
// read-only wrapper that only adds slicing/serialization.
type PathResultSet struct {
	results []PathResult
}

// NewPathResultSet copies results into a PathResultSet, preserving order.
func NewPathResultSet(results []PathResult) PathResultSet {
	return PathResultSet{results: append([]PathResult(nil), results...)}
}

// Len reports how many results the set holds.
func (s PathResultSet) Len() int { return len(s.results) }

// At returns the i'th result in rank order.
func (s PathResultSet) At(i int) PathResult { return s.results[i] }

// Slice returns the [lo, hi) sub-range as a new PathResultSet.
func (s PathResultSet) Slice(lo, hi int) PathResultSet {
	return PathResultSet{results: append([]PathResult(nil), s.results[lo:hi]...)}
}

// All returns a defensive copy of every result in rank order.
func (s PathResultSet) All() []PathResult {
	return append([]PathResult(nil), s.results...)
}

// MarshalJSON renders the set as a plain JSON array of its elements.
func (s PathResultSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.results)
}

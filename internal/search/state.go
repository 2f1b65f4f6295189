// Package search implements the tolerance-pruned, guard-bounded best-path
// enumerator: a Dijkstra-like priority-queue walk over an internal/graph
// Graph that ranks partial paths by cumulative yield, discards states that
// fall outside the caller's tolerance window of the best path found so
// far, deduplicates dominated states, and returns a deterministically
// ordered, bounded set of results.
package search

import (
	"fmt"
	"strings"

	"github.com/mExOms/pathfinder/internal/decimal"
)

// SpendRange is the feasible interval of start-currency spend amounts a
// partial path can still carry, narrowed at every hop by the capacity of
// the segment it crosses. Currency is the denomination the bounds are
// expressed in (always the search's start currency).
type SpendRange struct {
	Currency string
	Min      decimal.Decimal
	Max      decimal.Decimal
}

// Empty reports whether the range has collapsed (Min > Max), meaning no
// spend amount is feasible along this path anymore.
func (r SpendRange) Empty() bool {
	return decimal.Compare(r.Min, r.Max) > 0
}

// Intersect narrows r to the overlap with other. Currency is carried over
// from r; callers never intersect ranges in different currencies.
func (r SpendRange) Intersect(other SpendRange) SpendRange {
	return SpendRange{Currency: r.Currency, Min: decimal.Max(r.Min, other.Min), Max: decimal.Min(r.Max, other.Max)}
}

// SearchState is one partial path carried by the priority queue: the
// currency it currently sits at, the cumulative yield (target-equivalent
// units obtained per unit of start-currency spent, measured in the
// currency the path is currently at), the hop count, the feasible spend
// range, the amount originally requested to spend (constant for the
// lifetime of a search, carried for signature composition), the ordered
// list of currencies visited so far (used both to block cycles and to
// derive the route signature), the ordered list of backing order IDs, and
// the monotonic insertion counter used to break ties deterministically.
type SearchState struct {
	Currency       string
	Yield          decimal.Decimal
	Hops           int
	Spend          SpendRange
	DesiredSpend   decimal.Decimal
	RouteNodes     []string
	RouteOrderIDs  []int
	InsertionOrder int64
}

// Cost is the inverse of Yield: lower cost means a better (higher-yield)
// path, matching the orientation a min-priority-queue expects.
func (s SearchState) Cost() decimal.Decimal {
	cost, err := decimal.Div(decimal.One(), s.Yield, decimal.WorkingScale+decimal.RatioExtraScale)
	if err != nil {
		// Yield is always strictly positive: every edge rate is positive
		// and the starting yield is One(), so the product never reaches
		// zero. A zero Yield here indicates a builder invariant broke.
		panic(fmt.Sprintf("search: non-positive yield in state at %s: %v", s.Currency, err))
	}
	return cost
}

// Signature returns the deduplication registry key for this state: the
// current node plus the feasible spend range and originally requested
// spend amount, both carried at the search's start-currency denomination.
func (s SearchState) Signature() SearchStateSignature {
	return ComposeSignature(s.Currency, &s.Spend, &s.DesiredSpend)
}

// RouteSignature returns the deterministic lexical representation of the
// path's visited nodes, used as the route tie-breaker in PathOrderKey.
func (s SearchState) RouteSignature() string {
	return strings.Join(s.RouteNodes, "->")
}

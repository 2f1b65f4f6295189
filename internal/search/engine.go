package search

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mExOms/pathfinder/internal/decimal"
	"github.com/mExOms/pathfinder/internal/errs"
	"github.com/mExOms/pathfinder/internal/graph"
	"github.com/mExOms/pathfinder/internal/guard"
)

// Engine runs tolerance-pruned best-path searches over a Graph.
type Engine struct {
	log *logrus.Entry
}

// NewEngine returns an Engine with no diagnostic logging attached.
func NewEngine() *Engine { return &Engine{} }

// WithLogger attaches a diagnostic logger.
func (e *Engine) WithLogger(log *logrus.Entry) *Engine {
	e.log = log
	return e
}

// SearchOutcome is the result of a completed (possibly partial) search:
// the best-first ordered states found and the guard report describing how
// much of the configured search budget was consumed.
type SearchOutcome struct {
	States []SearchState
	Guards guard.SearchGuardReport
}

// Search enumerates best-first paths from req.StartCurrency to
// req.TargetCurrency over g, pruning any partial path whose cost already
// exceeds the best completed path's cost amplified by 1/(1-ToleranceMax).
// A popped state is always checked for terminal-candidate status first;
// only once that is settled does the dominance registry decide whether it
// is worth expanding further, so a dominated-but-in-tolerance terminal
// state still reaches the result heap (§4.3 steps 3-4). Returns up to
// req.ResultLimit results in deterministic best-first order.
//
// If a configured guard is breached, Search returns whatever results were
// found so far along with a report describing the breach — unless the
// request opted into GuardLimitException, in which case it returns an
// error wrapping errs.ErrGuardLimitExceeded instead.
func (e *Engine) Search(g *graph.Graph, req PathSearchRequest) (SearchOutcome, error) {
	if g.Node(req.StartCurrency) == nil {
		return SearchOutcome{}, fmt.Errorf("%w: start currency %q not present in graph", errs.ErrInvalidInput, req.StartCurrency)
	}
	if g.Node(req.TargetCurrency) == nil {
		return SearchOutcome{}, fmt.Errorf("%w: target currency %q not present in graph", errs.ErrInvalidInput, req.TargetCurrency)
	}

	amplifier, err := toleranceAmplifier(req.ToleranceMax)
	if err != nil {
		return SearchOutcome{}, err
	}

	guards := req.Guards
	if e.log != nil {
		guards.WithLogger(e.log)
	}

	frontier := NewFrontier()
	results := NewResultHeap(req.ResultLimit)
	dom := newDominanceIndex()

	var insertionCounter int64
	nextInsertion := func() int64 {
		insertionCounter++
		return insertionCounter - 1
	}

	frontier.Push(SearchState{
		Currency:       req.StartCurrency,
		Yield:          decimal.One(),
		Hops:           0,
		Spend:          SpendRange{Currency: req.StartCurrency, Min: req.SpendAmount, Max: req.SpendAmount},
		DesiredSpend:   req.SpendAmount,
		RouteNodes:     []string{req.StartCurrency},
		RouteOrderIDs:  nil,
		InsertionOrder: nextInsertion(),
	})

	var bestCost *decimal.Decimal
	breached := false

	for frontier.Len() > 0 {
		if !guards.CanExpand() {
			breached = true
			break
		}
		state, ok := frontier.Pop()
		if !ok {
			break
		}

		// Step 2: hop cutoff. A state that overshot the ceiling (it
		// cannot happen given expand's own bookkeeping today, but the
		// discard is unconditional per §4.3) is dropped before it gets
		// any chance at terminal detection.
		if state.Hops > req.MaxHops {
			continue
		}

		// Step 3: terminal detection runs unconditionally on every
		// popped state, independent of dominance. Two segments of the
		// same edge (same capacity, different rates) can expand the
		// same parent into children sharing an identical
		// SearchStateSignature; the worse-rate child must still reach
		// the result heap as a non-dominant, in-tolerance candidate, so
		// this check cannot be short-circuited by the dominance
		// registry below.
		isTerminal := state.Currency == req.TargetCurrency && state.Hops >= req.MinHops
		if isTerminal {
			cost := state.Cost()
			if bestCost == nil || decimal.Compare(cost, bestCost.Mul(amplifier)) <= 0 {
				results.Offer(state)
			}
			if bestCost == nil || decimal.Compare(cost, *bestCost) < 0 {
				bestCost = &cost
			}
		}

		// Step 4: dominance check against the popped state itself,
		// gating only whether it expands further. Terminal states are
		// never expanded, so they never consult or update the
		// registry.
		if isTerminal {
			continue
		}
		survived := dom.offer(state.Signature().Value(), state.Cost(), state.Hops, state.RouteSignature())
		if survived && guards.RecordExpansion(state.Signature().Value()) {
			breached = true
		}
		if !survived {
			continue
		}
		if breached {
			break
		}

		// Step 5: expansion.
		if state.Hops >= req.MaxHops {
			continue
		}
		node := g.Node(state.Currency)
		if node == nil {
			continue
		}
		for _, edge := range node.Edges {
			for _, seg := range edge.Segments {
				child, ok := expand(state, edge.To, seg)
				if !ok {
					continue
				}
				if bestCost != nil && decimal.Compare(child.Cost(), bestCost.Mul(amplifier)) > 0 {
					continue
				}
				child.InsertionOrder = nextInsertion()
				frontier.Push(child)
			}
		}
	}

	report := guards.Report()
	if report.AnyLimitReached() && req.Guards.RaiseOnLimit {
		if err := report.AsError(); err != nil {
			return SearchOutcome{}, err
		}
	}
	return SearchOutcome{States: results.Drain(), Guards: report}, nil
}

// toleranceAmplifier returns 1/(1-toleranceMax), the factor by which the
// best completed path's cost is scaled to define the pruning cutoff for
// states still in flight.
func toleranceAmplifier(toleranceMax decimal.Decimal) (decimal.Decimal, error) {
	denominator := decimal.One().Sub(toleranceMax)
	return decimal.Div(decimal.One(), denominator, decimal.WorkingScale+decimal.RatioExtraScale)
}

// expand derives the child state reached by crossing seg from state,
// narrowing the feasible spend range by the segment's capacity. ok is
// false if to already appears in state's visited nodes (a cycle; a
// transfer segment back to the current currency is exempt unless its
// order is already on the route), if the
// segment is mandatory and the carried range cannot reach its floor, or
// if the segment's capacity otherwise leaves no feasible spend amount.
//
// Per §4.3 step 5, the range carry (step 5b) and the mandatory-floor check
// (step 5a) consult different measures: the carry is intersected against
// the segment's From-currency capacity (base for a Sell edge, quote for a
// Buy edge), but the floor is reconciled against the To-currency measure
// fees actually bite on (gross_base for BUY, quote for SELL), since that
// is where the order's own minimum-lot economics are denominated.
func expand(state SearchState, to string, seg graph.EdgeSegment) (SearchState, bool) {
	if seg.Order.Pair.IsTransfer() && to == state.Currency {
		// A transfer segment leads back to the current currency; it is
		// exempt from the cycle check, but its order is used at most once.
		for _, id := range state.RouteOrderIDs {
			if id == seg.OrderID {
				return SearchState{}, false
			}
		}
	} else {
		for _, visited := range state.RouteNodes {
			if visited == to {
				return SearchState{}, false
			}
		}
	}

	spendInterval := seg.Capacity.Interval(graph.SpendMeasure(seg.Order.Side))
	capMin, err := decimal.Div(spendInterval.Min, state.Yield, decimal.WorkingScale+decimal.RatioExtraScale)
	if err != nil {
		return SearchState{}, false
	}
	capMax, err := decimal.Div(spendInterval.Max, state.Yield, decimal.WorkingScale+decimal.RatioExtraScale)
	if err != nil {
		return SearchState{}, false
	}

	if seg.Capacity.Mandatory {
		fromMax := state.Spend.Max.Mul(state.Yield)
		receivedMax := fromMax.Mul(seg.Rate)
		mandatoryFloor := seg.Capacity.Interval(graph.MandatoryMeasure(seg.Order.Side)).Min
		if decimal.Compare(receivedMax, mandatoryFloor) < 0 {
			// The carried range's upper end, once converted through this
			// segment, falls below the lot's mandatory floor: it cannot be
			// partially filled, so the segment is unusable.
			return SearchState{}, false
		}
	}

	spend := state.Spend.Intersect(SpendRange{Currency: state.Spend.Currency, Min: capMin, Max: capMax})
	if spend.Empty() {
		return SearchState{}, false
	}

	route := make([]int, len(state.RouteOrderIDs)+1)
	copy(route, state.RouteOrderIDs)
	route[len(route)-1] = seg.OrderID

	nodes := make([]string, len(state.RouteNodes)+1)
	copy(nodes, state.RouteNodes)
	nodes[len(nodes)-1] = to

	return SearchState{
		Currency:      to,
		Yield:         state.Yield.Mul(seg.Rate),
		Hops:          state.Hops + 1,
		Spend:         spend,
		DesiredSpend:  state.DesiredSpend,
		RouteNodes:    nodes,
		RouteOrderIDs: route,
	}, true
}

// dominanceIndex is the state registry keyed by SearchStateSignature
// (§3/§4.3 step 4): at most one record survives per signature, the one
// with the smallest (cost, hops, route signature) composite key. A new
// state is dropped if the existing record at the same signature already
// has a strictly smaller key; otherwise it replaces the existing record.
type dominanceIndex struct {
	records map[string]domRecord
}

type domRecord struct {
	cost           decimal.Decimal
	hops           int
	routeSignature string
}

func newDominanceIndex() *dominanceIndex {
	return &dominanceIndex{records: make(map[string]domRecord)}
}

// offer reports whether the state at the given signature survives
// dominance and should be expanded/pushed.
func (d *dominanceIndex) offer(sig string, cost decimal.Decimal, hops int, routeSignature string) bool {
	existing, ok := d.records[sig]
	if ok && dominates(existing.cost, existing.hops, existing.routeSignature, cost, hops, routeSignature) {
		return false
	}
	d.records[sig] = domRecord{cost: cost, hops: hops, routeSignature: routeSignature}
	return true
}

// dominates reports whether (aCost, aHops, aRoute) is strictly smaller
// than (bCost, bHops, bRoute) under the cascade: lower cost, then fewer
// hops, then lexicographically smaller route signature.
func dominates(aCost decimal.Decimal, aHops int, aRoute string, bCost decimal.Decimal, bHops int, bRoute string) bool {
	if c := decimal.Compare(aCost, bCost); c != 0 {
		return c < 0
	}
	if aHops != bHops {
		return aHops < bHops
	}
	return aRoute < bRoute
}

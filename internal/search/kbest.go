package search

import (
	"sort"
	"strconv"
	"strings"

	"github.com/mExOms/pathfinder/internal/graph"
	"github.com/mExOms/pathfinder/internal/guard"
)

// KBestRequest configures a diversified top-K search: a base
// PathSearchRequest rerun across successive rounds, each excluding the
// orders already claimed by a previously accepted route, so the final set
// favors route diversity over repeatedly reusing the single cheapest
// order chain.
type KBestRequest struct {
	Base   PathSearchRequest
	Rounds int
}

// KBestOutcome is the result of a SearchKBest run: the deduplicated,
// best-first ordered states collected across every round, and the guard
// report from the round that consumed the most of its budget.
type KBestOutcome struct {
	States []SearchState
	Guards guard.SearchGuardReport
}

// SearchKBest runs req.Base repeatedly over g, excluding the order IDs
// used by every previously accepted route (graph.WithoutOrders) before
// each rerun, merging each round's states into a single best-first
// ordered top-K deduplicated by RouteFingerprint. It stops early once a
// round finds no new route or req.Rounds reruns have executed.
//
// This complements with_order_penalties (a single search softly
// discouraging reuse): SearchKBest hard-excludes, so a route accepted in
// one round shares no order with any route accepted in an earlier round
// (routes returned by the same round may share orders), at the cost of
// needing one engine run per round.
func (e *Engine) SearchKBest(g *graph.Graph, req KBestRequest) (KBestOutcome, error) {
	rounds := req.Rounds
	if rounds <= 0 {
		rounds = 1
	}

	seen := make(map[string]struct{})
	var merged []SearchState
	var worstReport guard.SearchGuardReport
	excluded := make(map[int]struct{})
	residual := g

	for round := 0; round < rounds; round++ {
		outcome, err := e.Search(residual, req.Base)
		if err != nil {
			return KBestOutcome{}, err
		}
		if outcome.Guards.ExpansionsUsed > worstReport.ExpansionsUsed {
			worstReport = outcome.Guards
		}

		newInRound := 0
		for _, state := range outcome.States {
			sig := RouteFingerprint(state.RouteOrderIDs)
			if _, dup := seen[sig]; dup {
				continue
			}
			seen[sig] = struct{}{}
			merged = append(merged, state)
			newInRound++
			for _, id := range state.RouteOrderIDs {
				excluded[id] = struct{}{}
			}
		}
		if newInRound == 0 {
			break
		}
		residual = graph.WithoutOrders(residual, excluded)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return Less(KeyOf(merged[i]), KeyOf(merged[j]))
	})
	if len(merged) > req.Base.ResultLimit {
		merged = merged[:req.Base.ResultLimit]
	}

	return KBestOutcome{States: merged, Guards: worstReport}, nil
}

// RouteFingerprint renders routeOrderIDs as a comma-joined list of backing
// order IDs, for callers that want to compare routes by the orders they
// draw on without constructing a full SearchState.
func RouteFingerprint(routeOrderIDs []int) string {
	ids := make([]string, len(routeOrderIDs))
	for i, id := range routeOrderIDs {
		ids[i] = strconv.Itoa(id)
	}
	return strings.Join(ids, ",")
}

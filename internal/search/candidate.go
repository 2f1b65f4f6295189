package search

import "github.com/mExOms/pathfinder/internal/decimal"

// CandidatePath is the terminal-state snapshot the engine hands to an
// external materializer: everything needed to replay the route and render
// a result, decoupled from the live SearchState (whose Spend range keeps
// narrowing while the search is still running).
type CandidatePath struct {
	Cost          decimal.Decimal
	Yield         decimal.Decimal
	Hops          int
	RouteOrderIDs []int
	Spend         SpendRange
}

// NewCandidatePath snapshots a terminal SearchState into a CandidatePath.
func NewCandidatePath(s SearchState) CandidatePath {
	return CandidatePath{
		Cost:          s.Cost(),
		Yield:         s.Yield,
		Hops:          s.Hops,
		RouteOrderIDs: append([]int(nil), s.RouteOrderIDs...),
		Spend:         s.Spend,
	}
}

package search

import (
	"github.com/mExOms/pathfinder/internal/decimal"
)

// PathOrderKey is the total ordering the search priority queue and the
// final result ordering both use: lower cost first, then fewer hops, then
// lexicographically smaller route signature, then earlier insertion order.
// The last two fields exist purely to make the ordering deterministic:
// container/heap is not stable, and two distinct routes can legitimately
// tie on cost and hop count.
type PathOrderKey struct {
	Cost           decimal.Decimal
	Hops           int
	RouteSignature string
	InsertionOrder int64
}

// KeyOf derives the ordering key for a state.
func KeyOf(s SearchState) PathOrderKey {
	return PathOrderKey{
		Cost:           s.Cost(),
		Hops:           s.Hops,
		RouteSignature: s.RouteSignature(),
		InsertionOrder: s.InsertionOrder,
	}
}

// Less reports whether a sorts before b under the cascade: cost, then
// hops, then route signature, then insertion order.
func Less(a, b PathOrderKey) bool {
	if c := decimal.Compare(a.Cost, b.Cost); c != 0 {
		return c < 0
	}
	if a.Hops != b.Hops {
		return a.Hops < b.Hops
	}
	if a.RouteSignature != b.RouteSignature {
		return a.RouteSignature < b.RouteSignature
	}
	return a.InsertionOrder < b.InsertionOrder
}

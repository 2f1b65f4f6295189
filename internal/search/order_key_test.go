package search

import (
	"testing"

	"github.com/mExOms/pathfinder/internal/decimal"
	"github.com/stretchr/testify/assert"
)

func state(cost string, hops int, route []int, insertion int64) SearchState {
	yield, err := decimal.Div(decimal.One(), decimal.MustParse(cost), decimal.WorkingScale)
	if err != nil {
		panic(err)
	}
	nodes := make([]string, len(route))
	for i, id := range route {
		nodes[i] = string(rune('A' + id))
	}
	return SearchState{Currency: "X", Yield: yield, Hops: hops, RouteOrderIDs: route, RouteNodes: nodes, InsertionOrder: insertion}
}

func TestLess_OrdersByCostFirst(t *testing.T) {
	cheap := state("1.0", 5, []int{9}, 0)
	expensive := state("2.0", 1, []int{1}, 100)
	assert.True(t, Less(KeyOf(cheap), KeyOf(expensive)))
}

func TestLess_TiesBreakByHopsThenRouteThenInsertion(t *testing.T) {
	a := state("1.0", 1, []int{2}, 5)
	b := state("1.0", 2, []int{1}, 0)
	assert.True(t, Less(KeyOf(a), KeyOf(b)), "fewer hops should win despite later insertion")

	c := state("1.0", 1, []int{1}, 10)
	d := state("1.0", 1, []int{2}, 0)
	assert.True(t, Less(KeyOf(c), KeyOf(d)), "lexicographically smaller route signature should win")

	e := state("1.0", 1, []int{1}, 0)
	f := state("1.0", 1, []int{1}, 1)
	assert.True(t, Less(KeyOf(e), KeyOf(f)), "earlier insertion order should win once all else ties")
}

package graph

import (
	"fmt"

	"github.com/mExOms/pathfinder/internal/errs"
	"github.com/mExOms/pathfinder/pkg/xchange"
)

// RouteStep is one hop of a replayed route: the order crossed, the
// currencies it connects, and the money it converted.
type RouteStep struct {
	OrderID  int
	Order    xchange.Order
	From     string
	To       string
	Spend    xchange.Money
	Received xchange.Money
	Fees     xchange.FeeBreakdown
}

// OrderIndex maps OrderID to the backing Order for every segment reachable
// in g, by scanning each node's edges once. Used by route-replay code that
// only carries the route's order IDs (as a SearchState does) and needs the
// full Order back to compute fees.
func OrderIndex(g *Graph) map[int]xchange.Order {
	idx := make(map[int]xchange.Order)
	for _, currency := range g.Currencies() {
		node := g.Node(currency)
		for _, edge := range node.Edges {
			for _, seg := range edge.Segments {
				idx[seg.OrderID] = seg.Order
			}
		}
	}
	return idx
}

// Direction exposes the From/To currency pair builder.Build derives for an
// order, for callers outside this package that need to replay a route
// (the execution-plan engine, result materialization).
func Direction(order xchange.Order) (from, to string, err error) {
	return direction(order)
}

// ReplayRoute applies, in order, the orders named by routeOrderIDs to an
// initial spend of start-currency money, producing the per-hop fill
// amounts a materializer (PathResult legs, portfolio Fills) needs. It
// fails if a route ID is absent from g or the route is discontinuous (an
// order's From currency does not match the running spend currency).
func ReplayRoute(g *Graph, start string, routeOrderIDs []int, spend xchange.Money) ([]RouteStep, error) {
	index := OrderIndex(g)
	steps := make([]RouteStep, 0, len(routeOrderIDs))
	currency := start
	current := spend
	for _, id := range routeOrderIDs {
		order, ok := index[id]
		if !ok {
			return nil, fmt.Errorf("%w: order %d not present in graph", errs.ErrInvalidInput, id)
		}
		from, to, err := direction(order)
		if err != nil {
			return nil, err
		}
		if from != currency {
			return nil, fmt.Errorf("%w: route discontinuity at order %d: expected spend currency %s, got %s", errs.ErrInvalidInput, id, from, currency)
		}
		received, fees, err := order.Convert(current)
		if err != nil {
			return nil, err
		}
		steps = append(steps, RouteStep{
			OrderID:  id,
			Order:    order,
			From:     from,
			To:       to,
			Spend:    current,
			Received: received,
			Fees:     fees,
		})
		currency = to
		current = received
	}
	return steps, nil
}

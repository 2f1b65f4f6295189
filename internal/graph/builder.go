package graph

import (
	"fmt"
	"sort"

	"github.com/mExOms/pathfinder/internal/decimal"
	"github.com/mExOms/pathfinder/internal/errs"
	"github.com/mExOms/pathfinder/pkg/xchange"
)

// GraphBuilder constructs a Graph from a flat order book. AllowTransfers
// permits base==quote orders (an account-to-account transfer rather than a
// conversion); the plain path-search engine leaves this false, while a
// caller building a graph for the execution-plan engine may set it true.
type GraphBuilder struct {
	AllowTransfers bool
}

// NewGraphBuilder returns a builder rejecting transfer orders, the default
// used by the path-search engine.
func NewGraphBuilder() *GraphBuilder {
	return &GraphBuilder{AllowTransfers: false}
}

// Build assigns each order a stable index-based OrderID (its position in
// orders) and arranges them into a Graph. Orders sharing an economic
// fingerprint (pair, side, rate, fee policy) are coalesced so the search
// engine sees one representative segment per distinct offer. The merged
// segment's capacity combines every coalesced order, but its OrderID and
// Order are those of the first one; the other orders' IDs are not kept.
func (b *GraphBuilder) Build(orders []xchange.Order) (*Graph, error) {
	g := NewGraph()
	type bucketKey struct {
		from, to, fingerprint string
	}
	buckets := make(map[bucketKey]*EdgeSegment)
	bucketOrder := make([]bucketKey, 0)
	segmentOrderIDs := make(map[bucketKey][]int)

	for idx, order := range orders {
		if order.Pair.IsTransfer() && !b.AllowTransfers {
			return nil, fmt.Errorf("%w: transfer order (base==quote %q) not permitted in this graph", errs.ErrInvalidInput, order.Pair.Base)
		}
		from, to, err := direction(order)
		if err != nil {
			return nil, err
		}
		rate, err := effectiveRate(order)
		if err != nil {
			return nil, err
		}
		capacity, err := segmentCapacity(order)
		if err != nil {
			return nil, err
		}

		key := bucketKey{from: from, to: to, fingerprint: order.Fingerprint()}
		if existing, ok := buckets[key]; ok {
			existing.Capacity = existing.Capacity.add(capacity)
			segmentOrderIDs[key] = append(segmentOrderIDs[key], idx)
			continue
		}
		seg := &EdgeSegment{
			OrderID:  idx,
			Order:    order,
			Rate:     rate,
			Capacity: capacity,
		}
		buckets[key] = seg
		bucketOrder = append(bucketOrder, key)
		segmentOrderIDs[key] = []int{idx}
	}

	edgesByPair := make(map[[2]string]*GraphEdge)
	edgePairOrder := make([][2]string, 0)
	for _, key := range bucketOrder {
		pairKey := [2]string{key.from, key.to}
		edge, ok := edgesByPair[pairKey]
		if !ok {
			edge = &GraphEdge{From: key.from, To: key.to}
			edgesByPair[pairKey] = edge
			edgePairOrder = append(edgePairOrder, pairKey)
		}
		edge.Segments = append(edge.Segments, *buckets[key])
	}

	for _, pairKey := range edgePairOrder {
		edge := edgesByPair[pairKey]
		sortSegmentsByRateDesc(edge.Segments)
		node := g.getOrCreateNode(pairKey[0])
		g.getOrCreateNode(pairKey[1])
		node.Edges = append(node.Edges, *edge)
	}

	return g, nil
}

// sortSegmentsByRateDesc orders segments best-rate-first, breaking ties by
// OrderID so the ordering never depends on map iteration.
func sortSegmentsByRateDesc(segments []EdgeSegment) {
	sort.SliceStable(segments, func(i, j int) bool {
		cmp := decimal.Compare(segments[i].Rate, segments[j].Rate)
		if cmp != 0 {
			return cmp > 0
		}
		return segments[i].OrderID < segments[j].OrderID
	})
}

func direction(order xchange.Order) (from, to string, err error) {
	switch order.Side {
	case xchange.Sell:
		return order.Pair.Base, order.Pair.Quote, nil
	case xchange.Buy:
		return order.Pair.Quote, order.Pair.Base, nil
	default:
		return "", "", fmt.Errorf("%w: unknown order side %q", errs.ErrInvalidInput, order.Side)
	}
}

// effectiveRate returns the To-per-From rate of order in the direction it
// flows: a Sell order's rate is already base->quote; a Buy order's rate
// must be inverted to read quote->base.
func effectiveRate(order xchange.Order) (decimal.Decimal, error) {
	if order.Side == xchange.Sell {
		return order.Rate.Rate, nil
	}
	inv, err := order.Rate.Invert()
	if err != nil {
		return decimal.Decimal{}, err
	}
	return inv.Rate, nil
}

// segmentCapacity projects order's base-currency bounds onto all three
// capacity measures (§4.2): the raw base interval, the quote interval
// (effective_quote_amount, net of any quote-side fee) and the gross-base
// interval (gross_base_amount, inclusive of any base-side fee). Mandatory
// is set whenever the order's own floor is above zero — a lot that cannot
// be partially filled below it, regardless of which measure a caller later
// consults.
func segmentCapacity(order xchange.Order) (EdgeCapacity, error) {
	quoteMin, err := order.EffectiveQuoteAmount(order.Bounds.Min)
	if err != nil {
		return EdgeCapacity{}, err
	}
	quoteMax, err := order.EffectiveQuoteAmount(order.Bounds.Max)
	if err != nil {
		return EdgeCapacity{}, err
	}
	grossMin, err := order.GrossBaseAmount(order.Bounds.Min)
	if err != nil {
		return EdgeCapacity{}, err
	}
	grossMax, err := order.GrossBaseAmount(order.Bounds.Max)
	if err != nil {
		return EdgeCapacity{}, err
	}
	return EdgeCapacity{
		Base:      CapacityInterval{Min: order.Bounds.Min.Amount, Max: order.Bounds.Max.Amount},
		Quote:     CapacityInterval{Min: quoteMin.Amount, Max: quoteMax.Amount},
		GrossBase: CapacityInterval{Min: grossMin.Amount, Max: grossMax.Amount},
		Mandatory: order.Bounds.Min.Amount.IsPositive(),
	}, nil
}

// WithoutOrders returns a new Graph excluding the given order IDs, dropping
// any edge left with no segments. Used by the execution-plan engine to
// re-search a residual graph after committing a path.
func WithoutOrders(g *Graph, excluded map[int]struct{}) *Graph {
	out := NewGraph()
	for _, currency := range g.Currencies() {
		node := g.Node(currency)
		out.getOrCreateNode(currency)
		for _, edge := range node.Edges {
			var kept []EdgeSegment
			for _, seg := range edge.Segments {
				if _, skip := excluded[seg.OrderID]; skip {
					continue
				}
				kept = append(kept, seg)
			}
			if len(kept) == 0 {
				continue
			}
			n := out.getOrCreateNode(edge.From)
			out.getOrCreateNode(edge.To)
			n.Edges = append(n.Edges, GraphEdge{From: edge.From, To: edge.To, Segments: kept})
		}
	}
	return out
}

// WithOrderPenalties returns a new Graph whose segment rates are degraded
// in proportion to how many times each backing order has already appeared
// in a result, so a re-run of the search surfaces a diversified next-best
// path instead of repeating the same route. usageCounts maps OrderID to
// the number of prior appearances; the adjusted rate is
// conversion_rate * penalty_factor^usage_count.
func WithOrderPenalties(g *Graph, usageCounts map[int]int, penaltyFactor decimal.Decimal) (*Graph, error) {
	out := NewGraph()
	for _, currency := range g.Currencies() {
		node := g.Node(currency)
		out.getOrCreateNode(currency)
		for _, edge := range node.Edges {
			segments := make([]EdgeSegment, 0, len(edge.Segments))
			for _, seg := range edge.Segments {
				count := usageCounts[seg.OrderID]
				rate := seg.Rate
				if count > 0 {
					rate = rate.Mul(penaltyFactor.Pow(int64(count)))
				}
				seg.Rate = rate
				segments = append(segments, seg)
			}
			sortSegmentsByRateDesc(segments)
			n := out.getOrCreateNode(edge.From)
			out.getOrCreateNode(edge.To)
			n.Edges = append(n.Edges, GraphEdge{From: edge.From, To: edge.To, Segments: segments})
		}
	}
	return out, nil
}

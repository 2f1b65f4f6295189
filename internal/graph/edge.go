// Package graph builds the directed multigraph the search engine walks:
// nodes are currencies, edges are directed conversions backed by one or
// more orders.
package graph

import (
	"github.com/mExOms/pathfinder/internal/decimal"
	"github.com/mExOms/pathfinder/pkg/xchange"
)

// CapacityInterval is an inclusive [Min, Max] amount range expressed in one
// of a segment's three measures.
type CapacityInterval struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// add returns the interval covering both i and other, matching the
// builder's coalescing rule: the lower bound of a merged mandatory lot is
// the smaller of the two floors, the upper bound is the sum of both caps.
func (i CapacityInterval) add(other CapacityInterval) CapacityInterval {
	return CapacityInterval{Min: decimal.Min(i.Min, other.Min), Max: i.Max.Add(other.Max)}
}

// CapacityMeasure selects which of a segment's three capacity projections
// to consult (§4.2): the underlying order's own base-currency bounds, the
// quote-currency amount those bounds yield net of any quote-side fee, or
// the base-currency amount they actually consume once a base-side fee is
// added on top.
type CapacityMeasure int

const (
	MeasureBase CapacityMeasure = iota
	MeasureQuote
	MeasureGrossBase
)

// EdgeCapacity is the three capacity intervals a segment (or a coalesced
// group of same-fingerprint segments) presents, plus whether a non-zero
// mandatory floor makes it an all-or-nothing lot rather than freely
// partial (§4.2).
type EdgeCapacity struct {
	Base      CapacityInterval
	Quote     CapacityInterval
	GrossBase CapacityInterval
	Mandatory bool
}

// Interval returns the capacity interval for the requested measure.
func (c EdgeCapacity) Interval(measure CapacityMeasure) CapacityInterval {
	switch measure {
	case MeasureQuote:
		return c.Quote
	case MeasureGrossBase:
		return c.GrossBase
	default:
		return c.Base
	}
}

// add merges other into c, combining each of the three measures and
// keeping Mandatory true if either side was mandatory.
func (c EdgeCapacity) add(other EdgeCapacity) EdgeCapacity {
	return EdgeCapacity{
		Base:      c.Base.add(other.Base),
		Quote:     c.Quote.add(other.Quote),
		GrossBase: c.GrossBase.add(other.GrossBase),
		Mandatory: c.Mandatory || other.Mandatory,
	}
}

// SpendMeasure is the measure a segment's From-currency is denominated in:
// base for a Sell edge (From is Pair.Base), quote for a Buy edge (From is
// Pair.Quote, net of any quote-side fee). This is the measure the search
// engine's range-carry intersects against (§4.3 step 5b).
func SpendMeasure(side xchange.Side) CapacityMeasure {
	if side == xchange.Buy {
		return MeasureQuote
	}
	return MeasureBase
}

// MandatoryMeasure is the measure a segment's mandatory floor is
// reconciled against: gross_base for BUY, quote for SELL (§4.3 step 5a) —
// in both cases the edge's To-currency, fee-adjusted the way the order's
// own economics charge that leg.
func MandatoryMeasure(side xchange.Side) CapacityMeasure {
	if side == xchange.Buy {
		return MeasureGrossBase
	}
	return MeasureQuote
}

// EdgeSegment is one order's contribution to a GraphEdge. OrderID is a
// stable, deterministic index assigned at graph-build time — it is never
// derived from the order's contents, only from build order — so the
// portfolio engine can track "this order has been used" across a search.
type EdgeSegment struct {
	OrderID  int
	Order    xchange.Order
	Capacity EdgeCapacity
	// Rate is the effective To-per-From rate this segment offers, in the
	// edge's direction (which may be the order's rate or its inverse).
	Rate decimal.Decimal
}

// GraphEdge is a directed conversion from one currency to another, backed
// by one or more order-derived segments. Segments are kept sorted with the
// best (highest) rate first so the search engine explores the cheapest
// offer at a node before its alternatives.
type GraphEdge struct {
	From     string
	To       string
	Segments []EdgeSegment
}

// CapacityTotals aggregates measure across every segment of e, rendered at
// scale: the mandatory total is the sum of the lower bound of every
// segment whose Capacity.Mandatory is set, and the maximum total is the
// sum of the upper bound across all segments regardless of mandatory
// status (§3 glossary, EdgeSegment/EdgeCapacity).
func (e GraphEdge) CapacityTotals(measure CapacityMeasure, scale int32) (min, max decimal.Decimal) {
	min, max = decimal.Zero(), decimal.Zero()
	for _, seg := range e.Segments {
		iv := seg.Capacity.Interval(measure)
		if seg.Capacity.Mandatory {
			min = min.Add(iv.Min)
		}
		max = max.Add(iv.Max)
	}
	return decimal.Normalize(min, scale), decimal.Normalize(max, scale)
}

// CapacityScale returns decimal.WorkingScale for every measure. The
// capacity intervals themselves are stored at the scales of the order
// amounts they were derived from, not normalized to this scale; it exists
// as its own method because callers should consult it rather than assume
// the constant.
func (e GraphEdge) CapacityScale(measure CapacityMeasure) int32 {
	return decimal.WorkingScale
}

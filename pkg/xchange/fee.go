package xchange

import "fmt"

// FeeBreakdown splits an order's fee into a base-currency component and a
// quote-currency component. A nil component means that currency carries no
// fee at all (absence, not a zero charge that still participates in
// merges as a typed value).
type FeeBreakdown struct {
	BaseFee  *Money
	QuoteFee *Money
}

// HasBaseFee reports whether a non-zero base-currency fee is present.
func (f FeeBreakdown) HasBaseFee() bool {
	return f.BaseFee != nil && !f.BaseFee.IsZero()
}

// HasQuoteFee reports whether a non-zero quote-currency fee is present.
func (f FeeBreakdown) HasQuoteFee() bool {
	return f.QuoteFee != nil && !f.QuoteFee.IsZero()
}

// Merge combines two fee breakdowns additively, component by component.
// Currencies must match wherever both sides carry the same component.
func (f FeeBreakdown) Merge(other FeeBreakdown) (FeeBreakdown, error) {
	base, err := mergeComponent(f.BaseFee, other.BaseFee)
	if err != nil {
		return FeeBreakdown{}, fmt.Errorf("merging base fee: %w", err)
	}
	quote, err := mergeComponent(f.QuoteFee, other.QuoteFee)
	if err != nil {
		return FeeBreakdown{}, fmt.Errorf("merging quote fee: %w", err)
	}
	return FeeBreakdown{BaseFee: base, QuoteFee: quote}, nil
}

func mergeComponent(a, b *Money) (*Money, error) {
	switch {
	case a == nil && b == nil:
		return nil, nil
	case a == nil:
		m := *b
		return &m, nil
	case b == nil:
		m := *a
		return &m, nil
	default:
		sum, err := a.Add(*b)
		if err != nil {
			return nil, err
		}
		return &sum, nil
	}
}

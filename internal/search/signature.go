package search

import (
	"fmt"
	"strings"

	"github.com/mExOms/pathfinder/internal/decimal"
	"github.com/mExOms/pathfinder/internal/errs"
)

// nullToken is the literal encoding of an absent range/amount segment.
const nullToken = "null"

// SearchStateSignature is the stable registry key for a partial path: a
// `|`-delimited sequence of `label:value` segments over the current node,
// the feasible spend range, and the originally requested spend amount.
// Two states with the same signature are deduplicated against each other.
type SearchStateSignature struct {
	value string
}

// ComposeSignature builds the registry key from a node, its feasible
// spend range (nil if none), and the originally requested spend amount
// (nil if none). A nil range/amount encodes as the literal token "null";
// a present range encodes as "currency:min:max:scale", a present amount
// as "currency:amount:scale", both rendered at decimal.WorkingScale.
func ComposeSignature(node string, amountRange *SpendRange, desired *decimal.Decimal) SearchStateSignature {
	segments := []string{
		"node:" + node,
		"range:" + encodeRange(amountRange),
		"desired:" + encodeMoney(amountRange, desired),
	}
	return SearchStateSignature{value: strings.Join(segments, "|")}
}

// encodeRange renders r as "currency:min:max:scale", or the null token if
// r is nil.
func encodeRange(r *SpendRange) string {
	if r == nil {
		return nullToken
	}
	return fmt.Sprintf("%s:%s:%s:%d",
		r.Currency,
		r.Min.RenderAtScale(decimal.WorkingScale),
		r.Max.RenderAtScale(decimal.WorkingScale),
		decimal.WorkingScale,
	)
}

// encodeMoney renders amount as "currency:amount:scale", taking its
// currency from r (the desired amount is always denominated in the same
// start currency as the carried spend range), or the null token if amount
// or r is nil.
func encodeMoney(r *SpendRange, amount *decimal.Decimal) string {
	if r == nil || amount == nil {
		return nullToken
	}
	return fmt.Sprintf("%s:%s:%d", r.Currency, amount.RenderAtScale(decimal.WorkingScale), decimal.WorkingScale)
}

// Value returns the signature's canonical string encoding.
func (s SearchStateSignature) Value() string { return s.value }

// String implements fmt.Stringer.
func (s SearchStateSignature) String() string { return s.value }

// SignatureFromString parses the encoding ComposeSignature/Value produce,
// round-tripping exactly. It exists so signatures can be logged, persisted
// in a guard report, and parsed back for diagnostics without re-deriving
// them from a live SearchState.
func SignatureFromString(encoded string) (SearchStateSignature, error) {
	segments := strings.Split(encoded, "|")
	for _, segment := range segments {
		trimmed := strings.TrimSpace(segment)
		if trimmed == "" {
			return SearchStateSignature{}, fmt.Errorf("%w: blank segment in search state signature %q", errs.ErrInvalidInput, encoded)
		}
		label, value, ok := strings.Cut(trimmed, ":")
		if !ok || label == "" || value == "" {
			return SearchStateSignature{}, fmt.Errorf("%w: malformed segment %q in search state signature %q", errs.ErrInvalidInput, segment, encoded)
		}
		if strings.Contains(label, "|") || strings.Contains(value, "|") {
			return SearchStateSignature{}, fmt.Errorf("%w: stray delimiter in search state signature %q", errs.ErrInvalidInput, encoded)
		}
	}
	return SearchStateSignature{value: encoded}, nil
}

// Package decimal is the arbitrary-precision decimal kernel the rest of the
// engine builds on. It wraps github.com/shopspring/decimal — the same
// library the teacher repo uses for every money/ratio/fee value — behind a
// narrow, explicit-scale API so every call site states the rounding policy
// it wants instead of relying on a library default.
//
// Arithmetic (Add/Sub/Mul) is exact; the only rounding site is Normalize,
// which always rounds half away from zero (shopspring's Round already
// implements that rule, so Normalize(0.5, 0) == 1 and Normalize(-0.5, 0) ==
// -1, matching across scales symmetrically).
package decimal

import (
	"fmt"
	"strings"

	"github.com/mExOms/pathfinder/internal/errs"
	sdecimal "github.com/shopspring/decimal"
)

// WorkingScale is the canonical scale costs, ratios and products are
// normalized to for comparison and storage.
const WorkingScale int32 = 18

// RatioExtraScale is the transient precision lifted above WorkingScale
// during multi-step ratio operations (e.g. conversion-rate composition)
// before a final Normalize back to WorkingScale.
const RatioExtraScale int32 = 4

// SumExtraScale is the transient precision lifted above WorkingScale during
// multi-step summation (e.g. aggregating segment capacities).
const SumExtraScale int32 = 2

// Decimal is a signed arbitrary-precision value. The zero value is not
// meaningful; use Zero().
type Decimal struct {
	d sdecimal.Decimal
}

// Zero returns the additive identity.
func Zero() Decimal { return Decimal{d: sdecimal.Zero} }

// One returns the multiplicative identity.
func One() Decimal { return Decimal{d: sdecimal.NewFromInt(1)} }

// FromInt builds a Decimal from an integer.
func FromInt(v int64) Decimal { return Decimal{d: sdecimal.NewFromInt(v)} }

// Parse parses a decimal literal. Malformed input is ErrInvalidInput — the
// engine never accepts floating-point literals with exponents like "1e10"
// silently mutating precision, so exponential notation is rejected.
func Parse(s string) (Decimal, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Decimal{}, fmt.Errorf("%w: empty decimal literal", errs.ErrInvalidInput)
	}
	if strings.ContainsAny(trimmed, "eE") {
		return Decimal{}, fmt.Errorf("%w: exponential notation not permitted: %q", errs.ErrInvalidInput, s)
	}
	d, err := sdecimal.NewFromString(trimmed)
	if err != nil {
		return Decimal{}, fmt.Errorf("%w: malformed decimal %q: %v", errs.ErrInvalidInput, s, err)
	}
	return Decimal{d: d}, nil
}

// MustParse parses s and panics on error. Reserved for literals known at
// compile time (tests, defaults).
func MustParse(s string) Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Add returns a+b, exact.
func (a Decimal) Add(b Decimal) Decimal { return Decimal{d: a.d.Add(b.d)} }

// Sub returns a-b, exact.
func (a Decimal) Sub(b Decimal) Decimal { return Decimal{d: a.d.Sub(b.d)} }

// Mul returns a*b, exact.
func (a Decimal) Mul(b Decimal) Decimal { return Decimal{d: a.d.Mul(b.d)} }

// Div returns a/b rounded half-up to scale. Division by zero is
// ErrInvalidInput, never a panic or an infinity value.
func Div(a, b Decimal, scale int32) (Decimal, error) {
	if b.IsZero() {
		return Decimal{}, fmt.Errorf("%w: division by zero", errs.ErrInvalidInput)
	}
	return Decimal{d: a.d.DivRound(b.d, scale)}, nil
}

// Pow returns a^n for n >= 0 via exact repeated multiplication.
func (a Decimal) Pow(n int64) Decimal {
	if n < 0 {
		panic("decimal: negative exponent not supported")
	}
	result := One()
	base := a
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		n >>= 1
	}
	return result
}

// Normalize rounds d to scale fractional digits, half away from zero. It is
// the sole rounding site in the kernel.
func Normalize(d Decimal, scale int32) Decimal {
	return Decimal{d: d.d.Round(scale)}
}

// ToScale is an alias for Normalize, named for parity with spec language.
func (a Decimal) ToScale(scale int32) Decimal { return Normalize(a, scale) }

// Compare returns -1, 0 or 1 as a is less than, equal to, or greater than b,
// exact (no pre-normalization).
func Compare(a, b Decimal) int { return a.d.Cmp(b.d) }

// CompareAtScale normalizes both operands to scale before comparing, which
// is what preserves tie-breaking semantics in the search engine's ordering.
func CompareAtScale(a, b Decimal, scale int32) int {
	return Compare(Normalize(a, scale), Normalize(b, scale))
}

// IsZero reports whether d == 0.
func (a Decimal) IsZero() bool { return a.d.IsZero() }

// IsPositive reports whether d > 0.
func (a Decimal) IsPositive() bool { return a.d.IsPositive() }

// IsNegative reports whether d < 0.
func (a Decimal) IsNegative() bool { return a.d.IsNegative() }

// RenderAtScale renders d as a fixed-point string with exactly scale
// fractional digits, rounding half-up if d carries more precision.
func (a Decimal) RenderAtScale(scale int32) string {
	return a.d.StringFixed(scale)
}

// String renders d at its natural precision (no padding/rounding).
func (a Decimal) String() string { return a.d.String() }

// Min returns the smaller of a and b.
func Min(a, b Decimal) Decimal {
	if Compare(a, b) <= 0 {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max(a, b Decimal) Decimal {
	if Compare(a, b) >= 0 {
		return a
	}
	return b
}

// Neg returns -d.
func (a Decimal) Neg() Decimal { return Decimal{d: a.d.Neg()} }

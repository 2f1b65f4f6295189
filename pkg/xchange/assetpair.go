package xchange

import (
	"fmt"

	"github.com/mExOms/pathfinder/internal/errs"
)

// AssetPair names the base and quote currency of an order or rate. Base and
// quote must differ unless the pair is explicitly constructed as a transfer
// pair (same currency moved between venues/accounts, used only by the
// execution-plan engine).
type AssetPair struct {
	Base  string
	Quote string
}

// NewAssetPair validates and constructs an AssetPair. allowTransfer permits
// Base == Quote; callers outside the execution-plan engine should pass false.
func NewAssetPair(base, quote string, allowTransfer bool) (AssetPair, error) {
	if err := validateCurrency(base); err != nil {
		return AssetPair{}, err
	}
	if err := validateCurrency(quote); err != nil {
		return AssetPair{}, err
	}
	if base == quote && !allowTransfer {
		return AssetPair{}, fmt.Errorf("%w: base and quote currency must differ, got %q", errs.ErrInvalidInput, base)
	}
	return AssetPair{Base: base, Quote: quote}, nil
}

// IsTransfer reports whether base and quote are the same currency.
func (p AssetPair) IsTransfer() bool { return p.Base == p.Quote }

// Inverted swaps base and quote.
func (p AssetPair) Inverted() AssetPair { return AssetPair{Base: p.Quote, Quote: p.Base} }

// String renders the pair as "BASE/QUOTE".
func (p AssetPair) String() string { return fmt.Sprintf("%s/%s", p.Base, p.Quote) }

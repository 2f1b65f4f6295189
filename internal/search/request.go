package search

import (
	"github.com/mExOms/pathfinder/internal/decimal"
	"github.com/mExOms/pathfinder/internal/guard"
)

// PathSearchRequest is the fully validated input to Engine.Search. Build
// one with PathSearchConfig rather than constructing it directly.
type PathSearchRequest struct {
	StartCurrency  string
	TargetCurrency string
	SpendAmount    decimal.Decimal
	ToleranceMin   decimal.Decimal
	ToleranceMax   decimal.Decimal
	MinHops        int
	MaxHops        int
	ResultLimit    int
	Guards         guard.SearchGuards
}

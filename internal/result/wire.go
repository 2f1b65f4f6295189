package result

import (
	"encoding/json"

	"github.com/mExOms/pathfinder/internal/guard"
	"github.com/mExOms/pathfinder/pkg/xchange"
)

type moneyWire struct {
	Currency string `json:"currency"`
	Amount   string `json:"amount"`
	Scale    int32  `json:"scale"`
}

func moneyToWire(m xchange.Money) moneyWire {
	return moneyWire{Currency: m.Currency, Amount: m.Amount.RenderAtScale(m.Scale), Scale: m.Scale}
}

func feeMapToWire(fees map[string]xchange.Money) map[string]moneyWire {
	out := make(map[string]moneyWire, len(fees))
	for currency, m := range fees {
		out[currency] = moneyToWire(m)
	}
	return out
}

type pathLegWire struct {
	From     string               `json:"from"`
	To       string               `json:"to"`
	Spent    moneyWire            `json:"spent"`
	Received moneyWire            `json:"received"`
	Fees     map[string]moneyWire `json:"fees"`
}

type pathResultWire struct {
	TotalSpent        moneyWire            `json:"totalSpent"`
	TotalReceived     moneyWire            `json:"totalReceived"`
	ResidualTolerance string               `json:"residualTolerance"`
	FeeBreakdown      map[string]moneyWire `json:"feeBreakdown"`
	Legs              []pathLegWire        `json:"legs"`
}

// MarshalJSON renders the result in the wire shape spec.md §6 documents:
// money objects at an explicit scale and residualTolerance rendered at
// working scale.
func (p PathResult) MarshalJSON() ([]byte, error) {
	legs := make([]pathLegWire, 0, len(p.Legs))
	for _, leg := range p.Legs {
		legs = append(legs, pathLegWire{
			From:     leg.From,
			To:       leg.To,
			Spent:    moneyToWire(leg.Spent),
			Received: moneyToWire(leg.Received),
			Fees:     feeMapToWire(feeBreakdownToMap(leg.Fees)),
		})
	}
	return json.Marshal(pathResultWire{
		TotalSpent:        moneyToWire(p.TotalSpent),
		TotalReceived:     moneyToWire(p.TotalReceived),
		ResidualTolerance: p.ResidualTolerance.RenderAtScale(18),
		FeeBreakdown:      feeMapToWire(p.FeeBreakdown),
		Legs:              legs,
	})
}

func feeBreakdownToMap(f xchange.FeeBreakdown) map[string]xchange.Money {
	out := make(map[string]xchange.Money)
	if f.HasBaseFee() {
		out[f.BaseFee.Currency] = *f.BaseFee
	}
	if f.HasQuoteFee() {
		out[f.QuoteFee.Currency] = *f.QuoteFee
	}
	return out
}

// Outcome pairs a materialized PathResultSet with the guard report from
// the search run that produced it — the external shape spec.md §6 names
// SearchOutcome.
type Outcome struct {
	Paths       PathResultSet
	GuardLimits guard.SearchGuardReport
}

type outcomeWire struct {
	Paths       PathResultSet           `json:"paths"`
	GuardLimits guard.SearchGuardReport `json:"guardLimits"`
}

// MarshalJSON renders the outcome as {"paths": [...], "guardLimits": {...}}.
func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(outcomeWire{Paths: o.Paths, GuardLimits: o.GuardLimits})
}

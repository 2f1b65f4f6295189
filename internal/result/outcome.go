package result

import (
	"github.com/mExOms/pathfinder/internal/decimal"
	"github.com/mExOms/pathfinder/internal/graph"
	"github.com/mExOms/pathfinder/internal/search"
	"github.com/mExOms/pathfinder/pkg/xchange"
)

// BuildOutcome materializes every state in engineOutcome (already
// best-first ordered and bounded to the request's result limit) into a
// PathResultSet, using the first state's cost as the best-cost reference
// every other candidate's residual tolerance is computed against, and
// pairs it with the search's guard report.
func BuildOutcome(g *graph.Graph, req search.PathSearchRequest, engineOutcome search.SearchOutcome) (Outcome, error) {
	if len(engineOutcome.States) == 0 {
		return Outcome{Paths: NewPathResultSet(nil), GuardLimits: engineOutcome.Guards}, nil
	}

	bestCost := engineOutcome.States[0].Cost()
	spend, err := startSpend(req)
	if err != nil {
		return Outcome{}, err
	}

	results := make([]PathResult, 0, len(engineOutcome.States))
	for _, state := range engineOutcome.States {
		candidate := search.NewCandidatePath(state)
		result, err := Materialize(g, req.StartCurrency, req.TargetCurrency, spend, candidate, bestCost)
		if err != nil {
			return Outcome{}, err
		}
		results = append(results, result)
	}

	return Outcome{Paths: NewPathResultSet(results), GuardLimits: engineOutcome.Guards}, nil
}

func startSpend(req search.PathSearchRequest) (xchange.Money, error) {
	return xchange.NewMoney(req.StartCurrency, req.SpendAmount, decimal.WorkingScale)
}

package portfolio

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mExOms/pathfinder/internal/decimal"
	"github.com/mExOms/pathfinder/internal/graph"
	"github.com/mExOms/pathfinder/internal/guard"
	"github.com/mExOms/pathfinder/internal/search"
	"github.com/mExOms/pathfinder/pkg/xchange"
)

// DefaultMaxHopsPerRoute bounds the length of each individual augmenting
// path the plan engine searches for, when PlanRequest leaves it unset.
const DefaultMaxHopsPerRoute = 6

// PlanRequest is the input to Engine.Plan.
type PlanRequest struct {
	Source          string
	Target          string
	Spend           xchange.Money
	MaxHopsPerRoute int
	Guards          guard.SearchGuards
}

// Engine runs the augmenting-path execution-plan search: repeatedly find
// the best single route (via internal/search) from any currency
// currently holding a positive balance to Target, apply it, and repeat
// until the source balance is exhausted, no augmenting path remains, or a
// guard fires.
type Engine struct {
	log *logrus.Entry
}

// NewEngine returns a plan Engine with no diagnostic logging attached.
func NewEngine() *Engine { return &Engine{} }

// WithLogger attaches a diagnostic logger.
func (e *Engine) WithLogger(log *logrus.Entry) *Engine {
	e.log = log
	return e
}

// Plan produces an ExecutionPlan (possibly empty, possibly partial) for
// req over g. Insufficient aggregate liquidity yields a partial plan, not
// an error; an unknown source/target currency or a zero spend amount
// yields an empty plan, also not an error — empty results are never
// errors per spec.md §4.4/§7.
func (e *Engine) Plan(g *graph.Graph, req PlanRequest) (ExecutionPlan, guard.SearchGuardReport, error) {
	empty := ExecutionPlan{Source: req.Source, Target: req.Target}

	if req.Spend.IsZero() {
		return empty, guard.None(), nil
	}
	if g.Node(req.Source) == nil || g.Node(req.Target) == nil {
		return empty, guard.None(), nil
	}

	maxHops := req.MaxHopsPerRoute
	if maxHops <= 0 {
		maxHops = DefaultMaxHopsPerRoute
	}

	guards := req.Guards
	if e.log != nil {
		guards.WithLogger(e.log)
	}

	state := NewPortfolioState(req.Spend)
	residual := g
	searchEngine := search.NewEngine()
	if e.log != nil {
		searchEngine.WithLogger(e.log)
	}

	var fills []Fill
	sequence := 0

	for {
		if !guards.CanExpand() {
			break
		}
		candidate, ok, err := e.bestAugmentingPath(residual, searchEngine, state, req.Target, maxHops)
		if err != nil {
			return ExecutionPlan{}, guard.SearchGuardReport{}, err
		}
		if !ok {
			break
		}

		legFills, err := materializeFills(residual, candidate.fromCurrency, candidate.route, candidate.spendAmount, &sequence)
		if err != nil {
			return ExecutionPlan{}, guard.SearchGuardReport{}, err
		}

		for _, fill := range legFills {
			state, err = state.Execute(fill)
			if err != nil {
				return ExecutionPlan{}, guard.SearchGuardReport{}, err
			}
			fills = append(fills, fill)
		}

		used := make(map[int]struct{}, len(legFills))
		for _, fill := range legFills {
			used[fill.OrderID] = struct{}{}
		}
		residual = graph.WithoutOrders(residual, used)

		breached := guards.RecordExpansion(fmt.Sprintf("%s->%s#%d", candidate.fromCurrency, req.Target, sequence))
		if breached {
			if e.log != nil {
				e.log.WithField("sequence", sequence).Debug("execution plan: guard breached, stopping augmenting loop")
			}
			break
		}
	}

	report := guards.Report()
	remaining, hasRemaining := state.Balance(req.Source)
	partial := hasRemaining && remaining.Amount.IsPositive()

	plan := ExecutionPlan{Source: req.Source, Target: req.Target, Fills: fills, Partial: partial}
	return plan, report, nil
}

// augmentingCandidate is the best single route found from one
// positive-balance currency in the current portfolio state.
type augmentingCandidate struct {
	fromCurrency string
	route        search.CandidatePath
	spendAmount  decimal.Decimal
}

// bestAugmentingPath searches from every currency currently holding a
// positive balance and returns the one whose best single path delivers
// the largest target-currency amount, breaking ties by currency name for
// determinism. ok is false once no currency can reach the target at all.
func (e *Engine) bestAugmentingPath(g *graph.Graph, searchEngine *search.Engine, state PortfolioState, target string, maxHops int) (augmentingCandidate, bool, error) {
	var best *augmentingCandidate
	var bestReceived decimal.Decimal

	for _, currency := range state.PositiveBalanceCurrencies() {
		if g.Node(currency) == nil || g.Node(target) == nil {
			continue
		}
		balance, _ := state.Balance(currency)

		cfg := search.NewPathSearchConfig(currency, target).
			SpendAmount(balance.Amount.RenderAtScale(balance.Scale)).
			HopLimits(1, maxHops).
			ResultLimit(1)
		req, err := cfg.Build()
		if err != nil {
			continue
		}
		outcome, err := searchEngine.Search(g, req)
		if err != nil || len(outcome.States) == 0 {
			continue
		}

		candidateState := outcome.States[0]
		spendAmount := decimal.Min(balance.Amount, candidateState.Spend.Max)
		received := spendAmount.Mul(candidateState.Yield)

		if best == nil || decimal.Compare(received, bestReceived) > 0 {
			bestReceived = received
			best = &augmentingCandidate{
				fromCurrency: currency,
				route:        search.NewCandidatePath(candidateState),
				spendAmount:  spendAmount,
			}
		}
	}

	if best == nil {
		return augmentingCandidate{}, false, nil
	}
	return *best, true, nil
}

// materializeFills replays route's orders from an initial spend of
// spendAmount units of fromCurrency, turning each hop into a Fill with a
// sequence number drawn from seq (mutated as each fill is assigned one).
func materializeFills(g *graph.Graph, fromCurrency string, route search.CandidatePath, spendAmount decimal.Decimal, seq *int) ([]Fill, error) {
	spendMoney, err := xchange.NewMoney(fromCurrency, spendAmount, decimal.WorkingScale)
	if err != nil {
		return nil, err
	}
	steps, err := graph.ReplayRoute(g, fromCurrency, route.RouteOrderIDs, spendMoney)
	if err != nil {
		return nil, err
	}
	fills := make([]Fill, 0, len(steps))
	for _, step := range steps {
		*seq++
		cost, err := legCost(step.Spend, step.Received)
		if err != nil {
			return nil, err
		}
		fills = append(fills, Fill{
			OrderID:  step.OrderID,
			Order:    step.Order,
			Spend:    step.Spend,
			Received: step.Received,
			Fees:     step.Fees,
			Cost:     cost,
			Sequence: *seq,
		})
	}
	return fills, nil
}

// legCost is the per-fill cost contribution PortfolioState.TotalCost
// accumulates: spend consumed per unit received, at working scale.
func legCost(spend, received xchange.Money) (decimal.Decimal, error) {
	if received.Amount.IsZero() {
		return decimal.Zero(), nil
	}
	return decimal.Div(spend.Amount, received.Amount, decimal.WorkingScale+decimal.RatioExtraScale)
}

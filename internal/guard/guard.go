// Package guard bounds a search engine run with expansion, visited-state
// and wall-clock limits, and reports which (if any) were hit.
package guard

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mExOms/pathfinder/internal/errs"
)

// SearchGuards bounds a single search run. A zero value for any field
// means that particular guard is disabled.
type SearchGuards struct {
	MaxExpansions    int
	MaxVisitedStates int
	TimeBudget       time.Duration

	// RaiseOnLimit escalates a guard breach to an error (wrapping
	// errs.ErrGuardLimitExceeded) instead of the default behavior of
	// returning whatever partial results were found plus a report.
	RaiseOnLimit bool

	expansions int
	visited    map[string]struct{}
	startedAt  time.Time
	started    bool

	log *logrus.Entry
}

// WithLogger attaches a diagnostic logger; nil is valid and disables
// logging entirely.
func (g *SearchGuards) WithLogger(log *logrus.Entry) *SearchGuards {
	g.log = log
	return g
}

func (g *SearchGuards) ensureStarted() {
	if !g.started {
		g.started = true
		g.startedAt = time.Now()
		g.visited = make(map[string]struct{})
	}
}

// CanExpand reports whether the search may expand another state without
// breaching any configured guard.
func (g *SearchGuards) CanExpand() bool {
	g.ensureStarted()
	if g.MaxExpansions > 0 && g.expansions >= g.MaxExpansions {
		return false
	}
	if g.TimeBudget > 0 && time.Since(g.startedAt) >= g.TimeBudget {
		return false
	}
	return true
}

// RecordExpansion records one state expansion and, if signature is new,
// one visited-state observation. It reports whether recording this
// expansion breached the visited-state guard.
func (g *SearchGuards) RecordExpansion(signature string) bool {
	g.ensureStarted()
	g.expansions++
	if _, seen := g.visited[signature]; !seen {
		g.visited[signature] = struct{}{}
	}
	breached := g.MaxVisitedStates > 0 && len(g.visited) > g.MaxVisitedStates
	if breached && g.log != nil {
		g.log.WithField("visited_states", len(g.visited)).Warn("search guard: visited-state limit exceeded")
	}
	return breached
}

// Report produces the guard report reflecting the guards' state at call
// time.
func (g *SearchGuards) Report() SearchGuardReport {
	g.ensureStarted()
	elapsed := time.Since(g.startedAt)
	return SearchGuardReport{
		ExpansionsUsed:       g.expansions,
		ExpansionLimit:       g.MaxExpansions,
		VisitedStatesUsed:    len(g.visited),
		VisitedStatesLimit:   g.MaxVisitedStates,
		ElapsedTime:          elapsed,
		TimeBudget:           g.TimeBudget,
		ExpansionsExceeded:   g.MaxExpansions > 0 && g.expansions >= g.MaxExpansions,
		VisitedStatesExceeded: g.MaxVisitedStates > 0 && len(g.visited) > g.MaxVisitedStates,
		TimeBudgetExceeded:   g.TimeBudget > 0 && elapsed >= g.TimeBudget,
	}
}

// SearchGuardReport summarizes guard consumption and outcome for a search
// run, meant to travel alongside a (possibly partial) result set.
type SearchGuardReport struct {
	ExpansionsUsed     int
	ExpansionLimit     int
	VisitedStatesUsed  int
	VisitedStatesLimit int
	ElapsedTime        time.Duration
	TimeBudget         time.Duration

	ExpansionsExceeded    bool
	VisitedStatesExceeded bool
	TimeBudgetExceeded    bool
}

// None returns the neutral report used when no search ran at all (e.g. a
// request rejected before the engine was ever invoked): zero limits, zero
// usage, nothing breached.
func None() SearchGuardReport { return SearchGuardReport{} }

// Idle returns the zero-progress report for a search that was configured
// with the given limits but made no expansions. Limits of zero are passed
// through unchanged (disabled, per §4.5).
func Idle(expansionLimit, visitedStateLimit int, timeBudget time.Duration) SearchGuardReport {
	return SearchGuardReport{
		ExpansionLimit:     expansionLimit,
		VisitedStatesLimit: visitedStateLimit,
		TimeBudget:         timeBudget,
	}
}

// AnyLimitReached reports whether any configured guard was breached.
func (r SearchGuardReport) AnyLimitReached() bool {
	return r.ExpansionsExceeded || r.VisitedStatesExceeded || r.TimeBudgetExceeded
}

// AsError renders the report as a GuardLimitExceeded error, in fixed
// clause order (expansions, then visited states, then time budget), when
// at least one limit was breached. It returns nil otherwise.
func (r SearchGuardReport) AsError() error {
	if !r.AnyLimitReached() {
		return nil
	}
	var clauses []string
	if r.ExpansionsExceeded {
		clauses = append(clauses, fmt.Sprintf("expansions %d/%d", r.ExpansionsUsed, r.ExpansionLimit))
	}
	if r.VisitedStatesExceeded {
		clauses = append(clauses, fmt.Sprintf("visited_states %d/%d", r.VisitedStatesUsed, r.VisitedStatesLimit))
	}
	if r.TimeBudgetExceeded {
		clauses = append(clauses, fmt.Sprintf("time_budget %d/%dms", r.ElapsedTime.Milliseconds(), r.TimeBudget.Milliseconds()))
	}
	return fmt.Errorf("%w: %s", errs.ErrGuardLimitExceeded, strings.Join(clauses, " and "))
}

type guardReportLimitsWire struct {
	Expansions    int    `json:"expansions"`
	VisitedStates int    `json:"visited_states"`
	TimeBudgetMs  *int64 `json:"time_budget_ms"`
}

type guardReportMetricsWire struct {
	Expansions    int     `json:"expansions"`
	VisitedStates int     `json:"visited_states"`
	ElapsedMs     float64 `json:"elapsed_ms"`
}

type guardReportBreachedWire struct {
	Expansions    bool `json:"expansions"`
	VisitedStates bool `json:"visited_states"`
	TimeBudget    bool `json:"time_budget"`
	Any           bool `json:"any"`
}

type guardReportWire struct {
	Limits   guardReportLimitsWire   `json:"limits"`
	Metrics  guardReportMetricsWire  `json:"metrics"`
	Breached guardReportBreachedWire `json:"breached"`
}

// MarshalJSON renders the report in the wire shape spec.md §6 documents:
// limits, metrics and breach flags as three separate sub-objects.
func (r SearchGuardReport) MarshalJSON() ([]byte, error) {
	var timeBudgetMs *int64
	if r.TimeBudget > 0 {
		ms := r.TimeBudget.Milliseconds()
		timeBudgetMs = &ms
	}
	return json.Marshal(guardReportWire{
		Limits: guardReportLimitsWire{
			Expansions:    r.ExpansionLimit,
			VisitedStates: r.VisitedStatesLimit,
			TimeBudgetMs:  timeBudgetMs,
		},
		Metrics: guardReportMetricsWire{
			Expansions:    r.ExpansionsUsed,
			VisitedStates: r.VisitedStatesUsed,
			ElapsedMs:     float64(r.ElapsedTime.Microseconds()) / 1000.0,
		},
		Breached: guardReportBreachedWire{
			Expansions:    r.ExpansionsExceeded,
			VisitedStates: r.VisitedStatesExceeded,
			TimeBudget:    r.TimeBudgetExceeded,
			Any:           r.AnyLimitReached(),
		},
	})
}

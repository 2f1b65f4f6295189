// Package telemetry exposes a SearchGuardReport as Prometheus gauges and
// counters, grounded on the pack's chidi150c-coinbase bot, whose
// metrics.go registers a fixed set of package-level collectors in init()
// and exposes labeled setter/incrementer helpers rather than threading a
// registry through every call site.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mExOms/pathfinder/internal/guard"
)

var (
	expansionsUsed = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pathfinder_search_expansions_used",
		Help: "Number of state expansions consumed by the most recent search run.",
	})

	visitedStatesUsed = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pathfinder_search_visited_states_used",
		Help: "Number of distinct visited-state signatures recorded by the most recent search run.",
	})

	elapsedMs = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pathfinder_search_elapsed_ms",
		Help: "Wall-clock time consumed by the most recent search run, in milliseconds.",
	})

	guardBreaches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pathfinder_search_guard_breaches_total",
			Help: "Count of search runs that breached a guard, split by which one.",
		},
		[]string{"guard"},
	)

	searchRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pathfinder_search_runs_total",
		Help: "Total number of completed search runs observed.",
	})
)

func init() {
	prometheus.MustRegister(expansionsUsed, visitedStatesUsed, elapsedMs)
	prometheus.MustRegister(guardBreaches, searchRuns)
}

// Observe records one completed search run's guard report.
func Observe(r guard.SearchGuardReport) {
	searchRuns.Inc()
	expansionsUsed.Set(float64(r.ExpansionsUsed))
	visitedStatesUsed.Set(float64(r.VisitedStatesUsed))
	elapsedMs.Set(float64(r.ElapsedTime.Microseconds()) / 1000.0)

	if r.ExpansionsExceeded {
		guardBreaches.WithLabelValues("expansions").Inc()
	}
	if r.VisitedStatesExceeded {
		guardBreaches.WithLabelValues("visited_states").Inc()
	}
	if r.TimeBudgetExceeded {
		guardBreaches.WithLabelValues("time_budget").Inc()
	}
}

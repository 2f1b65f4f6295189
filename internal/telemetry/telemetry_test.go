package telemetry

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/mExOms/pathfinder/internal/guard"
)

func TestObserve_RecordsGaugesAndRunCounter(t *testing.T) {
	before := testutil.ToFloat64(searchRuns)

	Observe(guard.SearchGuardReport{
		ExpansionsUsed:    42,
		VisitedStatesUsed: 7,
		ElapsedTime:       250 * time.Millisecond,
	})

	assert.Equal(t, before+1, testutil.ToFloat64(searchRuns))
	assert.Equal(t, float64(42), testutil.ToFloat64(expansionsUsed))
	assert.Equal(t, float64(7), testutil.ToFloat64(visitedStatesUsed))
	assert.Equal(t, float64(250), testutil.ToFloat64(elapsedMs))
}

func TestObserve_IncrementsGuardBreachCounterOnlyForBreachedGuards(t *testing.T) {
	before := testutil.ToFloat64(guardBreaches.WithLabelValues("expansions"))

	Observe(guard.SearchGuardReport{ExpansionsExceeded: true})

	assert.Equal(t, before+1, testutil.ToFloat64(guardBreaches.WithLabelValues("expansions")))
}

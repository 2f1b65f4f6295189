package publish

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutcomeSubject_IncludesRequestID(t *testing.T) {
	assert.Equal(t, "outcome.abc-123", OutcomeSubject("abc-123"))
}

func TestExecutionPlanSubject_IncludesRequestID(t *testing.T) {
	assert.Equal(t, "plan.abc-123", ExecutionPlanSubject("abc-123"))
}

func TestGuardBreachSubject_IncludesRequestID(t *testing.T) {
	assert.Equal(t, "guard.breach.abc-123", GuardBreachSubject("abc-123"))
}

func TestGetStreamSubjects_KnownAndUnknownStreams(t *testing.T) {
	assert.Equal(t, []string{"outcome.>"}, GetStreamSubjects(StreamOutcomes))
	assert.Equal(t, []string{"plan.>"}, GetStreamSubjects(StreamExecutionPlans))
	assert.Equal(t, []string{"guard.breach.>"}, GetStreamSubjects(StreamGuardBreaches))
	assert.Empty(t, GetStreamSubjects("unknown"))
}

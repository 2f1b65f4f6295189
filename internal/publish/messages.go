package publish

import "time"

// GuardBreachMessage is the standalone alert body published alongside (but
// separate from) a full outcome when a search guard fires, so a consumer
// can watch for breaches on their own subject.
type GuardBreachMessage struct {
	RequestID string    `json:"request_id"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// Stream names this module provisions.
const (
	StreamOutcomes       = "PATHFINDER_OUTCOMES"
	StreamExecutionPlans = "PATHFINDER_PLANS"
	StreamGuardBreaches  = "PATHFINDER_GUARD_BREACHES"
)

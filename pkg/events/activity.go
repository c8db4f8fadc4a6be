package events

import (
	"time"

	"github.com/google/uuid"
)

const ActivityLogged = "ACTIVITY_LOGGED"

// NewActivityLogged is emitted once per committed meal or workout.
func NewActivityLogged(userID uuid.UUID, kind string, recordID uuid.UUID, occurredAt time.Time) BaseEvent {
	return BaseEvent{
		Type: ActivityLogged,
		Data: map[string]interface{}{
			"user_id":     userID.String(),
			"kind":        kind,
			"record_id":   recordID.String(),
			"occurred_at": occurredAt.UTC().Format(time.RFC3339),
		},
		OccurredAt: time.Now().UTC(),
	}
}

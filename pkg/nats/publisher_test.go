package nats

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymbro-be/pkg/events"
)

func TestEncodeAndSubject(t *testing.T) {
	user, record := uuid.New(), uuid.New()
	at := time.Date(2025, 6, 2, 7, 0, 0, 0, time.UTC)
	ev := events.NewActivityLogged(user, "meal", record, at)

	assert.Equal(t, "events.ACTIVITY_LOGGED", Subject(ev))

	raw, err := Encode(ev)
	require.NoError(t, err)

	var back events.BaseEvent
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, events.ActivityLogged, back.Type)
	assert.Equal(t, record.String(), back.Data["record_id"])
	assert.Equal(t, "2025-06-02T07:00:00Z", back.Data["occurred_at"])

	assert.Equal(t, "ACTIVITY_LOGGED:"+record.String(), msgID(ev))
}

func TestMsgID_FallsBackToTimestamp(t *testing.T) {
	ev := events.BaseEvent{Type: "PING", Data: map[string]interface{}{}, OccurredAt: time.Unix(0, 42)}
	assert.Equal(t, "PING:42", msgID(ev))
}

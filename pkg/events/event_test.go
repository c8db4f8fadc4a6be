package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type recordingPublisher struct {
	got []Event
	err error
}

func (r *recordingPublisher) Publish(_ context.Context, e Event) error {
	r.got = append(r.got, e)
	return r.err
}

func TestFanout_DeliversToEveryTarget(t *testing.T) {
	broken := &recordingPublisher{err: errors.New("nats down")}
	healthy := &recordingPublisher{}

	ev := NewActivityLogged(uuid.New(), "meal", uuid.New(), time.Now())
	err := Fanout{broken, healthy}.Publish(context.Background(), ev)

	assert.ErrorContains(t, err, "nats down")
	assert.Len(t, broken.got, 1)
	assert.Len(t, healthy.got, 1, "a failing target does not starve the next one")
	assert.NoError(t, Fanout{}.Publish(context.Background(), ev))
}

func TestNewActivityLogged(t *testing.T) {
	user, record := uuid.New(), uuid.New()
	at := time.Date(2025, 6, 2, 7, 30, 0, 0, time.FixedZone("WIB", 7*3600))

	ev := NewActivityLogged(user, "workout", record, at)
	assert.Equal(t, ActivityLogged, ev.EventType())
	assert.Equal(t, map[string]interface{}{
		"user_id":     user.String(),
		"kind":        "workout",
		"record_id":   record.String(),
		"occurred_at": "2025-06-02T00:30:00Z",
	}, ev.Payload())
}

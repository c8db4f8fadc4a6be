package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"gymbro-be/internal/pkg/logger"
	"gymbro-be/pkg/events"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestClient(h *Hub, userID uuid.UUID, buffer int) *Client {
	c := &Client{Hub: h, UserID: userID, Send: make(chan []byte, buffer)}
	h.Register(c)
	return c
}

func TestHub_RoutesByOwner(t *testing.T) {
	h := NewHub(nil, logger.NewNopLogger())
	owner, other := uuid.New(), uuid.New()
	phone := newTestClient(h, owner, 4)
	laptop := newTestClient(h, owner, 4)
	stranger := newTestClient(h, other, 4)

	record := uuid.New()
	ev := events.NewActivityLogged(owner, "meal", record, time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC))
	require.NoError(t, h.Publish(context.Background(), ev))

	for _, c := range []*Client{phone, laptop} {
		require.Len(t, c.Send, 1)
		var f Frame
		require.NoError(t, json.Unmarshal(<-c.Send, &f))
		assert.Equal(t, events.ActivityLogged, f.Type)
		assert.Equal(t, record.String(), f.Data["record_id"])
	}
	assert.Empty(t, stranger.Send)
}

func TestHub_DropsSlowClient(t *testing.T) {
	h := NewHub(nil, logger.NewNopLogger())
	owner := uuid.New()
	c := newTestClient(h, owner, 1)

	ev := events.NewActivityLogged(owner, "workout", uuid.New(), time.Now())
	require.NoError(t, h.Publish(context.Background(), ev))
	require.NoError(t, h.Publish(context.Background(), ev))

	assert.Zero(t, h.Connected(owner))
	_, ok := <-c.Send
	assert.True(t, ok, "buffered frame is still readable")
	_, ok = <-c.Send
	assert.False(t, ok, "channel closed after drop")

	h.Unregister(c)
}

func TestHub_RejectsEventWithoutOwner(t *testing.T) {
	h := NewHub(nil, logger.NewNopLogger())
	err := h.Publish(context.Background(), events.BaseEvent{Type: "PING", Data: map[string]interface{}{}})
	assert.ErrorContains(t, err, "no user_id")
}

func TestHub_RunClosesSessionsOnShutdown(t *testing.T) {
	h := NewHub(nil, logger.NewNopLogger())
	c := newTestClient(h, uuid.New(), 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	_, ok := <-c.Send
	assert.False(t, ok)
	assert.Zero(t, h.Connected(c.UserID))
}

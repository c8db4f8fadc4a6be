package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"gymbro-be/internal/pkg/logger"
	"gymbro-be/pkg/events"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// feedChannel carries frames between replicas when Redis is configured.
const feedChannel = "gymbro:feed"

// Frame is what a connected client receives for every event.
type Frame struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

type clusterMessage struct {
	TargetUserID string          `json:"target_user_id"`
	Message      json.RawMessage `json:"message"`
}

// Hub fans activity events out to the websocket sessions of their owner.
type Hub struct {
	// Registered clients: UserID -> connections (multi-device)
	clients map[uuid.UUID][]*Client
	mu      sync.RWMutex

	// Redis connection for cross-instance delivery, optional
	rdb *redis.Client

	logger logger.ILogger
}

var _ events.Publisher = (*Hub)(nil)

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		clients: make(map[uuid.UUID][]*Client),
		rdb:     rdb,
		logger:  log,
	}
}

// Run relays cluster frames until ctx is done, then closes every session.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}
	<-ctx.Done()

	h.mu.Lock()
	for userID, clients := range h.clients {
		for _, c := range clients {
			close(c.Send)
		}
		delete(h.clients, userID)
	}
	h.mu.Unlock()
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client.UserID] = append(h.clients[client.UserID], client)
	h.mu.Unlock()
	h.logger.Info("FEED", "Client registered", map[string]interface{}{"user_id": client.UserID})
}

// Unregister is safe to call more than once for the same client.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[client.UserID]
	for i, c := range clients {
		if c == client {
			h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
			close(client.Send)
			break
		}
	}
	if len(h.clients[client.UserID]) == 0 {
		delete(h.clients, client.UserID)
	}
}

// Connected reports how many sessions userID has on this instance.
func (h *Hub) Connected(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Publish routes the event by its user_id. With Redis every replica delivers
// to its own sessions, this one included.
func (h *Hub) Publish(ctx context.Context, event events.Event) error {
	raw, _ := event.Payload()["user_id"].(string)
	userID, err := uuid.Parse(raw)
	if err != nil {
		return fmt.Errorf("feed: %s event has no user_id", event.EventType())
	}

	frame, err := json.Marshal(Frame{Type: event.EventType(), Data: event.Payload(), OccurredAt: event.Timestamp()})
	if err != nil {
		return fmt.Errorf("feed: encode frame: %w", err)
	}

	if h.rdb != nil {
		payload, err := json.Marshal(clusterMessage{TargetUserID: userID.String(), Message: frame})
		if err != nil {
			return err
		}
		return h.rdb.Publish(ctx, feedChannel, payload).Err()
	}

	h.deliver(userID, frame)
	return nil
}

func (h *Hub) deliver(userID uuid.UUID, frame []byte) {
	var slow []*Client

	h.mu.RLock()
	for _, client := range h.clients[userID] {
		select {
		case client.Send <- frame:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.logger.Warn("FEED", "Client send buffer full, dropping session", map[string]interface{}{"user_id": userID})
		h.Unregister(client)
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, feedChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var payload clusterMessage
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				h.logger.Warn("FEED", "Dropping malformed cluster frame", map[string]interface{}{"error": err.Error()})
				continue
			}
			userID, err := uuid.Parse(payload.TargetUserID)
			if err != nil {
				continue
			}
			h.deliver(userID, payload.Message)
		}
	}
}

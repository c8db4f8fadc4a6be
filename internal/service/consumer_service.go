package service

import (
	"context"
	"encoding/json"

	"gymbro-be/internal/observability"
	"gymbro-be/internal/pkg/logger"
	"gymbro-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	forwarder events.Publisher // nil when NATS is not configured
	logger    logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	forwarder events.Publisher,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		forwarder: forwarder,
		logger:    logger,
	}
}

// Consume subscribes and handles messages in the background until ctx is
// cancelled or the bus is closed.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var event events.BaseEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		cs.logger.Error("EVENTS", "Failed to unmarshal event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		msg.Ack() // Malformed payloads never become valid; do not redeliver
		return
	}

	kind, _ := event.Data["kind"].(string)
	forwarded := false
	if cs.forwarder != nil {
		if err := cs.forwarder.Publish(ctx, event); err != nil {
			cs.logger.Warn("EVENTS", "Failed to forward event", map[string]interface{}{
				"type":  event.Type,
				"error": err.Error(),
			})
		} else {
			forwarded = true
		}
	}

	if event.Type == events.ActivityLogged {
		observability.RecordActivityLogged(kind, forwarded)
	}

	cs.logger.Info("EVENTS", "Event consumed", map[string]interface{}{
		"type":      event.Type,
		"kind":      kind,
		"record_id": event.Data["record_id"],
		"forwarded": forwarded,
	})
	msg.Ack()
}

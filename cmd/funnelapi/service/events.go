package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pagecraft/funnels/common/logger"
	"github.com/pagecraft/funnels/common/queue"
)

// Domain event topics
const (
	TopicFunnelCreated      = "funnel.created"
	TopicFunnelInstantiated = "funnel.instantiated"
	TopicPagePublished      = "page.published"
	TopicPageUnpublished    = "page.unpublished"
	TopicRevisionCreated    = "revision.created"
)

// Event is the envelope published for every domain event
type Event struct {
	Topic      string         `json:"topic"`
	OccurredAt time.Time      `json:"occurred_at"`
	Fields     map[string]any `json:"fields,omitempty"`
}

// publishEvent emits a domain event. Event delivery is best effort and
// never fails the operation that produced it.
func publishEvent(ctx context.Context, q queue.Queue, log *logger.Logger, topic, key string, fields map[string]any) {
	if q == nil {
		return
	}

	payload, err := json.Marshal(Event{
		Topic:      topic,
		OccurredAt: time.Now().UTC(),
		Fields:     fields,
	})
	if err != nil {
		log.Warn("failed to encode domain event", "topic", topic, "error", err)
		return
	}

	if err := q.Publish(ctx, topic, key, payload); err != nil {
		log.Warn("failed to publish domain event", "topic", topic, "error", err)
	}
}

// RegisterAuditLog subscribes a logging consumer to every domain topic
func RegisterAuditLog(ctx context.Context, q queue.Queue, log *logger.Logger) error {
	topics := []string{
		TopicFunnelCreated,
		TopicFunnelInstantiated,
		TopicPagePublished,
		TopicPageUnpublished,
		TopicRevisionCreated,
	}

	for _, topic := range topics {
		topic := topic
		err := q.Subscribe(ctx, topic, func(ctx context.Context, key string, value []byte) error {
			log.Info("domain event", "topic", topic, "key", key, "payload", string(value))
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

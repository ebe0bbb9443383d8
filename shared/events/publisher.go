package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Publisher appends events to Redis streams.
type Publisher struct {
	client redis.Cmdable
	now    func() time.Time
}

func NewPublisher(client redis.Cmdable) *Publisher {
	return &Publisher{client: client, now: time.Now}
}

func (p *Publisher) Publish(ctx context.Context, stream, eventType string, data any) error {
	payload, err := NewEvent(eventType, data, p.now()).Marshal()
	if err != nil {
		return err
	}

	args := &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{
			"event": payload,
		},
	}

	if _, err := p.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

func NewEvent(eventType string, data any, at time.Time) Event {
	return Event{
		Type:      eventType,
		Timestamp: at.UTC(),
		Data:      data,
	}
}

func (e Event) Marshal() ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	return b, nil
}

// NopPublisher drops every event. Used when no Redis address is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(_ context.Context, stream, eventType string, _ any) error {
	slog.Debug("event publishing disabled, dropping event", "stream", stream, "type", eventType)
	return nil
}

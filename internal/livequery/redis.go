package livequery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/baas-sample/internal/logger"
	"github.com/MKhiriev/baas-sample/models"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisChannel carries object events between server instances.
const DefaultRedisChannel = "baas:livequery"

// RedisBridge publishes object events to a Redis channel and feeds events
// received on it into the local hub, so subscribers on every instance
// receive events produced by any of them.
type RedisBridge struct {
	client  *redis.Client
	channel string
	hub     *Hub

	logger *logger.Logger
}

// NewRedisBridge returns a bridge between hub and channel on client.
func NewRedisBridge(client *redis.Client, channel string, hub *Hub, log *logger.Logger) (*RedisBridge, error) {
	if client == nil {
		return nil, ErrRedisNotAvailable
	}
	if channel == "" {
		channel = DefaultRedisChannel
	}
	return &RedisBridge{client: client, channel: channel, hub: hub, logger: log}, nil
}

// Publish sends event to the Redis channel. Local delivery happens when the
// event comes back through Run.
func (b *RedisBridge) Publish(ctx context.Context, event models.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("error encoding live query event: %w", err)
	}
	if err = b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("error publishing live query event: %w", err)
	}
	return nil
}

// Run consumes the Redis channel until ctx is done.
func (b *RedisBridge) Run(ctx context.Context) error {
	pubsub := b.client.Subscribe(ctx, b.channel)
	defer func() { _ = pubsub.Close() }()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("error subscribing to %s: %w", b.channel, err)
	}
	b.logger.Info().Str("channel", b.channel).Msg("live query redis bridge subscribed")

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			if err := b.dispatch(ctx, msg.Payload); err != nil {
				b.logger.Warn().Err(err).Msg("live query event dropped")
			}
		}
	}
}

func (b *RedisBridge) dispatch(ctx context.Context, payload string) error {
	event, err := decodeEvent(payload)
	if err != nil {
		return err
	}
	if err = b.hub.Publish(ctx, event); err != nil && !errors.Is(err, ErrHubClosed) {
		return err
	}
	return nil
}

func decodeEvent(payload string) (models.Event, error) {
	var event models.Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return models.Event{}, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}
	if event.Op == "" || event.ClassName == "" {
		return models.Event{}, fmt.Errorf("%w: op and className are required", ErrMalformedEvent)
	}
	return event, nil
}

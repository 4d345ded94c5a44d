package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/tair/inventory-console/pkg/logger"
)

// DefaultRedisChannel is the Pub/Sub channel for inventory updates
const DefaultRedisChannel = "inventory:updated"

// RedisBridge relays hub events through a Redis Pub/Sub channel
type RedisBridge struct {
	client  redis.UniversalClient
	channel string
	hub     *Hub
}

// NewRedisBridge creates a bridge on channel using an existing client
func NewRedisBridge(client redis.UniversalClient, channel string, hub *Hub) *RedisBridge {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	return &RedisBridge{client: client, channel: channel, hub: hub}
}

// Forward publishes a locally raised event
func (b *RedisBridge) Forward(ctx context.Context, event Event) error {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	if len(carrier) > 0 {
		event.Trace = carrier
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to redis channel %s: %w", b.channel, err)
	}
	return nil
}

// Start subscribes to the channel and delivers peer events until ctx is cancelled
func (b *RedisBridge) Start(ctx context.Context) error {
	sub := b.client.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return fmt.Errorf("failed to subscribe to redis channel %s: %w", b.channel, err)
	}

	log := logger.Component("redis-bridge")
	log.Info().
		Str("channel", b.channel).
		Msg("Redis bridge subscribed")

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				b.handlePayload(ctx, msg.Payload)
			}
		}
	}()
	return nil
}

func (b *RedisBridge) handlePayload(ctx context.Context, payload string) bool {
	var event Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		logger.Error(ctx).Err(err).Str("channel", b.channel).Msg("Failed to unmarshal inventory update")
		return false
	}
	if len(event.Trace) > 0 {
		ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(event.Trace))
	}
	return b.hub.Deliver(ctx, event)
}

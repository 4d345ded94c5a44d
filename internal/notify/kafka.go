package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/inventory-console/pkg/logger"
)

// DefaultKafkaTopic carries inventory updates between console instances
const DefaultKafkaTopic = "inventory-updated"

// KafkaConfig holds the Kafka bridge settings
type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// KafkaBridge relays hub events through a Kafka topic
type KafkaBridge struct {
	producer sarama.SyncProducer
	consumer sarama.ConsumerGroup
	topic    string
	hub      *Hub
}

// NewKafkaBridge connects a producer and a consumer group to the brokers.
// Each console instance needs every event, so the group id should be unique per process.
func NewKafkaBridge(cfg KafkaConfig, hub *Hub) (*KafkaBridge, error) {
	if cfg.Topic == "" {
		cfg.Topic = DefaultKafkaTopic
	}
	if cfg.GroupID == "" {
		cfg.GroupID = "inventory-console-" + hub.Origin()
	}

	config := sarama.NewConfig()
	config.Version = sarama.V2_6_0_0
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Timeout = ForwardTimeout
	config.Producer.Retry.Max = 1
	config.Net.DialTimeout = ForwardTimeout
	config.Consumer.Group.Rebalance.Strategy = sarama.NewBalanceStrategyRoundRobin()
	config.Consumer.Offsets.Initial = sarama.OffsetNewest
	config.Consumer.Return.Errors = true

	producer, err := sarama.NewSyncProducer(cfg.Brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	consumer, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, config)
	if err != nil {
		producer.Close()
		return nil, fmt.Errorf("failed to create Kafka consumer: %w", err)
	}

	log := logger.Component("kafka-bridge")
	log.Info().
		Strs("brokers", cfg.Brokers).
		Str("topic", cfg.Topic).
		Str("group_id", cfg.GroupID).
		Msg("Kafka bridge initialized")

	return newKafkaBridge(producer, consumer, cfg.Topic, hub), nil
}

func newKafkaBridge(producer sarama.SyncProducer, consumer sarama.ConsumerGroup, topic string, hub *Hub) *KafkaBridge {
	return &KafkaBridge{
		producer: producer,
		consumer: consumer,
		topic:    topic,
		hub:      hub,
	}
}

// Forward publishes a locally raised event with trace context in the headers
func (b *KafkaBridge) Forward(ctx context.Context, event Event) error {
	ctx, span := otel.Tracer("kafka-publisher").Start(ctx, "kafka.publish.inventory_updated",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", b.topic),
			attribute.String("event.id", event.ID),
		),
	)
	defer span.End()

	payload, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to marshal event")
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	headers := []sarama.RecordHeader{
		{Key: []byte("event_type"), Value: []byte(event.Type)},
		{Key: []byte("event_id"), Value: []byte(event.ID)},
	}
	for key, value := range carrier {
		headers = append(headers, sarama.RecordHeader{Key: []byte(key), Value: []byte(value)})
	}

	partition, offset, err := b.producer.SendMessage(&sarama.ProducerMessage{
		Topic:   b.topic,
		Key:     sarama.StringEncoder(event.Origin),
		Value:   sarama.ByteEncoder(payload),
		Headers: headers,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to send message")
		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	span.SetAttributes(
		attribute.Int("messaging.kafka.partition", int(partition)),
		attribute.Int64("messaging.kafka.offset", offset),
	)
	logger.Debug(ctx).
		Str("event_id", event.ID).
		Str("topic", b.topic).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("Inventory update published to Kafka")
	return nil
}

// Start consumes the topic until ctx is cancelled
func (b *KafkaBridge) Start(ctx context.Context) {
	handler := &consumerGroupHandler{bridge: b}
	log := logger.Component("kafka-bridge")

	go func() {
		for {
			if err := b.consumer.Consume(ctx, []string{b.topic}, handler); err != nil {
				log.Error().Err(err).Msg("Error from Kafka consumer")
			}
			if ctx.Err() != nil {
				log.Info().Msg("Kafka consumer stopped")
				return
			}
		}
	}()

	go func() {
		for err := range b.consumer.Errors() {
			log.Error().Err(err).Msg("Kafka consumer error")
		}
	}()
}

// Close closes the producer and the consumer group
func (b *KafkaBridge) Close() error {
	var firstErr error
	if b.consumer != nil {
		if err := b.consumer.Close(); err != nil {
			firstErr = err
		}
	}
	if b.producer != nil {
		if err := b.producer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// consumerGroupHandler implements sarama.ConsumerGroupHandler
type consumerGroupHandler struct {
	bridge *KafkaBridge
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		h.bridge.handleMessage(session.Context(), message)
		session.MarkMessage(message, "")
	}
	return nil
}

func (b *KafkaBridge) handleMessage(ctx context.Context, message *sarama.ConsumerMessage) bool {
	carrier := propagation.MapCarrier{}
	eventType := ""
	for _, header := range message.Headers {
		key := string(header.Key)
		switch key {
		case "traceparent", "tracestate":
			carrier[key] = string(header.Value)
		case "event_type":
			eventType = string(header.Value)
		}
	}
	ctx = otel.GetTextMapPropagator().Extract(ctx, carrier)

	ctx, span := otel.Tracer("kafka-consumer").Start(ctx, "kafka.consume.inventory_updated",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.source", message.Topic),
			attribute.Int("messaging.kafka.partition", int(message.Partition)),
			attribute.Int64("messaging.kafka.offset", message.Offset),
		),
	)
	defer span.End()

	if eventType != EventTypeInventoryUpdated {
		span.SetStatus(codes.Error, "Unknown event type")
		logger.Warn(ctx).
			Str("event_type", eventType).
			Msg("Skipping Kafka message with unknown event type")
		return false
	}

	var event Event
	if err := json.Unmarshal(message.Value, &event); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to unmarshal event")
		logger.Error(ctx).Err(err).Msg("Failed to unmarshal inventory update")
		return false
	}

	return b.hub.Deliver(ctx, event)
}

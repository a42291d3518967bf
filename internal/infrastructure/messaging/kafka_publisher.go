package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/bibbank/bib/services/credit-risk-service/internal/domain/event"
)

// KafkaPublisher implements port.EventPublisher using Kafka.
type KafkaPublisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewKafkaPublisher creates a Kafka event publisher for the given topic.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaPublisher {
	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafkago.RequireOne,
	}
	return &KafkaPublisher{writer: writer, logger: logger}
}

// Publish sends domain events to Kafka, keyed for per-customer ordering.
func (p *KafkaPublisher) Publish(ctx context.Context, events ...any) error {
	messages := make([]kafkago.Message, 0, len(events))
	for _, evt := range events {
		eventType, key := describe(evt)

		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", eventType, err)
		}

		messages = append(messages, kafkago.Message{
			Key:   []byte(key),
			Value: payload,
			Headers: []kafkago.Header{
				{Key: "event_type", Value: []byte(eventType)},
			},
		})

		p.logger.Debug("publishing event",
			slog.String("event_type", eventType),
			slog.String("topic", p.writer.Topic),
			slog.Int("payload_size", len(payload)),
		)
	}

	if err := p.writer.WriteMessages(ctx, messages...); err != nil {
		return fmt.Errorf("kafka publish to %s: %w", p.writer.Topic, err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func describe(evt any) (eventType, key string) {
	switch e := evt.(type) {
	case event.ScoreComputed:
		return e.EventType(), e.Key()
	case event.ModelTrained:
		return e.EventType(), e.Key()
	default:
		return "unknown", ""
	}
}

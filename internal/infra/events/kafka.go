package events

import (
	"context"
	"encoding/json"

	"cruise-booking/internal/pkg/config"
	"cruise-booking/internal/pkg/errs"
	"cruise-booking/internal/usecase/commands"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher emits lifecycle events to a single topic, keyed by order
// or payment number so consumers see each entity's events in order. The
// event name rides in a header.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(cfg config.KafkaConfig) (commands.EventPublisher, func()) {
	if len(cfg.Brokers) == 0 || cfg.Brokers[0] == "" {
		return NoopPublisher{}, func() {}
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
	p := &KafkaPublisher{writer: writer}
	cleanup := func() { _ = writer.Close() }
	return p, cleanup
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic string, key string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errs.Wrap(err, "failed to marshal event payload")
	}
	msg := kafka.Message{
		Key:   []byte(key),
		Value: body,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(topic)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return errs.Wrap(err, "failed to write event message")
	}
	return nil
}

// NoopPublisher keeps the service running without a broker.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, string, any) error {
	return nil
}

package kafka

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/oksasatya/user-events-service/internal/domain/event"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes user events to a Kafka topic keyed by user uuid.
// A writer is created and closed per event to mirror the AMQP publisher.
type Publisher struct {
	Brokers   []string
	Topic     string
	newWriter func(brokers []string, topic string) messageWriter
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{Brokers: brokers, Topic: topic, newWriter: newKafkaWriter}
}

func newKafkaWriter(brokers []string, topic string) messageWriter {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
}

func (p *Publisher) PublishUserCreated(ctx context.Context, evt event.UserCreated) error {
	body, err := evt.Body()
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	w := p.newWriter(p.Brokers, p.Topic)
	defer func() { _ = w.Close() }()

	msg := kafka.Message{
		Key:   []byte(evt.UUID),
		Value: body,
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
			{Key: "event", Value: []byte(event.UserCreatedName)},
		},
	}
	if err := w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

var _ event.Publisher = (*Publisher)(nil)

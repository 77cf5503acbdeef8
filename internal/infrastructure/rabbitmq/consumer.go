package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-events-service/internal/domain/event"
)

// Handler processes one decoded event. Returning an error requeues the message.
type Handler func(ctx context.Context, evt event.UserCreated) error

// Consumer reads user events from a durable queue with manual acks.
type Consumer struct {
	URL      string
	Queue    string
	Prefetch int
	Logger   *logrus.Logger
}

func NewConsumer(url, queue string, prefetch int, logger *logrus.Logger) *Consumer {
	return &Consumer{URL: url, Queue: queue, Prefetch: prefetch, Logger: logger}
}

// Run consumes until ctx is cancelled or the delivery channel closes.
func (c *Consumer) Run(ctx context.Context, handle Handler) error {
	conn, err := amqp.Dial(c.URL)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("amqp channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(c.Prefetch, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}
	if _, err := ch.QueueDeclare(c.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(c.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			c.dispatch(ctx, msg, handle)
		}
	}
}

// acknowledger is the subset of amqp.Delivery used to settle a message.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func (c *Consumer) dispatch(ctx context.Context, msg amqp.Delivery, handle Handler) {
	settle(ctx, c.Logger, msg.Body, msg, handle)
}

// settle decodes body, runs handle and acks/nacks. Malformed bodies are dropped.
func settle(ctx context.Context, logger *logrus.Logger, body []byte, acker acknowledger, handle Handler) {
	var evt event.UserCreated
	if err := json.Unmarshal(body, &evt); err != nil || evt.UUID == "" {
		if logger != nil {
			logger.WithField("body", string(body)).Warn("dropping malformed user event")
		}
		_ = acker.Nack(false, false)
		return
	}
	if err := handle(ctx, evt); err != nil {
		if logger != nil {
			logger.WithError(err).WithField("uuid", evt.UUID).Warn("user event handler failed, requeueing")
		}
		_ = acker.Nack(false, true)
		return
	}
	_ = acker.Ack(false)
}

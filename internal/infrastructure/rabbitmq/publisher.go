package rabbitmq

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/oksasatya/user-events-service/internal/domain/event"
)

// channel is the subset of *amqp.Channel used for publishing.
type channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type connection interface {
	openChannel() (channel, error)
	Close() error
}

type amqpConnection struct {
	*amqp.Connection
}

func (c amqpConnection) openChannel() (channel, error) {
	return c.Channel()
}

type dialFunc func(url string, timeout time.Duration) (connection, error)

func dialAMQP(url string, timeout time.Duration) (connection, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{
		Dial:      amqp.DefaultDial(timeout),
		Heartbeat: 10 * time.Second,
	})
	if err != nil {
		return nil, err
	}
	return amqpConnection{conn}, nil
}

// Publisher opens a fresh connection for every event, declares the durable
// queue, publishes a persistent JSON message on the default exchange and
// tears the connection down again. No pooling, no retries.
type Publisher struct {
	URL         string
	Queue       string
	DialTimeout time.Duration
	dial        dialFunc
}

func NewPublisher(url, queue string, dialTimeout time.Duration) *Publisher {
	return &Publisher{URL: url, Queue: queue, DialTimeout: dialTimeout, dial: dialAMQP}
}

func (p *Publisher) PublishUserCreated(ctx context.Context, evt event.UserCreated) error {
	body, err := evt.Body()
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return p.publish(ctx, evt.UUID, body)
}

// publish bounds the whole attempt by ctx. The dial timeout is capped by the
// time left on ctx; once connected, the channel work runs in a goroutine and
// the connection is closed on expiry so that goroutine unblocks.
func (p *Publisher) publish(ctx context.Context, messageID string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	conn, err := p.dial(p.URL, p.dialTimeout(ctx))
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	done := make(chan error, 1)
	go func() { done <- p.send(ctx, conn, messageID, body) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("publish abandoned: %w", ctx.Err())
	}
}

func (p *Publisher) dialTimeout(ctx context.Context) time.Duration {
	timeout := p.DialTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); timeout <= 0 || left < timeout {
			timeout = left
		}
	}
	return timeout
}

func (p *Publisher) send(ctx context.Context, conn connection, messageID string, body []byte) error {
	ch, err := conn.openChannel()
	if err != nil {
		return fmt.Errorf("amqp channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		p.Queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	err = ch.PublishWithContext(ctx,
		"",      // default exchange
		p.Queue, // routing key = queue
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    messageID,
			Type:         event.UserCreatedName,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

var _ event.Publisher = (*Publisher)(nil)

package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-events-service/internal/domain/event"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { f.closed = true; return nil }

func TestPublisher_PublishUserCreated(t *testing.T) {
	w := &fakeWriter{}
	p := NewPublisher([]string{"localhost:9092"}, "user_events")
	var gotTopic string
	p.newWriter = func(brokers []string, topic string) messageWriter {
		gotTopic = topic
		return w
	}

	err := p.PublishUserCreated(context.Background(), event.UserCreated{UUID: "uuid-9", Name: "Kafka User"})

	require.NoError(t, err)
	assert.Equal(t, "user_events", gotTopic)
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "uuid-9", string(w.msgs[0].Key))
	assert.JSONEq(t, `{"uuid":"uuid-9","name":"Kafka User"}`, string(w.msgs[0].Value))
	assert.True(t, w.closed)
}

func TestPublisher_WriteError(t *testing.T) {
	boom := errors.New("leader not available")
	w := &fakeWriter{err: boom}
	p := NewPublisher(nil, "user_events")
	p.newWriter = func([]string, string) messageWriter { return w }

	err := p.PublishUserCreated(context.Background(), event.UserCreated{UUID: "u"})

	assert.ErrorIs(t, err, boom)
	assert.True(t, w.closed)
}

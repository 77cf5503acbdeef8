package application

import (
	"context"
	"expvar"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-events-service/internal/domain/entity"
	"github.com/oksasatya/user-events-service/internal/domain/event"
	"github.com/oksasatya/user-events-service/pkg/helpers"
)

const defaultPublishTimeout = 5 * time.Second

var (
	eventsPublished = expvar.NewInt("user_events_published")
	eventsFailed    = expvar.NewInt("user_events_failed")
)

// Notifier makes one best-effort publish attempt per created user.
// Failures are logged and counted, never returned.
type Notifier struct {
	Publisher event.Publisher
	Timeout   time.Duration
	Logger    *logrus.Logger
}

func NewNotifier(pub event.Publisher, timeout time.Duration, logger *logrus.Logger) *Notifier {
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}
	return &Notifier{Publisher: pub, Timeout: timeout, Logger: logger}
}

// NotifyUserCreated publishes {uuid, name} for u. It runs on its own context so a
// client disconnect does not abort an attempt already in flight.
func (n *Notifier) NotifyUserCreated(u *entity.User) {
	if n == nil || n.Publisher == nil || u == nil {
		return
	}
	fields := logrus.Fields{"uuid": u.UUID, "name": u.Name, "event": event.UserCreatedName}

	ctx, cancel := context.WithTimeout(context.Background(), n.Timeout)
	defer cancel()

	if err := n.publish(ctx, event.UserCreated{UUID: u.UUID, Name: u.Name}); err != nil {
		eventsFailed.Add(1)
		helpers.LogError(n.Logger, "failed to publish user event", err, fields)
		return
	}
	eventsPublished.Add(1)
	if n.Logger != nil {
		n.Logger.WithFields(fields).Debug("user event published")
	}
}

func (n *Notifier) publish(ctx context.Context, evt event.UserCreated) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("publisher panic: %v", r)
		}
	}()
	return n.Publisher.PublishUserCreated(ctx, evt)
}

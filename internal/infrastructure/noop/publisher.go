package noop

import (
	"context"

	"github.com/oksasatya/user-events-service/internal/domain/event"
)

// Publisher discards events. Selected with EVENT_BROKER=none.
type Publisher struct{}

func (Publisher) PublishUserCreated(context.Context, event.UserCreated) error { return nil }

var _ event.Publisher = Publisher{}

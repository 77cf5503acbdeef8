package application

import (
	"context"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/user-events-service/internal/domain/event"
	"github.com/oksasatya/user-events-service/internal/infrastructure/memory"
	"github.com/oksasatya/user-events-service/pkg/helpers"
)

func init() {
	helpers.PasswordCost = bcrypt.MinCost
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.UserCreated
	ctxErr error
	err    error
	panics bool
}

func (p *recordingPublisher) PublishUserCreated(ctx context.Context, evt event.UserCreated) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	p.ctxErr = ctx.Err()
	if p.panics {
		panic("broker client exploded")
	}
	return p.err
}

func (p *recordingPublisher) calls() []event.UserCreated {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]event.UserCreated(nil), p.events...)
}

func newTestUserService(pub event.Publisher) (*UserService, *memory.UserRepository) {
	repo := memory.NewUserRepository()
	logger := helpers.NewNopLogger()
	svc := NewUserService(repo, NewNotifier(pub, 0, logger), logger)
	return svc, repo
}

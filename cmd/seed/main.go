package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/user-events-service/config"
	"github.com/oksasatya/user-events-service/internal/application"
	pginfra "github.com/oksasatya/user-events-service/internal/infrastructure/postgres"
	"github.com/oksasatya/user-events-service/pkg/apperror"
	"github.com/oksasatya/user-events-service/pkg/helpers"
)

// seed inserts a demo user through the regular create path without publishing events.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{MaxConns: 2})
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer pool.Close()

	svc := application.NewUserService(pginfra.NewUserRepository(pool), nil, logger)

	email := "demo@example.com"
	password := "password123"
	name := "Demo User"

	u, err := svc.Create(ctx, application.CreateUserInput{Name: name, Email: email, Password: password})
	if apperror.KindOf(err) == apperror.KindConflict {
		fmt.Printf("user %s already seeded\n", email)
		return
	}
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%d uuid=%s email=%s name=%s password=%s\n", u.ID, u.UUID, u.Email, u.Name, password)
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-events-service/config"
	"github.com/oksasatya/user-events-service/internal/domain/event"
	"github.com/oksasatya/user-events-service/internal/infrastructure/rabbitmq"
	"github.com/oksasatya/user-events-service/pkg/helpers"
)

// event_worker drains the user events queue and logs every user.created it sees.
// It stands in for a downstream consumer during local development.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-event-worker", cfg.Env)

	if cfg.EventBroker != "rabbitmq" {
		logger.Infof("EVENT_BROKER=%s; event worker only consumes from rabbitmq", cfg.EventBroker)
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEventsQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer := rabbitmq.NewConsumer(cfg.RabbitMQURL, cfg.RabbitMQEventsQueue, 16, logger)
	logger.WithField("queue", cfg.RabbitMQEventsQueue).Info("event worker listening")

	err := consumer.Run(ctx, func(ctx context.Context, evt event.UserCreated) error {
		logger.WithFields(logrus.Fields{
			"event": event.UserCreatedName,
			"uuid":  evt.UUID,
			"name":  evt.Name,
		}).Info("user event received")
		return nil
	})
	if err != nil {
		log.Fatalf("event worker: %v", err)
	}
	logger.Info("event worker stopped")
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/oksasatya/user-events-service/config"
	"github.com/oksasatya/user-events-service/internal/container"
	"github.com/oksasatya/user-events-service/internal/domain/event"
	kafkainfra "github.com/oksasatya/user-events-service/internal/infrastructure/kafka"
	"github.com/oksasatya/user-events-service/internal/infrastructure/memory"
	"github.com/oksasatya/user-events-service/internal/infrastructure/noop"
	pginfra "github.com/oksasatya/user-events-service/internal/infrastructure/postgres"
	"github.com/oksasatya/user-events-service/internal/infrastructure/rabbitmq"
	"github.com/oksasatya/user-events-service/internal/infrastructure/redisstore"
	"github.com/oksasatya/user-events-service/internal/router"
	"github.com/oksasatya/user-events-service/pkg/helpers"
	"github.com/oksasatya/user-events-service/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	// Users: Postgres (with migrations) or in-process
	switch cfg.StoreDriver {
	case "memory":
		logger.Warn("STORE_DRIVER=memory; users are lost on restart")
		container.SetUserRepo(memory.NewUserRepository())
	default:
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{
			MaxConns:    cfg.DBMaxConns,
			MinConns:    cfg.DBMinConns,
			MaxConnLife: cfg.DBMaxConnLife,
		})
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()

		if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		container.SetUserRepo(pginfra.NewUserRepository(pool))
	}

	// Sessions and rate limit counters: Redis or in-process
	switch cfg.CacheDriver {
	case "memory":
		store := memory.NewRateLimitStore(time.Minute)
		defer store.Close()
		container.SetSessionRepo(memory.NewSessionRepository())
		container.SetRateLimitStore(store)
	default:
		rdb, err := helpers.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer func() { _ = rdb.Close() }()
		container.SetSessionRepo(redisstore.NewSessionRepository(rdb))
		container.SetRateLimitStore(redisstore.NewRateLimitStore(rdb))
	}

	container.SetPublisher(newPublisher(cfg, logger))
	container.SetJWT(helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL))
	container.SetConfig(cfg)
	container.SetLogger(logger)

	// Registry: auto-register modules using container
	r := router.NewEngine(cfg, logger)
	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.WithFields(logrus.Fields{
			"store":  cfg.StoreDriver,
			"cache":  cfg.CacheDriver,
			"broker": cfg.EventBroker,
		}).Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

func newPublisher(cfg *config.Config, logger *logrus.Logger) event.Publisher {
	switch cfg.EventBroker {
	case "kafka":
		return kafkainfra.NewPublisher(cfg.KafkaBrokerList(), cfg.KafkaEventsTopic)
	case "none":
		logger.Info("EVENT_BROKER=none; user events are discarded")
		return noop.Publisher{}
	default:
		return rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.RabbitMQEventsQueue, cfg.EventPublishTimeout)
	}
}

func runMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
	// Open sql DB via pgx stdlib
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}

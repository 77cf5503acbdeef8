package container

import (
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-events-service/config"
	"github.com/oksasatya/user-events-service/internal/domain/event"
	"github.com/oksasatya/user-events-service/internal/domain/repository"
	"github.com/oksasatya/user-events-service/pkg/helpers"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg    *config.Config
	logger *logrus.Logger

	jwtManager *helpers.JWTManager

	userRepo       repository.UserRepository
	sessionRepo    repository.SessionRepository
	rateLimitStore repository.RateLimitStore
	publisher      event.Publisher
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config {
	if cfg == nil {
		cfg = config.Load()
	}
	return cfg
}
func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	return logger
}
func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager {
	if jwtManager == nil {
		c := GetConfig()
		jwtManager = helpers.NewJWTManager(c.JWTSecret, c.JWTTTL)
	}
	return jwtManager
}

func SetUserRepo(r repository.UserRepository)       { userRepo = r }
func GetUserRepo() repository.UserRepository        { return userRepo }
func SetSessionRepo(r repository.SessionRepository) { sessionRepo = r }
func GetSessionRepo() repository.SessionRepository  { return sessionRepo }
func SetRateLimitStore(s repository.RateLimitStore) { rateLimitStore = s }
func GetRateLimitStore() repository.RateLimitStore  { return rateLimitStore }
func SetPublisher(p event.Publisher)                { publisher = p }
func GetPublisher() event.Publisher                 { return publisher }

// Reset clears every singleton. Used between router tests.
func Reset() {
	cfg, logger, jwtManager = nil, nil, nil
	userRepo, sessionRepo, rateLimitStore, publisher = nil, nil, nil, nil
}

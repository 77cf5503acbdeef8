package router

import (
	"github.com/oksasatya/user-events-service/docs"
	"github.com/oksasatya/user-events-service/internal/application"
	"github.com/oksasatya/user-events-service/internal/container"
	handlers "github.com/oksasatya/user-events-service/internal/interface/http"
	"github.com/oksasatya/user-events-service/internal/router/modules"
)

type ModuleDeps struct {
	Auth        *application.AuthService
	UserHandler *handlers.UserHandler
	AuthHandler *handlers.AuthHandler
}

func buildDeps() ModuleDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	notifier := application.NewNotifier(container.GetPublisher(), cfg.EventPublishTimeout, logger)
	users := application.NewUserService(container.GetUserRepo(), notifier, logger)
	auth := application.NewAuthService(users, container.GetSessionRepo(), container.GetJWT(), logger)

	return ModuleDeps{
		Auth:        auth,
		UserHandler: handlers.NewUserHandler(users),
		AuthHandler: handlers.NewAuthHandler(auth),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	deps := buildDeps()

	r.Add(modules.NewAuthModule(deps.AuthHandler, deps.Auth))
	r.Add(modules.NewUserModule(deps.UserHandler, deps.Auth))
	if cfg.DocsEnabled {
		r.Add(modules.NewDocsModule(handlers.NewDocsHandler(docs.OpenAPI)))
	}
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}

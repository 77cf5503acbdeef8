package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-events-service/config"
	"github.com/oksasatya/user-events-service/internal/interface/middleware"
	"github.com/oksasatya/user-events-service/pkg/apperror"
	"github.com/oksasatya/user-events-service/pkg/response"
)

// Registry collects modules and mounts them under /api.
type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	api := engine.Group("/api")
	return &Registry{Engine: engine, API: api}
}

func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
}

// NewEngine builds the gin engine with the global middleware chain:
// recovery, request id, real ip, CORS, optional access log and the error translator.
func NewEngine(cfg *config.Config, logger *logrus.Logger) *gin.Engine {
	r := gin.New()
	trustProxies(r, cfg, logger)
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RealIP())
	r.Use(cors.New(corsConfig(cfg)))
	if cfg.HTTPLogEnabled {
		r.Use(middleware.AccessLog(logger))
	}
	r.Use(middleware.ErrorHandler(logger))

	r.NoRoute(func(c *gin.Context) {
		response.FromError(c, apperror.NotFound("route not found"))
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

// trustProxies limits forwarding headers to TRUSTED_PROXIES peers; with none
// configured the remote address is the client IP.
func trustProxies(r *gin.Engine, cfg *config.Config, logger *logrus.Logger) {
	switch cfg.TrustedPlatform {
	case "cloudflare":
		r.TrustedPlatform = gin.PlatformCloudflare
	case "appengine":
		r.TrustedPlatform = gin.PlatformGoogleAppEngine
	}
	if err := r.SetTrustedProxies(cfg.TrustedProxyList()); err != nil {
		logger.WithError(err).Warn("invalid TRUSTED_PROXIES, trusting no proxies")
		_ = r.SetTrustedProxies(nil)
	}
}

// corsConfig allows any origin without credentials when CORS_ALLOWED_ORIGINS is empty.
func corsConfig(cfg *config.Config) cors.Config {
	cc := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{"Content-Length", middleware.HeaderRequestID, "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if origins := cfg.CORSOrigins(); len(origins) > 0 {
		cc.AllowOrigins = origins
		cc.AllowCredentials = true
	} else {
		cc.AllowAllOrigins = true
	}
	return cc
}

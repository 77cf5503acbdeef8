package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/user-events-service/internal/container"
	"github.com/oksasatya/user-events-service/internal/interface/middleware"
)

// Per-minute request budgets per client signature.
const (
	limitRegister = 3
	limitLogin    = 5
	limitSession  = 10
	limitProfile  = 30
	limitUsers    = 60
	limitDebug    = 120
)

// perMinute builds a signature keyed limiter, or a pass-through when rate limiting is off.
func perMinute(max int) gin.HandlerFunc {
	cfg := container.GetConfig()
	if !cfg.RateLimitEnabled {
		return func(c *gin.Context) { c.Next() }
	}
	return middleware.RateLimit(
		container.GetRateLimitStore(),
		max,
		time.Minute,
		middleware.KeyBySignature(),
		middleware.AllowIf(cfg.RateLimitBypassPrivate, middleware.AllowPrivateIP()),
		container.GetLogger(),
	)
}

package middleware

import (
	"github.com/gin-gonic/gin"
)

// RealIP sets the client IP into Gin context (key: "real_ip").
// The value is c.ClientIP(), so CF-Connecting-IP / X-Forwarded-For / X-Real-IP
// only count when the engine trusts them (TrustedPlatform, SetTrustedProxies).
// Any other peer is identified by its remote address.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("real_ip", c.ClientIP())
		c.Next()
	}
}

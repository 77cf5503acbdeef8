package middleware

import (
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	repo "github.com/oksasatya/user-events-service/internal/domain/repository"
	"github.com/oksasatya/user-events-service/pkg/apperror"
	"github.com/oksasatya/user-events-service/pkg/response"
)

// ipFromCtx extracts the client IP from Gin context, falling back to "unknown"
func ipFromCtx(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

func normalizePath(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

// KeyFunc builds a rate-limit key from the request
type KeyFunc func(c *gin.Context) string

// KeyBySignature limits per client: sha1 of IP, User-Agent and route path.
func KeyBySignature() KeyFunc {
	return func(c *gin.Context) string {
		sum := sha1.Sum([]byte(ipFromCtx(c) + "|" + c.Request.UserAgent() + "|" + normalizePath(c)))
		return "rl:" + hex.EncodeToString(sum[:])
	}
}

// KeyByIP returns a key function that limits by client IP only
func KeyByIP() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:ip:" + ipFromCtx(c)
	}
}

type AllowFunc func(*gin.Context) bool // return true for bypass limit

// RateLimit is a fixed-window limiter over store:
// - rejected requests get 429, Retry-After and retry_after in the body
// - accepted requests get X-RateLimit-Limit / X-RateLimit-Remaining
// - store errors fail open
func RateLimit(store repo.RateLimitStore, max int, window time.Duration, keyFn KeyFunc, allow AllowFunc, logger *logrus.Logger) gin.HandlerFunc {
	if store == nil || max <= 0 || window <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if allow != nil && allow(c) {
			c.Next()
			return
		}
		if strings.EqualFold(c.Request.Method, http.MethodOptions) {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := keyFn(c)

		tooMany, retryIn, err := store.TooMany(ctx, key, max)
		if err != nil {
			warnFailOpen(logger, key, err)
			c.Next()
			return
		}
		if tooMany {
			reject(c, max, retryIn)
			return
		}

		// concurrent requests can all pass TooMany; the post-increment count decides
		count, err := store.Hit(ctx, key, window)
		if err != nil {
			warnFailOpen(logger, key, err)
			c.Next()
			return
		}
		if count > max {
			if _, retryIn, err = store.TooMany(ctx, key, max); err != nil || retryIn <= 0 {
				retryIn = window
			}
			reject(c, max, retryIn)
			return
		}
		remaining, err := store.Remaining(ctx, key, max)
		if err == nil {
			c.Header("X-RateLimit-Limit", strconv.Itoa(max))
			c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		}
		c.Next()
	}
}

func reject(c *gin.Context, max int, retryIn time.Duration) {
	retryAfter := int((retryIn + time.Second - 1) / time.Second)
	if retryAfter < 1 {
		retryAfter = 1
	}
	c.Header("X-RateLimit-Limit", strconv.Itoa(max))
	c.Header("X-RateLimit-Remaining", "0")
	c.Header("Retry-After", strconv.Itoa(retryAfter))
	c.Set("retry_after", retryAfter)
	response.FromError(c, apperror.RateLimited("too many requests"))
}

func warnFailOpen(logger *logrus.Logger, key string, err error) {
	if logger == nil {
		return
	}
	logger.WithError(err).WithField("key", key).Warn("rate limit store unavailable, allowing request")
}

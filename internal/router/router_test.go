package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/user-events-service/config"
	"github.com/oksasatya/user-events-service/internal/container"
	"github.com/oksasatya/user-events-service/internal/domain/event"
	"github.com/oksasatya/user-events-service/internal/infrastructure/memory"
	"github.com/oksasatya/user-events-service/pkg/helpers"
	"github.com/oksasatya/user-events-service/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
	helpers.PasswordCost = bcrypt.MinCost
}

type countingPublisher struct{ n int }

func (p *countingPublisher) PublishUserCreated(context.Context, event.UserCreated) error {
	p.n++
	return nil
}

func setup(t *testing.T, mutate func(*config.Config)) (*gin.Engine, *countingPublisher) {
	t.Helper()
	container.Reset()
	t.Cleanup(container.Reset)

	cfg := &config.Config{
		JWTSecret:           "router-secret",
		JWTTTL:              time.Hour,
		EventPublishTimeout: time.Second,
		RateLimitEnabled:    true,
		DocsEnabled:         true,
		DebugMetricsEnabled: true,
	}
	if mutate != nil {
		mutate(cfg)
	}
	store := memory.NewRateLimitStore(time.Minute)
	t.Cleanup(store.Close)
	pub := &countingPublisher{}

	container.SetConfig(cfg)
	container.SetLogger(helpers.NewNopLogger())
	container.SetUserRepo(memory.NewUserRepository())
	container.SetSessionRepo(memory.NewSessionRepository())
	container.SetRateLimitStore(store)
	container.SetPublisher(pub)

	engine := NewEngine(cfg, container.GetLogger())
	reg := NewRegistry(engine)
	InitModules(reg)
	reg.RegisterAll()
	return engine, pub
}

func post(engine *gin.Engine, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRoutes_RegisterThenCreate(t *testing.T) {
	engine, pub := setup(t, nil)

	w := post(engine, "/api/auth/register", `{"name":"Router User","email":"router@example.com","password":"secret123"}`, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var reg struct {
		Authorization struct {
			Token string `json:"token"`
		} `json:"authorization"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reg))

	w = post(engine, "/api/users", `{"name":"New User","email":"new@example.com"}`, reg.Authorization.Token)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "60", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, 2, pub.n, "register and create each publish once")
}

func TestRoutes_RegisterIsRateLimited(t *testing.T) {
	engine, _ := setup(t, nil)

	for i := 0; i < 3; i++ {
		w := post(engine, "/api/auth/register", `{}`, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
	w := post(engine, "/api/auth/register", `{}`, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRoutes_RateLimitDisabled(t *testing.T) {
	engine, _ := setup(t, func(c *config.Config) { c.RateLimitEnabled = false })

	for i := 0; i < 5; i++ {
		w := post(engine, "/api/auth/register", `{}`, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestRoutes_OptionalModules(t *testing.T) {
	engine, _ := setup(t, nil)
	for _, path := range []string{"/api/docs/openapi.json", "/api/debug/vars", "/healthz"} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	engine, _ = setup(t, func(c *config.Config) {
		c.DocsEnabled = false
		c.DebugMetricsEnabled = false
	})
	for _, path := range []string{"/api/docs/openapi.json", "/api/debug/vars"} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}

func TestDocsAreValidJSON(t *testing.T) {
	engine, _ := setup(t, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/docs/openapi.json", nil))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Contains(t, doc["paths"], "/users/{id}")
}

func TestRoutes_LoginLimitIgnoresForgedForwardedFor(t *testing.T) {
	engine, _ := setup(t, nil)

	codes := make([]int, 0, 6)
	for i := 0; i < 6; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", "198.51.100."+strconv.Itoa(i))
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, codes[5], "codes: %v", codes)
}

func TestNewEngine_TrustedProxies(t *testing.T) {
	clientIP := func(cfg *config.Config, headers map[string]string) string {
		engine := NewEngine(cfg, helpers.NewNopLogger())
		engine.GET("/ip", func(c *gin.Context) { c.String(http.StatusOK, c.ClientIP()) })
		req := httptest.NewRequest(http.MethodGet, "/ip", nil)
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w.Body.String()
	}
	xff := map[string]string{"X-Forwarded-For": "198.51.100.7"}

	assert.Equal(t, "192.0.2.1", clientIP(&config.Config{}, xff))
	assert.Equal(t, "198.51.100.7", clientIP(&config.Config{TrustedProxies: "192.0.2.0/24"}, xff))
	assert.Equal(t, "192.0.2.1", clientIP(&config.Config{TrustedProxies: "not-a-cidr"}, xff))
	assert.Equal(t, "203.0.113.5", clientIP(&config.Config{TrustedPlatform: "cloudflare"},
		map[string]string{"CF-Connecting-IP": "203.0.113.5"}))
}

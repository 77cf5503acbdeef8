package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/user-events-service/internal/interface/http"
	"github.com/oksasatya/user-events-service/internal/interface/middleware"
)

type AuthModule struct {
	Handler   *handlers.AuthHandler
	Validator middleware.TokenValidator
}

func NewAuthModule(h *handlers.AuthHandler, v middleware.TokenValidator) *AuthModule {
	return &AuthModule{Handler: h, Validator: v}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public, strict limits
	rg.POST("/auth/register", perMinute(limitRegister), m.Handler.Register)
	rg.POST("/auth/login", perMinute(limitLogin), m.Handler.Login)

	// Protected
	auth := rg.Group("/auth")
	auth.Use(middleware.Auth(m.Validator))
	{
		auth.POST("/logout", perMinute(limitSession), m.Handler.Logout)
		auth.POST("/refresh", perMinute(limitSession), m.Handler.Refresh)
		auth.GET("/user-profile", perMinute(limitProfile), m.Handler.Profile)
	}
}

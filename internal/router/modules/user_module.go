package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/user-events-service/internal/interface/http"
	"github.com/oksasatya/user-events-service/internal/interface/middleware"
)

// UserModule wires the user CRUD handlers behind bearer auth.
// GET/POST /api/users, GET/PUT/DELETE /api/users/:id
type UserModule struct {
	Handler   *handlers.UserHandler
	Validator middleware.TokenValidator
}

func NewUserModule(h *handlers.UserHandler, v middleware.TokenValidator) *UserModule {
	return &UserModule{Handler: h, Validator: v}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.Use(middleware.Auth(m.Validator), perMinute(limitUsers))
	{
		users.GET("", m.Handler.List)
		users.POST("", m.Handler.Create)
		users.GET("/:id", m.Handler.Show)
		users.PUT("/:id", m.Handler.Update)
		users.DELETE("/:id", m.Handler.Delete)
	}
}

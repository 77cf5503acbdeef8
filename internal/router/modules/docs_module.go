package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/user-events-service/internal/interface/http"
)

type DocsModule struct {
	Handler *handlers.DocsHandler
}

func NewDocsModule(h *handlers.DocsHandler) *DocsModule {
	return &DocsModule{Handler: h}
}

func (m *DocsModule) Register(rg *gin.RouterGroup) {
	rg.GET("/docs/openapi.json", m.Handler.OpenAPI)
}

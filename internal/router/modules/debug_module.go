package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"
)

type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// Public metrics endpoint (expvar), includes user_events_published / user_events_failed
	rg.GET("/debug/vars", perMinute(limitDebug), gin.WrapH(expvar.Handler()))
}

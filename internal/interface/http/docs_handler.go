package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type DocsHandler struct {
	Document []byte
}

func NewDocsHandler(doc []byte) *DocsHandler {
	return &DocsHandler{Document: doc}
}

// OpenAPI GET /api/docs/openapi.json
func (h *DocsHandler) OpenAPI(c *gin.Context) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", h.Document)
}

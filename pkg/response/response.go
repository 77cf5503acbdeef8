package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/user-events-service/pkg/apperror"
)

// ErrorBody is the envelope rendered for every failed request.
type ErrorBody struct {
	Status     string            `json:"status"`
	Message    string            `json:"message"`
	Errors     map[string]string `json:"errors,omitempty"`
	RetryAfter int               `json:"retry_after,omitempty"`
	RequestID  string            `json:"request_id,omitempty"`
}

// StatusBody is the envelope for auth style responses: {status, message, ...extra}.
func StatusBody(message string, extra gin.H) gin.H {
	body := gin.H{"status": "success"}
	if message != "" {
		body["message"] = message
	}
	for k, v := range extra {
		body[k] = v
	}
	return body
}

// Success writes data as-is with status.
func Success(ctx *gin.Context, status int, data any) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, data)
}

// NoContent writes an empty 204.
func NoContent(ctx *gin.Context) {
	ctx.Status(http.StatusNoContent)
}

// BuildError converts err into the status and body sent to the client.
func BuildError(ctx *gin.Context, err error) (int, ErrorBody) {
	ae := apperror.From(err)
	body := ErrorBody{
		Status:    "error",
		Message:   ae.Message,
		Errors:    ae.Fields,
		RequestID: ctx.GetString("request_id"),
	}
	if ae.Kind == apperror.KindRateLimit {
		body.RetryAfter = ctx.GetInt("retry_after")
	}
	return ae.HTTPStatus(), body
}

// FromError renders err and aborts the handler chain.
func FromError(ctx *gin.Context, err error) {
	status, body := BuildError(ctx, err)
	ctx.AbortWithStatusJSON(status, body)
}

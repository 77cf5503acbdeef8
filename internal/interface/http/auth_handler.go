package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/user-events-service/internal/application"
	"github.com/oksasatya/user-events-service/internal/domain/entity"
	"github.com/oksasatya/user-events-service/internal/interface/middleware"
	"github.com/oksasatya/user-events-service/pkg/apperror"
	"github.com/oksasatya/user-events-service/pkg/helpers"
	"github.com/oksasatya/user-events-service/pkg/response"
	"github.com/oksasatya/user-events-service/pkg/validation"
)

type AuthHandler struct {
	Svc *application.AuthService
}

func NewAuthHandler(svc *application.AuthService) *AuthHandler {
	return &AuthHandler{Svc: svc}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,username"`
	Email    string `json:"email" binding:"required,useremail"`
	Password string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

func authBody(message string, u *entity.User, tok application.Token) gin.H {
	return response.StatusBody(message, gin.H{
		"user": userJSON(u),
		"authorization": gin.H{
			"token":      tok.AccessToken,
			"type":       tok.Type,
			"expires_in": tok.ExpiresIn,
		},
	})
}

// claims returns the token claims set by the auth middleware.
func claims(c *gin.Context) (*helpers.Claims, bool) {
	cl := middleware.ClaimsFrom(c)
	if cl == nil {
		_ = c.Error(apperror.Auth("unauthenticated"))
		return nil, false
	}
	return cl, true
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(validation.Error(err))
		return
	}
	u, tok, err := h.Svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, authBody("user registered", u, tok))
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(validation.Error(err).WithStatus(http.StatusUnprocessableEntity))
		return
	}
	u, tok, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, authBody("login successful", u, tok))
}

// Logout POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	cl, ok := claims(c)
	if !ok {
		return
	}
	if err := h.Svc.Logout(c.Request.Context(), cl); err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, response.StatusBody("logged out", nil))
}

// Refresh POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	cl, ok := claims(c)
	if !ok {
		return
	}
	u, tok, err := h.Svc.Refresh(c.Request.Context(), cl)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, authBody("token refreshed", u, tok))
}

// Profile GET /api/auth/user-profile
func (h *AuthHandler) Profile(c *gin.Context) {
	cl, ok := claims(c)
	if !ok {
		return
	}
	u, err := h.Svc.CurrentUser(c.Request.Context(), cl)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, response.StatusBody("", gin.H{"user": userJSON(u)}))
}

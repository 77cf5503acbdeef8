package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/user-events-service/internal/application"
	"github.com/oksasatya/user-events-service/pkg/apperror"
	"github.com/oksasatya/user-events-service/pkg/response"
	"github.com/oksasatya/user-events-service/pkg/validation"
)

type UserHandler struct {
	Svc *application.UserService
}

func NewUserHandler(svc *application.UserService) *UserHandler {
	return &UserHandler{Svc: svc}
}

type createUserRequest struct {
	Name     string `json:"name" binding:"required,username"`
	Email    string `json:"email" binding:"required,useremail"`
	Password string `json:"password" binding:"omitempty,pwd"`
}

type updateUserRequest struct {
	Name     *string `json:"name" binding:"omitempty,username"`
	Email    *string `json:"email" binding:"omitempty,useremail"`
	Password *string `json:"password" binding:"omitempty,pwd"`
}

// userID reads the :id path parameter. Anything that is not a positive integer cannot
// name a user, so it is reported as not found.
func userID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.NotFound("user not found")
	}
	return id, nil
}

// List GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, usersJSON(users))
}

// Create POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(validation.Error(err))
		return
	}
	u, err := h.Svc.Create(c.Request.Context(), application.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, userJSON(u))
}

// Show GET /api/users/:id
func (h *UserHandler) Show(c *gin.Context) {
	id, err := userID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	u, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, userJSON(u))
}

// Update PUT /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, err := userID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(validation.Error(err).WithStatus(http.StatusUnprocessableEntity))
		return
	}
	u, err := h.Svc.Update(c.Request.Context(), id, application.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, userJSON(u))
}

// Delete DELETE /api/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := userID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	response.NoContent(c)
}

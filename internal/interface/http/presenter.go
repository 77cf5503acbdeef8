package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/user-events-service/internal/domain/entity"
)

// userJSON is the outward projection of a user; the password hash never leaves here.
func userJSON(u *entity.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"uuid":       u.UUID,
		"name":       u.Name,
		"email":      u.Email,
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
	}
}

func usersJSON(users []*entity.User) []gin.H {
	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, userJSON(u))
	}
	return out
}

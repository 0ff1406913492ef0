package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Jayasakthi-07/foodie/internal/domain/model"
	"github.com/Jayasakthi-07/foodie/internal/server/http/middleware"
)

// CurrentUserID extracts authenticated user identifier from context.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(middleware.UserIDContextKey)
}

// CurrentUser rebuilds the authenticated user from context values.
func CurrentUser(c *gin.Context) *model.User {
	role, _ := c.Get(middleware.RoleContextKey)
	r, _ := role.(model.Role)
	return &model.User{ID: CurrentUserID(c), Role: r}
}

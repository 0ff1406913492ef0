package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Jayasakthi-07/foodie/internal/domain/model"
	pkgAuth "github.com/Jayasakthi-07/foodie/internal/pkg/auth"
)

const (
	// UserIDContextKey is a gin context key for authenticated user identifier.
	UserIDContextKey = "userID"
	// RoleContextKey holds the model.Role of the authenticated user.
	RoleContextKey = "role"
	authCookieName = "foodie_token"
)

// Identifier resolves a session token to the user it was issued for.
type Identifier interface {
	Identify(ctx context.Context, token string) (*model.User, error)
}

// AuthRequired ensures user is authenticated before accessing handler.
func AuthRequired(identifier Identifier) gin.HandlerFunc {
	return authenticate(identifier, false)
}

// SocketAuth is AuthRequired that also accepts the token as ?token= query
// parameter, since browsers cannot set headers on websocket handshakes.
func SocketAuth(identifier Identifier) gin.HandlerFunc {
	return authenticate(identifier, true)
}

func authenticate(identifier Identifier, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" && allowQuery {
			token = c.Query("token")
		}
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		user, err := identifier.Identify(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.Set(UserIDContextKey, user.ID)
		c.Set(RoleContextKey, user.Role)
		c.Next()
	}
}

// StaffRequired lets through only admins and restaurant managers.
// It must run after AuthRequired.
func StaffRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get(RoleContextKey)
		if r, ok := role.(model.Role); !ok || !r.IsStaff() {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie writes auth token cookie to response.
func SetAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(authCookieName, token, 0, "/", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}

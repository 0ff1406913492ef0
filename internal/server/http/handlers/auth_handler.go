package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/Jayasakthi-07/foodie/internal/domain/errors"
	"github.com/Jayasakthi-07/foodie/internal/domain/model"
	"github.com/Jayasakthi-07/foodie/internal/server/http/dto"
	"github.com/Jayasakthi-07/foodie/internal/server/http/middleware"
)

// AuthHandler signs customers up and in.
type AuthHandler struct {
	facade AuthFacade
}

func NewAuthHandler(facade AuthFacade) *AuthHandler {
	return &AuthHandler{facade: facade}
}

// Register handles POST /api/user/register. Accounts created here are
// always customers; any role in the body is ignored.
func (h *AuthHandler) Register(c *gin.Context) {
	req, ok := bindCredentials(c)
	if !ok {
		return
	}

	user, token, err := h.facade.Register(c.Request.Context(), req.Login, req.Password)
	switch {
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		c.Status(http.StatusBadRequest)
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		c.Status(http.StatusConflict)
	case err != nil:
		c.Status(http.StatusInternalServerError)
	default:
		respondWithSession(c, http.StatusCreated, user, token)
	}
}

// Login handles POST /api/user/login.
func (h *AuthHandler) Login(c *gin.Context) {
	req, ok := bindCredentials(c)
	if !ok {
		return
	}

	user, token, err := h.facade.Authenticate(c.Request.Context(), req.Login, req.Password)
	switch {
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		c.Status(http.StatusUnauthorized)
	case err != nil:
		c.Status(http.StatusInternalServerError)
	default:
		respondWithSession(c, http.StatusOK, user, token)
	}
}

func bindCredentials(c *gin.Context) (dto.AuthRequest, bool) {
	var req dto.AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func respondWithSession(c *gin.Context, status int, user *model.User, token string) {
	middleware.SetAuthCookie(c, token)
	c.JSON(status, dto.AuthResponse{User: toUserResponse(user), AccessToken: token})
}

func toUserResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Login:     user.Login,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}
}

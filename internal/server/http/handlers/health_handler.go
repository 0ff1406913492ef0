package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Jayasakthi-07/foodie/internal/server/http/dto"
)

// HealthHandler reports service liveness.
type HealthHandler struct {
	facade HealthFacade
}

func NewHealthHandler(facade HealthFacade) *HealthHandler {
	return &HealthHandler{facade: facade}
}

// Check handles GET /api/health.
func (h *HealthHandler) Check(c *gin.Context) {
	if err := h.facade.Health(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, dto.HealthResponse{Status: "DEGRADED", Database: "unreachable"})
		return
	}
	c.JSON(http.StatusOK, dto.HealthResponse{Status: "OK", Database: "connected"})
}

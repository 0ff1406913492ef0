package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Jayasakthi-07/foodie/internal/notify/ws"
)

// SocketHandler upgrades authenticated requests to websocket connections.
type SocketHandler struct {
	server SocketServer
	logger *slog.Logger
}

func NewSocketHandler(server SocketServer, logger *slog.Logger) *SocketHandler {
	return &SocketHandler{server: server, logger: logger}
}

// Connect handles GET /ws.
func (h *SocketHandler) Connect(c *gin.Context) {
	user := CurrentUser(c)
	identity := ws.Identity{UserID: user.ID, Staff: user.Role.IsStaff()}

	if err := h.server.ServeWS(c.Writer, c.Request, identity); err != nil {
		h.logger.Warn("websocket connect failed", slog.String("user_id", user.ID), slog.String("error", err.Error()))
		if errors.Is(err, ws.ErrHubClosed) && !c.Writer.Written() {
			c.Status(http.StatusServiceUnavailable)
		}
		return
	}
	h.logger.Debug("websocket connected", slog.String("user_id", user.ID), slog.Bool("staff", identity.Staff))
}

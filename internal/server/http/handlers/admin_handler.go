package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/Jayasakthi-07/foodie/internal/domain/errors"
	"github.com/Jayasakthi-07/foodie/internal/domain/model"
	"github.com/Jayasakthi-07/foodie/internal/server/http/dto"
)

// AdminHandler serves the staff back-office.
type AdminHandler struct {
	facade AdminFacade
	orders *OrderHandler
}

// NewAdminHandler constructs AdminHandler. Orders are rendered the same way
// as on the customer endpoints.
func NewAdminHandler(facade FoodieFacade) *AdminHandler {
	return &AdminHandler{facade: facade, orders: NewOrderHandler(facade)}
}

// ListOrders handles GET /api/admin/orders?status=&restaurantId=&page=&limit=.
func (h *AdminHandler) ListOrders(c *gin.Context) {
	q, ok := bindOrderQuery(c)
	if !ok {
		return
	}

	page, err := h.facade.AllOrders(c.Request.Context(), CurrentUser(c), q)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeOrderPage(c, page, h.orders.toOrderResponse)
}

// SetStatus handles PUT /api/admin/orders/:id/status.
func (h *AdminHandler) SetStatus(c *gin.Context) {
	var req dto.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.SetOrderStatus(c.Request.Context(), CurrentUser(c), c.Param("id"), model.OrderStatus(req.Status))
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.orders.toOrderResponse(*order))
}

// AssignRole handles PUT /api/admin/users/:id/role.
func (h *AdminHandler) AssignRole(c *gin.Context) {
	var req dto.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	user, err := h.facade.AssignRole(c.Request.Context(), CurrentUser(c), c.Param("id"), model.Role(req.Role))
	switch {
	case errors.Is(err, domainErrors.ErrInvalidRole):
		c.Status(http.StatusBadRequest)
	case errors.Is(err, domainErrors.ErrForbidden):
		c.Status(http.StatusForbidden)
	case errors.Is(err, domainErrors.ErrNotFound):
		c.Status(http.StatusNotFound)
	case err != nil:
		c.Status(http.StatusInternalServerError)
	default:
		c.JSON(http.StatusOK, toUserResponse(user))
	}
}

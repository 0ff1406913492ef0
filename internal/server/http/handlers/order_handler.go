package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/Jayasakthi-07/foodie/internal/domain/errors"
	"github.com/Jayasakthi-07/foodie/internal/domain/model"
	"github.com/Jayasakthi-07/foodie/internal/server/http/dto"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.PlaceOrder(c.Request.Context(), CurrentUserID(c), req.RestaurantID, req.Notes, req.ScheduledAt)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidOrder):
			c.Status(http.StatusBadRequest)
		case errors.Is(err, domainErrors.ErrInvalidSchedule):
			c.Status(http.StatusUnprocessableEntity)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, h.toOrderResponse(*order))
}

// List handles GET /api/orders?status=&page=&limit=.
func (h *OrderHandler) List(c *gin.Context) {
	q, ok := bindOrderQuery(c)
	if !ok {
		return
	}

	page, err := h.facade.Orders(c.Request.Context(), CurrentUserID(c), q)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeOrderPage(c, page, h.toOrderResponse)
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.facade.Order(c.Request.Context(), CurrentUser(c), c.Param("id"))
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toOrderResponse(*order))
}

// Cancel handles PUT /api/orders/:id/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	order, err := h.facade.CancelOrder(c.Request.Context(), CurrentUserID(c), c.Param("id"))
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toOrderResponse(*order))
}

func writeOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		c.Status(http.StatusNotFound)
	case errors.Is(err, domainErrors.ErrForbidden):
		c.Status(http.StatusForbidden)
	case errors.Is(err, domainErrors.ErrInvalidQuery), errors.Is(err, domainErrors.ErrInvalidStatus),
		errors.Is(err, domainErrors.ErrInvalidRole):
		c.Status(http.StatusBadRequest)
	case errors.Is(err, domainErrors.ErrOrderNotCancellable), errors.Is(err, domainErrors.ErrStatusConflict),
		errors.Is(err, domainErrors.ErrInvalidTransition):
		c.Status(http.StatusConflict)
	default:
		c.Status(http.StatusInternalServerError)
	}
}

func bindOrderQuery(c *gin.Context) (model.OrderQuery, bool) {
	var req dto.OrderListQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return model.OrderQuery{}, false
	}
	return model.OrderQuery{
		Status:       model.OrderStatus(req.Status),
		RestaurantID: req.RestaurantID,
		Page:         req.Page,
		Limit:        req.Limit,
	}, true
}

func writeOrderPage(c *gin.Context, page model.OrderPage, render func(model.Order) dto.OrderResponse) {
	if page.Total == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	orders := make([]dto.OrderResponse, 0, len(page.Orders))
	for _, o := range page.Orders {
		orders = append(orders, render(o))
	}
	c.JSON(http.StatusOK, dto.OrderListResponse{
		Orders: orders,
		Pagination: dto.Pagination{
			Page:  page.Page,
			Limit: page.Limit,
			Total: page.Total,
			Pages: page.Pages(),
		},
	})
}

func (h *OrderHandler) toOrderResponse(order model.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:           order.ID,
		Number:       order.Number,
		UserID:       order.UserID,
		RestaurantID: order.RestaurantID,
		Status:       string(order.Status),
		Notes:        order.Notes,
		ScheduledAt:  order.ScheduledAt,
		DeliveredAt:  order.DeliveredAt,
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
	}
	if next, in, ok := h.facade.NextStep(order); ok {
		seconds := int64(in.Round(time.Second) / time.Second)
		resp.NextStatus = string(next)
		resp.NextStatusIn = &seconds
	}
	return resp
}

package dto

import "time"

// CreateOrderRequest is the payload of POST /api/orders.
type CreateOrderRequest struct {
	RestaurantID string     `json:"restaurantId"`
	Notes        string     `json:"notes"`
	ScheduledAt  *time.Time `json:"scheduledAt,omitempty"`
}

// OrderResponse represents an order for the tracking UI.
type OrderResponse struct {
	ID           string     `json:"id"`
	Number       string     `json:"orderNumber"`
	UserID       string     `json:"userId"`
	RestaurantID string     `json:"restaurantId"`
	Status       string     `json:"status"`
	Notes        string     `json:"notes,omitempty"`
	ScheduledAt  *time.Time `json:"scheduledAt,omitempty"`
	DeliveredAt  *time.Time `json:"deliveredAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	// NextStatus and NextStatusIn (seconds) are set while the order is still moving.
	NextStatus   string `json:"nextStatus,omitempty"`
	NextStatusIn *int64 `json:"nextStatusIn,omitempty"`
}

// OrderListQuery binds the paging and filter parameters of order listings.
type OrderListQuery struct {
	Status       string `form:"status"`
	RestaurantID string `form:"restaurantId"`
	Page         int    `form:"page" binding:"omitempty,min=1"`
	Limit        int    `form:"limit" binding:"omitempty,min=1"`
}

// Pagination describes where a page sits in the full listing.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// OrderListResponse is one page of orders.
type OrderListResponse struct {
	Orders     []OrderResponse `json:"orders"`
	Pagination Pagination      `json:"pagination"`
}

// SetStatusRequest is the payload of PUT /api/admin/orders/:id/status.
type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

package model

import "time"

// OrderStatus describes delivery lifecycle.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusReady          OrderStatus = "ready"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// Order describes a food order placed by a user at a restaurant.
type Order struct {
	ID           string
	Number       string
	UserID       string
	RestaurantID string
	Status       OrderStatus
	Notes        string
	ScheduledAt  *time.Time
	DeliveredAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AwaitingActivation reports whether the order was scheduled for later and
// has not been released into the live pipeline yet.
func (o Order) AwaitingActivation() bool {
	return o.ScheduledAt != nil && o.Status == OrderStatusPending
}

// DueForActivation reports whether a dormant order has reached its start time.
func (o Order) DueForActivation(now time.Time) bool {
	return o.AwaitingActivation() && !o.ScheduledAt.After(now)
}

// OrderFilter narrows a stored order listing. Empty fields match every order;
// a zero Limit returns all matches.
type OrderFilter struct {
	UserID       string
	RestaurantID string
	Status       OrderStatus
	Limit        int
	Offset       int
}

// OrderQuery asks for one page of orders. Zero Page and Limit select defaults.
type OrderQuery struct {
	Status       OrderStatus
	RestaurantID string
	Page         int
	Limit        int
}

// OrderPage is one page of an order listing.
type OrderPage struct {
	Orders []Order
	Page   int
	Limit  int
	Total  int
}

// Pages returns how many pages of Limit orders the listing spans.
func (p OrderPage) Pages() int {
	if p.Limit <= 0 {
		return 0
	}
	return (p.Total + p.Limit - 1) / p.Limit
}

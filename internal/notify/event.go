package notify

import (
	"encoding/json"
	"fmt"

	"github.com/Jayasakthi-07/foodie/internal/domain/model"
)

const (
	EventOrderCreated = "order:created"
	EventOrderUpdated = "order:updated"
)

// Event is a named notification with a JSON-serialisable payload.
type Event struct {
	Name    string
	Payload any
}

// OrderUpdated is sent whenever an order changes status.
type OrderUpdated struct {
	OrderID      string            `json:"orderId"`
	Status       model.OrderStatus `json:"status"`
	UserID       string            `json:"userId"`
	RestaurantID string            `json:"restaurantId"`
}

// OrderCreated is sent when an order enters the live pipeline.
type OrderCreated struct {
	OrderID    string            `json:"orderId"`
	Restaurant string            `json:"restaurant"`
	Status     model.OrderStatus `json:"status"`
}

// NewOrderUpdated builds an order:updated event from order state.
func NewOrderUpdated(order model.Order) Event {
	return Event{Name: EventOrderUpdated, Payload: OrderUpdated{
		OrderID:      order.ID,
		Status:       order.Status,
		UserID:       order.UserID,
		RestaurantID: order.RestaurantID,
	}}
}

// NewOrderCreated builds an order:created event from order state.
func NewOrderCreated(order model.Order) Event {
	return Event{Name: EventOrderCreated, Payload: OrderCreated{
		OrderID:    order.ID,
		Restaurant: order.RestaurantID,
		Status:     order.Status,
	}}
}

// Envelope is the wire frame delivered to subscribers.
type Envelope struct {
	Event string `json:"event"`
	Topic string `json:"topic"`
	Data  any    `json:"data"`
}

// Encode renders event as an Envelope addressed to topic.
func Encode(topic string, event Event) ([]byte, error) {
	body, err := json.Marshal(Envelope{Event: event.Name, Topic: topic, Data: event.Payload})
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", event.Name, err)
	}
	return body, nil
}

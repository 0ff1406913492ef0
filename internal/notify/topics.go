package notify

import "strings"

// AdminTopic collects notifications for staff members.
const AdminTopic = "admin"

const (
	orderPrefix      = "order:"
	userPrefix       = "user:"
	restaurantPrefix = "restaurant:"
)

func OrderTopic(orderID string) string { return orderPrefix + orderID }

func UserTopic(userID string) string { return userPrefix + userID }

func RestaurantTopic(restaurantID string) string { return restaurantPrefix + restaurantID }

// IsOrderTopic reports whether topic addresses a single order.
func IsOrderTopic(topic string) bool {
	return strings.HasPrefix(topic, orderPrefix) && len(topic) > len(orderPrefix)
}

// OrderIDFromTopic extracts the order id from an order topic.
func OrderIDFromTopic(topic string) (string, bool) {
	if !IsOrderTopic(topic) {
		return "", false
	}
	return strings.TrimPrefix(topic, orderPrefix), true
}

// UpdatedTopics returns the topics an order:updated event is delivered to.
func UpdatedTopics(orderID, userID string) []string {
	return []string{OrderTopic(orderID), UserTopic(userID)}
}

// CreatedTopics returns the topics an order:created event is delivered to.
func CreatedTopics(orderID, userID, restaurantID string) []string {
	return []string{OrderTopic(orderID), UserTopic(userID), RestaurantTopic(restaurantID), AdminTopic}
}

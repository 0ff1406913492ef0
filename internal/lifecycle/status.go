package lifecycle

import "github.com/Jayasakthi-07/foodie/internal/domain/model"

// Progression lists the statuses an order walks through, in order.
var Progression = [...]model.OrderStatus{
	model.OrderStatusPending,
	model.OrderStatusConfirmed,
	model.OrderStatusPreparing,
	model.OrderStatusReady,
	model.OrderStatusOutForDelivery,
	model.OrderStatusDelivered,
}

// Rank returns the ordinal of status along Progression.
// Cancelled and unknown statuses report -1.
func Rank(status model.OrderStatus) int {
	for i, s := range Progression {
		if s == status {
			return i
		}
	}
	return -1
}

// IsTerminal reports whether no further transition may happen from status.
func IsTerminal(status model.OrderStatus) bool {
	return status == model.OrderStatusDelivered || status == model.OrderStatusCancelled
}

// IsKnown reports whether status is one the service understands.
func IsKnown(status model.OrderStatus) bool {
	return status == model.OrderStatusCancelled || Rank(status) >= 0
}

// TerminalStatuses returns the statuses pollers never touch.
func TerminalStatuses() []model.OrderStatus {
	return []model.OrderStatus{model.OrderStatusDelivered, model.OrderStatusCancelled}
}

// Advances reports whether moving from one status to another is a legal
// forward step of the time-driven machine.
func Advances(from, to model.OrderStatus) bool {
	if IsTerminal(from) {
		return false
	}
	fromRank, toRank := Rank(from), Rank(to)
	if fromRank < 0 || toRank < 0 {
		return false
	}
	return toRank > fromRank
}

// CanSet reports whether staff may move an order from one status to another.
// Staff may skip ahead along Progression or cancel a live order, never go back.
func CanSet(from, to model.OrderStatus) bool {
	if to == model.OrderStatusCancelled {
		return IsKnown(from) && !IsTerminal(from)
	}
	return Advances(from, to)
}

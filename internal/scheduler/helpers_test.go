package scheduler

import (
	"io"
	"log/slog"
	"time"

	"github.com/Jayasakthi-07/foodie/internal/domain/model"
	testhelpers "github.com/Jayasakthi-07/foodie/internal/test"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newOrder(id string, createdAt time.Time) model.Order {
	return model.Order{
		ID:           id,
		Number:       "ORD-" + id,
		UserID:       "user-" + id,
		RestaurantID: "rest-1",
		Status:       model.OrderStatusPending,
		CreatedAt:    createdAt,
	}
}

func scheduledOrder(id string, createdAt, scheduledAt time.Time) model.Order {
	o := newOrder(id, createdAt)
	o.ScheduledAt = &scheduledAt
	return o
}

func storedStatus(store *testhelpers.OrderStore, id string) model.OrderStatus {
	o, _ := store.Order(id)
	return o.Status
}

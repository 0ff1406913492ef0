package repository

import (
	"context"
	"time"

	"github.com/Jayasakthi-07/foodie/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	GetByID(ctx context.Context, id string) (*model.Order, error)
	// List returns the orders matching filter, newest first, and how many match in total.
	List(ctx context.Context, filter model.OrderFilter) ([]model.Order, int, error)

	// FindActive returns every order that is neither delivered nor cancelled.
	FindActive(ctx context.Context) ([]model.Order, error)
	// FindDueScheduled returns pending orders whose scheduled start is at or before now.
	FindDueScheduled(ctx context.Context, now time.Time) ([]model.Order, error)
	// TransitionStatus atomically moves order from one status to another.
	// It fails with ErrStatusConflict when the persisted status is no longer from.
	TransitionStatus(ctx context.Context, id string, from, to model.OrderStatus, deliveredAt *time.Time) (*model.Order, error)
	// Cancel marks a non-terminal order as cancelled.
	Cancel(ctx context.Context, id string) (*model.Order, error)
}

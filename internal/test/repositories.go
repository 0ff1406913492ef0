package test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/Jayasakthi-07/foodie/internal/domain/errors"
	"github.com/Jayasakthi-07/foodie/internal/domain/model"
	"github.com/Jayasakthi-07/foodie/internal/domain/repository"
	"github.com/Jayasakthi-07/foodie/internal/lifecycle"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[string]*model.User
	Next  int
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[string]*model.User),
		Next:  1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, login, passwordHash string, role model.Role) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[string]*model.User)
	}
	if _, exists := s.Users[login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user := &model.User{ID: fmt.Sprintf("user-%d", s.Next), Login: login, PasswordHash: passwordHash, Role: role}
	s.Next++
	s.Users[login] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByLogin fetches user by login or returns not found.
func (s *UserRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[login]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// UpdateRole changes the role of a stored user.
func (s *UserRepositoryStub) UpdateRole(ctx context.Context, id string, role model.Role) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	user, ok := s.ByID[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	user.Role = role
	return user, nil
}

// TransitionCall records a status compare-and-set attempt.
type TransitionCall struct {
	ID          string
	From        model.OrderStatus
	To          model.OrderStatus
	DeliveredAt *time.Time
}

// OrderStore is an in-memory order repository with compare-and-set semantics.
type OrderStore struct {
	mu     sync.Mutex
	orders map[string]model.Order

	// Optional overrides used to inject failures.
	CreateFn           func(context.Context, *model.Order) (*model.Order, error)
	ListFn             func(context.Context, model.OrderFilter) ([]model.Order, int, error)
	FindActiveFn       func(context.Context) ([]model.Order, error)
	FindDueScheduledFn func(context.Context, time.Time) ([]model.Order, error)
	TransitionFn       func(context.Context, string, model.OrderStatus, model.OrderStatus, *time.Time) (*model.Order, error)

	Transitions []TransitionCall
}

// NewOrderStore returns a store seeded with orders.
func NewOrderStore(orders ...model.Order) *OrderStore {
	s := &OrderStore{orders: make(map[string]model.Order)}
	for _, o := range orders {
		s.orders[o.ID] = o
	}
	return s
}

// Put inserts or replaces an order directly.
func (s *OrderStore) Put(order model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = order
}

// Order returns a copy of the stored order.
func (s *OrderStore) Order(id string) (model.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	return o, ok
}

// TransitionCount returns how many compare-and-set attempts were made.
func (s *OrderStore) TransitionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Transitions)
}

// Create stores order unless its id or number is taken.
func (s *OrderStore) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.orders[order.ID]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	for _, o := range s.orders {
		if o.Number == order.Number {
			return nil, domainErrors.ErrAlreadyExists
		}
	}
	stored := *order
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	stored.UpdatedAt = stored.CreatedAt
	s.orders[stored.ID] = stored
	return &stored, nil
}

// GetByID returns order by id.
func (s *OrderStore) GetByID(ctx context.Context, id string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &o, nil
}

// List returns the filtered orders newest first, windowed by offset and limit.
func (s *OrderStore) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, int, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, filter)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Order
	for _, o := range s.orders {
		if filter.UserID != "" && o.UserID != filter.UserID {
			continue
		}
		if filter.RestaurantID != "" && o.RestaurantID != filter.RestaurantID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	total := len(out)
	if filter.Offset >= total {
		return nil, total, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, total, nil
}

// FindActive returns non-terminal orders.
func (s *OrderStore) FindActive(ctx context.Context) ([]model.Order, error) {
	if s.FindActiveFn != nil {
		return s.FindActiveFn(ctx)
	}
	return s.filter(func(o model.Order) bool { return !lifecycle.IsTerminal(o.Status) }), nil
}

// FindDueScheduled returns dormant orders whose start time has passed.
func (s *OrderStore) FindDueScheduled(ctx context.Context, now time.Time) ([]model.Order, error) {
	if s.FindDueScheduledFn != nil {
		return s.FindDueScheduledFn(ctx, now)
	}
	return s.filter(func(o model.Order) bool { return o.DueForActivation(now) }), nil
}

// TransitionStatus applies the update only while the order is still in from.
func (s *OrderStore) TransitionStatus(ctx context.Context, id string, from, to model.OrderStatus, deliveredAt *time.Time) (*model.Order, error) {
	s.mu.Lock()
	s.Transitions = append(s.Transitions, TransitionCall{ID: id, From: from, To: to, DeliveredAt: deliveredAt})
	s.mu.Unlock()

	if s.TransitionFn != nil {
		return s.TransitionFn(ctx, id, from, to, deliveredAt)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if o.Status != from {
		return nil, domainErrors.ErrStatusConflict
	}
	o.Status = to
	if deliveredAt != nil {
		t := *deliveredAt
		o.DeliveredAt = &t
	}
	o.UpdatedAt = time.Now()
	s.orders[id] = o
	return &o, nil
}

// Cancel moves a non-terminal order to cancelled.
func (s *OrderStore) Cancel(ctx context.Context, id string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if lifecycle.IsTerminal(o.Status) {
		return nil, domainErrors.ErrOrderNotCancellable
	}
	o.Status = model.OrderStatusCancelled
	o.UpdatedAt = time.Now()
	s.orders[id] = o
	return &o, nil
}

func (s *OrderStore) filter(keep func(model.Order) bool) []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Order
	for _, o := range s.orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

var _ repository.OrderRepository = (*OrderStore)(nil)
var _ repository.UserRepository = (*UserRepositoryStub)(nil)

// HealthCheckerStub reports the configured error.
type HealthCheckerStub struct {
	Err error
}

// HealthCheck implements repository.HealthChecker.
func (s HealthCheckerStub) HealthCheck(context.Context) error {
	return s.Err
}

var _ repository.HealthChecker = HealthCheckerStub{}

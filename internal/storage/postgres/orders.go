package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/Jayasakthi-07/foodie/internal/domain/errors"
	"github.com/Jayasakthi-07/foodie/internal/domain/model"
)

const orderColumns = `id, number, user_id, restaurant_id, status, notes, scheduled_at, delivered_at, created_at, updated_at`

type orderRepository struct {
	storage *Storage
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.Number, &o.UserID, &o.RestaurantID, &o.Status, &o.Notes,
		&o.ScheduledAt, &o.DeliveredAt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	const query = `INSERT INTO orders (id, number, user_id, restaurant_id, status, notes, scheduled_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7)
                   RETURNING created_at, updated_at`
	created := *order
	err := r.storage.pool.QueryRow(ctx, query,
		order.ID, order.Number, order.UserID, order.RestaurantID, order.Status, order.Notes, order.ScheduledAt,
	).Scan(&created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &created, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, int, error) {
	where, args := filterClause(filter)

	var total int
	if err := r.storage.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 || filter.Offset >= total {
		return nil, total, nil
	}

	query := `SELECT ` + orderColumns + ` FROM orders` + where + ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	}
	orders, err := r.list(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func filterClause(filter model.OrderFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("%s=$%d", column, len(args)))
	}
	if filter.UserID != "" {
		add("user_id", filter.UserID)
	}
	if filter.RestaurantID != "" {
		add("restaurant_id", filter.RestaurantID)
	}
	if filter.Status != "" {
		add("status", filter.Status)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *orderRepository) FindActive(ctx context.Context) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE status NOT IN ($1, $2) ORDER BY created_at`
	return r.list(ctx, query, model.OrderStatusDelivered, model.OrderStatusCancelled)
}

func (r *orderRepository) FindDueScheduled(ctx context.Context, now time.Time) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders
                   WHERE scheduled_at IS NOT NULL AND scheduled_at <= $1 AND status = $2
                   ORDER BY scheduled_at`
	return r.list(ctx, query, now, model.OrderStatusPending)
}

func (r *orderRepository) TransitionStatus(ctx context.Context, id string, from, to model.OrderStatus, deliveredAt *time.Time) (*model.Order, error) {
	const query = `UPDATE orders SET status=$3, delivered_at=COALESCE($4, delivered_at), updated_at=NOW()
                   WHERE id=$1 AND status=$2
                   RETURNING ` + orderColumns
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id, from, to, deliveredAt))
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, domainErrors.ErrStatusConflict
}

func (r *orderRepository) Cancel(ctx context.Context, id string) (*model.Order, error) {
	const query = `UPDATE orders SET status=$2, updated_at=NOW()
                   WHERE id=$1 AND status NOT IN ($3, $4)
                   RETURNING ` + orderColumns
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query,
		id, model.OrderStatusCancelled, model.OrderStatusDelivered, model.OrderStatusCancelled))
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, domainErrors.ErrOrderNotCancellable
}

func (r *orderRepository) list(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

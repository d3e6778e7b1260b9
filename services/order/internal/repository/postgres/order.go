package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ebuitra10/SmartOrderAIProject/pkg/database"
	apperrors "github.com/ebuitra10/SmartOrderAIProject/pkg/errors"
	"github.com/ebuitra10/SmartOrderAIProject/services/order/internal/domain"
)

// OrderRepository implements repository.OrderRepository using PostgreSQL.
type OrderRepository struct {
	pool database.DBTX
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool database.DBTX) *OrderRepository {
	return &OrderRepository{pool: pool}
}

const orderColumns = "id, user_id, order_date, store, total_price, payment_method, created_at, updated_at"

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.OrderDate,
		&o.Store,
		&o.TotalPrice,
		&o.PaymentMethod,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserts a new order and returns it with the generated id.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	query := `
		INSERT INTO orders (user_id, order_date, store, total_price, payment_method, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + orderColumns

	created, err := scanOrder(r.pool.QueryRow(ctx, query,
		order.UserID,
		order.OrderDate,
		order.Store,
		order.TotalPrice,
		order.PaymentMethod,
		order.CreatedAt,
		order.UpdatedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	return created, nil
}

// GetByID retrieves an order by its unique identifier.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("order", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("get order by id: %w", err)
	}

	return order, nil
}

// List returns orders ordered by id with the total count.
func (r *OrderRepository) List(ctx context.Context, page, perPage int) ([]domain.Order, int, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	offset := (page - 1) * perPage

	query := `
		SELECT ` + orderColumns + `, count(*) OVER() AS total_count
		FROM orders
		ORDER BY id
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, perPage, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var totalCount int
	orders := make([]domain.Order, 0)
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.OrderDate, &o.Store, &o.TotalPrice, &o.PaymentMethod, &o.CreatedAt, &o.UpdatedAt, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, totalCount, nil
}

// GetByDate returns all orders placed on the given calendar day.
func (r *OrderRepository) GetByDate(ctx context.Context, date time.Time) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_date::date = $1::date ORDER BY id`

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("get orders by date: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.OrderDate, &o.Store, &o.TotalPrice, &o.PaymentMethod, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, nil
}

// Update replaces the mutable fields of an existing order.
func (r *OrderRepository) Update(ctx context.Context, order *domain.Order) error {
	query := `
		UPDATE orders
		SET user_id = $1, order_date = $2, store = $3, total_price = $4, payment_method = $5, updated_at = $6
		WHERE id = $7`

	ct, err := r.pool.Exec(ctx, query,
		order.UserID,
		order.OrderDate,
		order.Store,
		order.TotalPrice,
		order.PaymentMethod,
		order.UpdatedAt,
		order.ID,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("order", strconv.FormatInt(order.ID, 10))
	}

	return nil
}

// Delete removes an order by id.
func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("order", strconv.FormatInt(id, 10))
	}

	return nil
}

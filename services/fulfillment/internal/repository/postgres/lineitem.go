// Package postgres implements the fulfillment repositories backed by PostgreSQL.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ebuitra10/SmartOrderAIProject/pkg/database"
	apperrors "github.com/ebuitra10/SmartOrderAIProject/pkg/errors"
	"github.com/ebuitra10/SmartOrderAIProject/services/fulfillment/internal/domain"
)

const lineItemColumns = "id, order_id, product_code, quantity, unit_price, subtotal, total_price, created_at"

// LineItemRepository implements repository.LineItemRepository backed by PostgreSQL.
type LineItemRepository struct {
	pool database.DBTX
}

// NewLineItemRepository creates a new PostgreSQL line item repository.
func NewLineItemRepository(pool database.DBTX) *LineItemRepository {
	return &LineItemRepository{pool: pool}
}

// Create persists a line item and returns the stored record.
func (r *LineItemRepository) Create(ctx context.Context, item *domain.LineItem) (*domain.LineItem, error) {
	query := `
		INSERT INTO line_items (order_id, product_code, quantity, unit_price, subtotal, total_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		RETURNING ` + lineItemColumns

	row := r.pool.QueryRow(ctx, query,
		item.OrderID,
		item.ProductCode,
		item.Quantity,
		item.UnitPrice,
		item.Subtotal,
		item.TotalPrice,
	)
	stored, err := scanLineItem(row)
	if err != nil {
		return nil, fmt.Errorf("insert line item: %w", err)
	}
	return stored, nil
}

// GetByOrderID returns the line items for an order, oldest first.
func (r *LineItemRepository) GetByOrderID(ctx context.Context, orderID int64) ([]domain.LineItem, error) {
	query := `SELECT ` + lineItemColumns + ` FROM line_items WHERE order_id = $1 ORDER BY id`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("query line items: %w", err)
	}
	defer rows.Close()

	items := []domain.LineItem{}
	for rows.Next() {
		item, err := scanLineItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan line item row: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate line item rows: %w", err)
	}

	return items, nil
}

// List returns a page of line items across all orders, oldest first, with
// the total count.
func (r *LineItemRepository) List(ctx context.Context, page, perPage int) ([]domain.LineItem, int, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	offset := (page - 1) * perPage

	query := `
		SELECT ` + lineItemColumns + `, count(*) OVER() AS total_count
		FROM line_items
		ORDER BY id
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, perPage, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list line items: %w", err)
	}
	defer rows.Close()

	var totalCount int
	items := make([]domain.LineItem, 0)
	for rows.Next() {
		var item domain.LineItem
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductCode,
			&item.Quantity,
			&item.UnitPrice,
			&item.Subtotal,
			&item.TotalPrice,
			&item.CreatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan line item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate line item rows: %w", err)
	}

	return items, totalCount, nil
}

// DeleteByOrderID removes every line item for an order.
func (r *LineItemRepository) DeleteByOrderID(ctx context.Context, orderID int64) error {
	query := `DELETE FROM line_items WHERE order_id = $1`

	tag, err := r.pool.Exec(ctx, query, orderID)
	if err != nil {
		return fmt.Errorf("delete line items: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.LineItemsNotFound(orderID)
	}
	return nil
}

func scanLineItem(row pgx.Row) (*domain.LineItem, error) {
	var item domain.LineItem
	err := row.Scan(
		&item.ID,
		&item.OrderID,
		&item.ProductCode,
		&item.Quantity,
		&item.UnitPrice,
		&item.Subtotal,
		&item.TotalPrice,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

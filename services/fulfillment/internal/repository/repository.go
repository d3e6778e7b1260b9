// Package repository defines the persistence interfaces for the fulfillment service.
package repository

import (
	"context"

	"github.com/ebuitra10/SmartOrderAIProject/services/fulfillment/internal/domain"
)

// LineItemRepository defines persistence operations for order line items.
type LineItemRepository interface {
	// Create persists a single line item and returns the stored record.
	Create(ctx context.Context, item *domain.LineItem) (*domain.LineItem, error)

	// GetByOrderID returns the line items for an order in insertion order.
	// An order with no items yields an empty slice, not an error.
	GetByOrderID(ctx context.Context, orderID int64) ([]domain.LineItem, error)

	// List returns a page of line items across all orders, oldest first,
	// with the total count.
	List(ctx context.Context, page, perPage int) ([]domain.LineItem, int, error)

	// DeleteByOrderID removes all line items for an order. It fails when
	// no rows match.
	DeleteByOrderID(ctx context.Context, orderID int64) error
}

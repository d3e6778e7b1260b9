package repository

import (
	"context"

	"github.com/ebuitra10/SmartOrderAIProject/services/inventory/internal/domain"
)

// InventoryRepository defines the interface for inventory persistence operations.
type InventoryRepository interface {
	// Upsert creates a stock record for the product code, or adds the given
	// quantity to the existing record and refreshes its unit price. It
	// returns the record as persisted.
	Upsert(ctx context.Context, inv *domain.Inventory) (*domain.Inventory, error)

	// GetByProductCode retrieves the stock record for a product code.
	GetByProductCode(ctx context.Context, productCode string) (*domain.Inventory, error)

	// List returns a page of stock records ordered by product code, with
	// the total count.
	List(ctx context.Context, page, perPage int) ([]domain.Inventory, int, error)

	// DecrementStock subtracts qty from the product's stock and returns the
	// updated record. It fails if the record is missing or the remaining
	// stock would go negative.
	DecrementStock(ctx context.Context, productCode string, qty int) (*domain.Inventory, error)

	// DeleteByProductCode removes the stock record for a product code.
	DeleteByProductCode(ctx context.Context, productCode string) error
}

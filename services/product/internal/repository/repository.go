package repository

import (
	"context"

	"github.com/ebuitra10/SmartOrderAIProject/services/product/internal/domain"
)

// ProductRepository defines the interface for product persistence operations.
type ProductRepository interface {
	// Create inserts a new product and returns it with generated fields set.
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)

	// GetByID retrieves a product by its ID.
	GetByID(ctx context.Context, id int64) (*domain.Product, error)

	// GetByCode retrieves a product by its unique product code.
	GetByCode(ctx context.Context, productCode string) (*domain.Product, error)

	// List returns a page of products plus the total count.
	List(ctx context.Context, page, perPage int) ([]domain.Product, int, error)

	// Update modifies an existing product.
	Update(ctx context.Context, product *domain.Product) error

	// Delete removes a product by ID.
	Delete(ctx context.Context, id int64) error
}

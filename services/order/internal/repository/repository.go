package repository

import (
	"context"
	"time"

	"github.com/ebuitra10/SmartOrderAIProject/services/order/internal/domain"
)

// OrderRepository defines the persistence operations for order headers.
type OrderRepository interface {
	// Create inserts a new order and returns it with the generated id.
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)

	// GetByID retrieves an order by its unique identifier.
	GetByID(ctx context.Context, id int64) (*domain.Order, error)

	// List returns orders ordered by id with the total count.
	List(ctx context.Context, page, perPage int) ([]domain.Order, int, error)

	// GetByDate returns all orders placed on the given calendar day.
	GetByDate(ctx context.Context, date time.Time) ([]domain.Order, error)

	// Update replaces the mutable fields of an existing order.
	Update(ctx context.Context, order *domain.Order) error

	// Delete removes an order by id.
	Delete(ctx context.Context, id int64) error
}

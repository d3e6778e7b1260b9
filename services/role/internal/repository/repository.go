package repository

import (
	"context"

	"github.com/ebuitra10/SmartOrderAIProject/services/role/internal/domain"
)

// RoleRepository defines the interface for role persistence operations.
type RoleRepository interface {
	// Create inserts a new role and returns it with the generated id.
	Create(ctx context.Context, role *domain.Role) (*domain.Role, error)

	// GetByID retrieves a role by its unique identifier.
	GetByID(ctx context.Context, id int64) (*domain.Role, error)

	// List returns roles ordered by id along with the total count.
	List(ctx context.Context, page, perPage int) ([]domain.Role, int, error)

	// Update replaces the name and description of an existing role.
	Update(ctx context.Context, role *domain.Role) error

	// Delete removes a role by id.
	Delete(ctx context.Context, id int64) error
}

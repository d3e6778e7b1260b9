package repository

import (
	"context"

	"github.com/ebuitra10/SmartOrderAIProject/services/user/internal/domain"
)

// UserRepository defines the persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUserName(ctx context.Context, userName string) (*domain.User, error)
	List(ctx context.Context, page, perPage int) ([]domain.User, int, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int64) error
}

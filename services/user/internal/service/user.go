package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/ebuitra10/SmartOrderAIProject/pkg/errors"
	"github.com/ebuitra10/SmartOrderAIProject/services/user/internal/domain"
	"github.com/ebuitra10/SmartOrderAIProject/services/user/internal/event"
	"github.com/ebuitra10/SmartOrderAIProject/services/user/internal/repository"
)

// UserService implements the business logic for user operations.
type UserService struct {
	repo     repository.UserRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(repo repository.UserRepository, producer *event.Producer, logger *slog.Logger) *UserService {
	return &UserService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// CreateUserInput holds the parameters for registering a new user.
// ID is the user's document number and must be supplied by the caller.
type CreateUserInput struct {
	ID       int64
	Name     string
	UserName string
	LastName string
	Email    string
	Phone    string
}

// UpdateUserInput holds the parameters for updating a user's profile.
type UpdateUserInput struct {
	Name     string
	UserName string
	LastName string
	Email    string
	Phone    string
}

// CreateUser registers a new user keyed by document number.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	if input.ID <= 0 {
		return nil, apperrors.InvalidInput("document number must be positive")
	}
	if input.Name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}
	if input.UserName == "" {
		return nil, apperrors.InvalidInput("user name is required")
	}
	if input.Email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:        input.ID,
		Name:      input.Name,
		UserName:  input.UserName,
		LastName:  input.LastName,
		Email:     input.Email,
		Phone:     input.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.producer.PublishUserCreated(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.created event",
			slog.Int64("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "user created",
		slog.Int64("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// GetUser retrieves a user by document number.
func (s *UserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return user, nil
}

// GetUserByUserName retrieves a user by their unique user name.
func (s *UserService) GetUserByUserName(ctx context.Context, userName string) (*domain.User, error) {
	if userName == "" {
		return nil, apperrors.InvalidInput("user name is required")
	}

	user, err := s.repo.GetByUserName(ctx, userName)
	if err != nil {
		return nil, fmt.Errorf("get user by user name: %w", err)
	}
	return user, nil
}

// ListUsers returns a paginated list of users.
func (s *UserService) ListUsers(ctx context.Context, page, perPage int) ([]domain.User, int, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}

	users, total, err := s.repo.List(ctx, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// UpdateUser replaces the mutable fields of an existing user.
func (s *UserService) UpdateUser(ctx context.Context, id int64, input UpdateUserInput) (*domain.User, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}
	if input.UserName == "" {
		return nil, apperrors.InvalidInput("user name is required")
	}
	if input.Email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user for update: %w", err)
	}

	existing.Name = input.Name
	existing.UserName = input.UserName
	existing.LastName = input.LastName
	existing.Email = input.Email
	existing.Phone = input.Phone
	existing.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	if err := s.producer.PublishUserUpdated(ctx, existing); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.updated event",
			slog.Int64("user_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user updated", slog.Int64("user_id", id))

	return existing, nil
}

// DeleteUser removes a user by document number.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if err := s.producer.PublishUserDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.deleted event",
			slog.Int64("user_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user deleted", slog.Int64("user_id", id))

	return nil
}

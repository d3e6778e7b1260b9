package service

import (
	"context"
	"fmt"
	"log/slog"

	apperrors "github.com/ebuitra10/SmartOrderAIProject/pkg/errors"
	"github.com/ebuitra10/SmartOrderAIProject/services/role/internal/domain"
	"github.com/ebuitra10/SmartOrderAIProject/services/role/internal/repository"
)

// RoleService implements the business logic for role operations.
type RoleService struct {
	repo   repository.RoleRepository
	logger *slog.Logger
}

// NewRoleService creates a new role service.
func NewRoleService(repo repository.RoleRepository, logger *slog.Logger) *RoleService {
	return &RoleService{repo: repo, logger: logger}
}

// CreateRoleInput holds the parameters for creating a role.
type CreateRoleInput struct {
	Name        string
	Description string
}

// CreateRole creates a new role.
func (s *RoleService) CreateRole(ctx context.Context, input CreateRoleInput) (*domain.Role, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}

	role, err := s.repo.Create(ctx, &domain.Role{
		Name:        input.Name,
		Description: input.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("create role: %w", err)
	}

	s.logger.InfoContext(ctx, "role created",
		slog.Int64("role_id", role.ID),
		slog.String("name", role.Name),
	)

	return role, nil
}

// GetRole retrieves a role by its id.
func (s *RoleService) GetRole(ctx context.Context, id int64) (*domain.Role, error) {
	role, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get role by id: %w", err)
	}
	return role, nil
}

// ListRoles returns a paginated list of roles.
func (s *RoleService) ListRoles(ctx context.Context, page, perPage int) ([]domain.Role, int, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}

	roles, total, err := s.repo.List(ctx, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list roles: %w", err)
	}
	return roles, total, nil
}

// UpdateRole replaces the name and description of an existing role.
func (s *RoleService) UpdateRole(ctx context.Context, id int64, input CreateRoleInput) (*domain.Role, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}

	role := &domain.Role{ID: id, Name: input.Name, Description: input.Description}
	if err := s.repo.Update(ctx, role); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}

	s.logger.InfoContext(ctx, "role updated", slog.Int64("role_id", id))

	return role, nil
}

// DeleteRole removes a role by id.
func (s *RoleService) DeleteRole(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete role: %w", err)
	}

	s.logger.InfoContext(ctx, "role deleted", slog.Int64("role_id", id))

	return nil
}

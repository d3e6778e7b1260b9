package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ebuitra10/SmartOrderAIProject/pkg/errors"
	"github.com/ebuitra10/SmartOrderAIProject/services/role/internal/domain"
)

type mockRoleRepository struct {
	mock.Mock
}

func (m *mockRoleRepository) Create(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Role), args.Error(1)
}

func (m *mockRoleRepository) GetByID(ctx context.Context, id int64) (*domain.Role, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Role), args.Error(1)
}

func (m *mockRoleRepository) List(ctx context.Context, page, perPage int) ([]domain.Role, int, error) {
	args := m.Called(ctx, page, perPage)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Role), args.Int(1), args.Error(2)
}

func (m *mockRoleRepository) Update(ctx context.Context, role *domain.Role) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *mockRoleRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestRoleService(repo *mockRoleRepository) *RoleService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRoleService(repo, logger)
}

func TestCreateRole_Success(t *testing.T) {
	repo := new(mockRoleRepository)
	svc := newTestRoleService(repo)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.Role) bool {
		return r.Name == "ADMIN"
	})).Return(&domain.Role{ID: 1, Name: "ADMIN", Description: "Full administrative access"}, nil)

	role, err := svc.CreateRole(context.Background(), CreateRoleInput{
		Name:        "ADMIN",
		Description: "Full administrative access",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), role.ID)
	repo.AssertExpectations(t)
}

func TestCreateRole_EmptyName(t *testing.T) {
	repo := new(mockRoleRepository)
	svc := newTestRoleService(repo)

	_, err := svc.CreateRole(context.Background(), CreateRoleInput{Name: ""})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	repo.AssertNotCalled(t, "Create")
}

func TestGetRole_NotFound(t *testing.T) {
	repo := new(mockRoleRepository)
	svc := newTestRoleService(repo)

	repo.On("GetByID", mock.Anything, int64(99)).Return(nil, apperrors.NotFound("role", "99"))

	_, err := svc.GetRole(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	repo.AssertExpectations(t)
}

func TestListRoles_ClampsPagination(t *testing.T) {
	repo := new(mockRoleRepository)
	svc := newTestRoleService(repo)

	repo.On("List", mock.Anything, 1, 100).Return([]domain.Role{}, 0, nil)

	_, _, err := svc.ListRoles(context.Background(), -3, 500)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUpdateRole_Success(t *testing.T) {
	repo := new(mockRoleRepository)
	svc := newTestRoleService(repo)

	repo.On("Update", mock.Anything, mock.MatchedBy(func(r *domain.Role) bool {
		return r.ID == 7 && r.Name == "MANAGER"
	})).Return(nil)

	role, err := svc.UpdateRole(context.Background(), 7, CreateRoleInput{Name: "MANAGER", Description: "Store manager"})
	require.NoError(t, err)
	assert.Equal(t, "MANAGER", role.Name)
	repo.AssertExpectations(t)
}

func TestDeleteRole_RepoError(t *testing.T) {
	repo := new(mockRoleRepository)
	svc := newTestRoleService(repo)

	repo.On("Delete", mock.Anything, int64(7)).Return(apperrors.NotFound("role", "7"))

	err := svc.DeleteRole(context.Background(), 7)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	repo.AssertExpectations(t)
}

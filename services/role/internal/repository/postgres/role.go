package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/ebuitra10/SmartOrderAIProject/pkg/database"
	apperrors "github.com/ebuitra10/SmartOrderAIProject/pkg/errors"
	"github.com/ebuitra10/SmartOrderAIProject/services/role/internal/domain"
)

// RoleRepository implements repository.RoleRepository using PostgreSQL.
type RoleRepository struct {
	pool database.DBTX
}

// NewRoleRepository creates a new PostgreSQL-backed role repository.
func NewRoleRepository(pool database.DBTX) *RoleRepository {
	return &RoleRepository{pool: pool}
}

// Create inserts a new role and returns it with the generated id.
func (r *RoleRepository) Create(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	query := `
		INSERT INTO roles (name, description)
		VALUES ($1, $2)
		RETURNING id, name, description`

	var created domain.Role
	err := r.pool.QueryRow(ctx, query, role.Name, role.Description).Scan(
		&created.ID,
		&created.Name,
		&created.Description,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.AlreadyExists("role", "name", role.Name)
		}
		return nil, fmt.Errorf("insert role: %w", err)
	}

	return &created, nil
}

// GetByID retrieves a role by its unique identifier.
func (r *RoleRepository) GetByID(ctx context.Context, id int64) (*domain.Role, error) {
	query := `SELECT id, name, description FROM roles WHERE id = $1`

	var role domain.Role
	err := r.pool.QueryRow(ctx, query, id).Scan(&role.ID, &role.Name, &role.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("role", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("get role by id: %w", err)
	}

	return &role, nil
}

// List returns roles ordered by id with the total count.
func (r *RoleRepository) List(ctx context.Context, page, perPage int) ([]domain.Role, int, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	offset := (page - 1) * perPage

	query := `
		SELECT id, name, description, count(*) OVER() AS total_count
		FROM roles
		ORDER BY id
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, perPage, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	var totalCount int
	roles := make([]domain.Role, 0)
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("scan role row: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate role rows: %w", err)
	}

	return roles, totalCount, nil
}

// Update replaces the name and description of an existing role.
func (r *RoleRepository) Update(ctx context.Context, role *domain.Role) error {
	query := `UPDATE roles SET name = $1, description = $2 WHERE id = $3`

	ct, err := r.pool.Exec(ctx, query, role.Name, role.Description, role.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("role", "name", role.Name)
		}
		return fmt.Errorf("update role: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("role", strconv.FormatInt(role.ID, 10))
	}

	return nil
}

// Delete removes a role by id.
func (r *RoleRepository) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("role", strconv.FormatInt(id, 10))
	}

	return nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}

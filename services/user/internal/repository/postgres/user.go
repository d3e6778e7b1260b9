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
	"github.com/ebuitra10/SmartOrderAIProject/services/user/internal/domain"
)

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	pool database.DBTX
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool database.DBTX) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a new user. The id is the caller-supplied document number
// and user names are unique, so a duplicate key on either means the user is
// already registered.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (id, name, user_name, last_name, email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		u.ID,
		u.Name,
		u.UserName,
		u.LastName,
		u.Email,
		u.Phone,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("user", "id", strconv.FormatInt(u.ID, 10))
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by document number.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `
		SELECT id, name, user_name, last_name, email, phone, created_at, updated_at
		FROM users
		WHERE id = $1`

	var u domain.User
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&u.ID,
		&u.Name,
		&u.UserName,
		&u.LastName,
		&u.Email,
		&u.Phone,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("user", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return &u, nil
}

// GetByUserName retrieves a user by their unique user name.
func (r *UserRepository) GetByUserName(ctx context.Context, userName string) (*domain.User, error) {
	query := `
		SELECT id, name, user_name, last_name, email, phone, created_at, updated_at
		FROM users
		WHERE user_name = $1`

	var u domain.User
	err := r.pool.QueryRow(ctx, query, userName).Scan(
		&u.ID,
		&u.Name,
		&u.UserName,
		&u.LastName,
		&u.Email,
		&u.Phone,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("user", userName)
		}
		return nil, fmt.Errorf("get user by user name: %w", err)
	}

	return &u, nil
}

// List returns users ordered by id with the total count.
func (r *UserRepository) List(ctx context.Context, page, perPage int) ([]domain.User, int, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	offset := (page - 1) * perPage

	query := `
		SELECT id, name, user_name, last_name, email, phone, created_at, updated_at, count(*) OVER() AS total_count
		FROM users
		ORDER BY id
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, perPage, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var totalCount int
	users := make([]domain.User, 0)
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.UserName, &u.LastName, &u.Email, &u.Phone, &u.CreatedAt, &u.UpdatedAt, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate user rows: %w", err)
	}

	return users, totalCount, nil
}

// Update replaces the mutable fields of an existing user.
func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	query := `
		UPDATE users
		SET name = $1, user_name = $2, last_name = $3, email = $4, phone = $5, updated_at = $6
		WHERE id = $7`

	ct, err := r.pool.Exec(ctx, query,
		u.Name,
		u.UserName,
		u.LastName,
		u.Email,
		u.Phone,
		u.UpdatedAt,
		u.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("user", "user_name", u.UserName)
		}
		return fmt.Errorf("update user: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", strconv.FormatInt(u.ID, 10))
	}

	return nil
}

// Delete removes a user by document number.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", strconv.FormatInt(id, 10))
	}

	return nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}

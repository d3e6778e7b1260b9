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
	"github.com/ebuitra10/SmartOrderAIProject/services/product/internal/domain"
)

const productColumns = "id, name, product_code, description, stock, price, image_url, created_at, updated_at"

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	pool database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool database.DBTX) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// Create inserts a new product. created_at and updated_at are set by the
// database at insert time.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	query := `
		INSERT INTO products (name, product_code, description, stock, price, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING ` + productColumns

	row := r.pool.QueryRow(ctx, query,
		p.Name,
		p.ProductCode,
		p.Description,
		p.Stock,
		p.Price,
		p.ImageURL,
	)
	created, err := scanProduct(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.AlreadyExists("product", "product_code", p.ProductCode)
		}
		return nil, fmt.Errorf("insert product: %w", err)
	}

	return created, nil
}

// GetByID retrieves a product by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("get product by id: %w", err)
	}

	return p, nil
}

// GetByCode retrieves a product by its unique product code.
func (r *ProductRepository) GetByCode(ctx context.Context, productCode string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE product_code = $1`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, productCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", productCode)
		}
		return nil, fmt.Errorf("get product by code: %w", err)
	}

	return p, nil
}

// List returns products ordered by id with the total count.
func (r *ProductRepository) List(ctx context.Context, page, perPage int) ([]domain.Product, int, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	offset := (page - 1) * perPage

	query := `
		SELECT ` + productColumns + `, count(*) OVER() AS total_count
		FROM products
		ORDER BY id
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, perPage, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var totalCount int
	products := make([]domain.Product, 0)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.ProductCode, &p.Description, &p.Stock, &p.Price, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, totalCount, nil
}

// Update replaces the mutable fields of an existing product.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	query := `
		UPDATE products
		SET name = $1, product_code = $2, description = $3, stock = $4, price = $5, image_url = $6, updated_at = now()
		WHERE id = $7`

	ct, err := r.pool.Exec(ctx, query,
		p.Name,
		p.ProductCode,
		p.Description,
		p.Stock,
		p.Price,
		p.ImageURL,
		p.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("product", "product_code", p.ProductCode)
		}
		return fmt.Errorf("update product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", strconv.FormatInt(p.ID, 10))
	}

	return nil
}

// Delete removes a product by ID.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", strconv.FormatInt(id, 10))
	}

	return nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.ProductCode,
		&p.Description,
		&p.Stock,
		&p.Price,
		&p.ImageURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ebuitra10/SmartOrderAIProject/pkg/database"
	apperrors "github.com/ebuitra10/SmartOrderAIProject/pkg/errors"
	"github.com/ebuitra10/SmartOrderAIProject/services/inventory/internal/domain"
)

const inventoryColumns = "id, product_code, stock_quantity, unit_price, created_at, updated_at"

// InventoryRepository implements repository.InventoryRepository backed by PostgreSQL.
type InventoryRepository struct {
	pool database.DBTX
}

// NewInventoryRepository creates a new PostgreSQL inventory repository.
func NewInventoryRepository(pool database.DBTX) *InventoryRepository {
	return &InventoryRepository{pool: pool}
}

// Upsert inserts a stock record, or adds the quantity to the existing record
// for the same product code and refreshes its unit price.
func (r *InventoryRepository) Upsert(ctx context.Context, inv *domain.Inventory) (*domain.Inventory, error) {
	query := `
		INSERT INTO inventory (product_code, stock_quantity, unit_price, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		ON CONFLICT (product_code) DO UPDATE SET
			stock_quantity = inventory.stock_quantity + EXCLUDED.stock_quantity,
			unit_price = EXCLUDED.unit_price,
			updated_at = now()
		RETURNING ` + inventoryColumns

	row := r.pool.QueryRow(ctx, query, inv.ProductCode, inv.StockQuantity, inv.UnitPrice)
	stored, err := scanInventory(row)
	if err != nil {
		return nil, fmt.Errorf("upsert inventory: %w", err)
	}
	return stored, nil
}

// GetByProductCode retrieves the stock record for a product code.
func (r *InventoryRepository) GetByProductCode(ctx context.Context, productCode string) (*domain.Inventory, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE product_code = $1`

	row := r.pool.QueryRow(ctx, query, productCode)
	inv, err := scanInventory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("inventory", productCode)
		}
		return nil, fmt.Errorf("get inventory by product code: %w", err)
	}
	return inv, nil
}

// List returns a page of stock records ordered by product code, with the
// total count.
func (r *InventoryRepository) List(ctx context.Context, page, perPage int) ([]domain.Inventory, int, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	offset := (page - 1) * perPage

	query := `
		SELECT ` + inventoryColumns + `, count(*) OVER() AS total_count
		FROM inventory
		ORDER BY product_code
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, perPage, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	var totalCount int
	records := make([]domain.Inventory, 0)
	for rows.Next() {
		var inv domain.Inventory
		err := rows.Scan(
			&inv.ID,
			&inv.ProductCode,
			&inv.StockQuantity,
			&inv.UnitPrice,
			&inv.CreatedAt,
			&inv.UpdatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan inventory row: %w", err)
		}
		records = append(records, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate inventory rows: %w", err)
	}

	return records, totalCount, nil
}

// DecrementStock subtracts qty from the product's stock. The conditional
// UPDATE guards against going negative; when it matches no row a follow-up
// read distinguishes a missing record from insufficient stock.
func (r *InventoryRepository) DecrementStock(ctx context.Context, productCode string, qty int) (*domain.Inventory, error) {
	query := `
		UPDATE inventory
		SET stock_quantity = stock_quantity - $2, updated_at = now()
		WHERE product_code = $1 AND stock_quantity >= $2
		RETURNING ` + inventoryColumns

	row := r.pool.QueryRow(ctx, query, productCode, qty)
	inv, err := scanInventory(row)
	if err == nil {
		return inv, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("decrement stock: %w", err)
	}

	var available int
	checkQuery := `SELECT stock_quantity FROM inventory WHERE product_code = $1`
	if err := r.pool.QueryRow(ctx, checkQuery, productCode).Scan(&available); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("inventory", productCode)
		}
		return nil, fmt.Errorf("check stock after failed decrement: %w", err)
	}
	return nil, apperrors.InsufficientStock(productCode, qty, available)
}

// DeleteByProductCode removes the stock record for a product code.
func (r *InventoryRepository) DeleteByProductCode(ctx context.Context, productCode string) error {
	query := `DELETE FROM inventory WHERE product_code = $1`

	tag, err := r.pool.Exec(ctx, query, productCode)
	if err != nil {
		return fmt.Errorf("delete inventory: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("inventory", productCode)
	}
	return nil
}

func scanInventory(row pgx.Row) (*domain.Inventory, error) {
	var inv domain.Inventory
	err := row.Scan(
		&inv.ID,
		&inv.ProductCode,
		&inv.StockQuantity,
		&inv.UnitPrice,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

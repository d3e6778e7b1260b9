package service

import (
	"context"
	"fmt"
	"log/slog"

	apperrors "github.com/ebuitra10/SmartOrderAIProject/pkg/errors"
	"github.com/ebuitra10/SmartOrderAIProject/services/inventory/internal/domain"
	"github.com/ebuitra10/SmartOrderAIProject/services/inventory/internal/event"
	"github.com/ebuitra10/SmartOrderAIProject/services/inventory/internal/repository"
)

// InventoryService implements business logic for stock records.
type InventoryService struct {
	repo   repository.InventoryRepository
	events *event.Producer
	logger *slog.Logger
}

// NewInventoryService creates a new inventory service.
func NewInventoryService(repo repository.InventoryRepository, events *event.Producer, logger *slog.Logger) *InventoryService {
	return &InventoryService{
		repo:   repo,
		events: events,
		logger: logger,
	}
}

// UpsertInput holds the fields for creating or topping up a stock record.
type UpsertInput struct {
	ProductCode   string
	StockQuantity int
	UnitPrice     int64
}

// UpsertInventory creates a stock record for the product code, or adds the
// quantity to the existing record and refreshes its unit price.
func (s *InventoryService) UpsertInventory(ctx context.Context, input UpsertInput) (*domain.Inventory, error) {
	if input.ProductCode == "" {
		return nil, apperrors.InvalidInput("product code is required")
	}
	if input.StockQuantity < 0 {
		return nil, apperrors.InvalidInput("stock quantity cannot be negative")
	}
	if input.UnitPrice < 0 {
		return nil, apperrors.InvalidInput("unit price cannot be negative")
	}

	inv, err := s.repo.Upsert(ctx, &domain.Inventory{
		ProductCode:   input.ProductCode,
		StockQuantity: input.StockQuantity,
		UnitPrice:     input.UnitPrice,
	})
	if err != nil {
		return nil, err
	}

	// Do not fail the operation if event publishing fails.
	if err := s.events.PublishInventoryUpserted(ctx, inv); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish inventory.upserted event",
			slog.String("product_code", inv.ProductCode),
			slog.String("error", err.Error()),
		)
	}

	return inv, nil
}

// ListInventory returns a paginated list of stock records.
func (s *InventoryService) ListInventory(ctx context.Context, page, perPage int) ([]domain.Inventory, int, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}

	records, total, err := s.repo.List(ctx, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list inventory: %w", err)
	}
	return records, total, nil
}

// GetInventory retrieves the stock record for a product code.
func (s *InventoryService) GetInventory(ctx context.Context, productCode string) (*domain.Inventory, error) {
	if productCode == "" {
		return nil, apperrors.InvalidInput("product code is required")
	}
	return s.repo.GetByProductCode(ctx, productCode)
}

// GetUnitPrice returns the unit price in cents for a product code.
func (s *InventoryService) GetUnitPrice(ctx context.Context, productCode string) (int64, error) {
	inv, err := s.GetInventory(ctx, productCode)
	if err != nil {
		return 0, err
	}
	return inv.UnitPrice, nil
}

// DecrementStock subtracts qty from the product's stock. The repository
// rejects decrements that would leave the stock negative.
func (s *InventoryService) DecrementStock(ctx context.Context, productCode string, qty int) (*domain.Inventory, error) {
	if productCode == "" {
		return nil, apperrors.InvalidInput("product code is required")
	}
	if qty <= 0 {
		return nil, apperrors.InvalidInput("quantity must be positive")
	}

	inv, err := s.repo.DecrementStock(ctx, productCode, qty)
	if err != nil {
		return nil, err
	}

	if err := s.events.PublishInventoryDecremented(ctx, inv); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish inventory.decremented event",
			slog.String("product_code", inv.ProductCode),
			slog.String("error", err.Error()),
		)
	}

	return inv, nil
}

// DeleteInventory removes the stock record for a product code.
func (s *InventoryService) DeleteInventory(ctx context.Context, productCode string) error {
	if productCode == "" {
		return apperrors.InvalidInput("product code is required")
	}

	if err := s.repo.DeleteByProductCode(ctx, productCode); err != nil {
		return err
	}

	if err := s.events.PublishInventoryDeleted(ctx, productCode); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish inventory.deleted event",
			slog.String("product_code", productCode),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

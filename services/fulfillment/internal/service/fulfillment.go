// Package service implements the fulfillment coordinator.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	apperrors "github.com/ebuitra10/SmartOrderAIProject/pkg/errors"
	"github.com/ebuitra10/SmartOrderAIProject/services/fulfillment/internal/domain"
	"github.com/ebuitra10/SmartOrderAIProject/services/fulfillment/internal/event"
	"github.com/ebuitra10/SmartOrderAIProject/services/fulfillment/internal/repository"
)

// CircuitOpenFallback replaces the raw circuit-open error from the shared
// HTTP client with a structured 503 when downstream calls are being shed.
func CircuitOpenFallback(_ context.Context, _ error) (*http.Response, error) {
	return nil, apperrors.Unavailable("downstream service")
}

// OrderGate confirms an order exists before any line item is written.
type OrderGate interface {
	Exists(ctx context.Context, token string, orderID int64) error
}

// InventoryGateway resolves unit prices and commits stock decrements.
type InventoryGateway interface {
	UnitPrice(ctx context.Context, token, productCode string) (int64, error)
	DecrementStock(ctx context.Context, token, productCode string, quantity int) error
}

// FulfillmentService persists order line items and coordinates fulfillment
// across the order and inventory services.
type FulfillmentService struct {
	repo      repository.LineItemRepository
	orders    OrderGate
	inventory InventoryGateway
	events    *event.Producer
	logger    *slog.Logger
}

// NewFulfillmentService creates a new fulfillment service.
func NewFulfillmentService(
	repo repository.LineItemRepository,
	orders OrderGate,
	inventory InventoryGateway,
	events *event.Producer,
	logger *slog.Logger,
) *FulfillmentService {
	return &FulfillmentService{
		repo:      repo,
		orders:    orders,
		inventory: inventory,
		events:    events,
		logger:    logger,
	}
}

// FulfillItemInput is a single requested line in a fulfillment call.
type FulfillItemInput struct {
	ProductCode string
	Quantity    int
}

// Fulfill runs the fulfillment sequence for an order: confirm the order
// exists, then for each item resolve its unit price, persist the line item,
// and decrement stock. Any step failure aborts the call immediately; line
// items already persisted and stock already decremented are left in place.
// The token is the inbound Authorization header, forwarded to downstream
// services as-is.
func (s *FulfillmentService) Fulfill(ctx context.Context, token string, orderID int64, items []FulfillItemInput) ([]domain.LineItem, error) {
	if orderID <= 0 {
		return nil, apperrors.InvalidInput("order id must be positive")
	}
	for i, item := range items {
		if item.ProductCode == "" {
			return nil, apperrors.InvalidInput(fmt.Sprintf("item %d: product_code is required", i))
		}
		if item.Quantity <= 0 {
			return nil, apperrors.InvalidInput(fmt.Sprintf("item %d: quantity must be greater than 0", i))
		}
	}

	if err := s.orders.Exists(ctx, token, orderID); err != nil {
		s.logger.WarnContext(ctx, "order existence check failed",
			slog.Int64("order_id", orderID),
			slog.String("error", err.Error()),
		)
		return nil, apperrors.OrderNotFound(orderID)
	}

	persisted := make([]domain.LineItem, 0, len(items))
	for _, item := range items {
		unitPrice, err := s.inventory.UnitPrice(ctx, token, item.ProductCode)
		if err != nil {
			s.logger.ErrorContext(ctx, "unit price resolution failed",
				slog.Int64("order_id", orderID),
				slog.String("product_code", item.ProductCode),
				slog.Int("items_persisted", len(persisted)),
				slog.String("error", err.Error()),
			)
			return nil, apperrors.PriceUnavailable(item.ProductCode, err)
		}

		subtotal := int64(item.Quantity) * unitPrice
		stored, err := s.repo.Create(ctx, &domain.LineItem{
			OrderID:     orderID,
			ProductCode: item.ProductCode,
			Quantity:    item.Quantity,
			UnitPrice:   unitPrice,
			Subtotal:    subtotal,
			TotalPrice:  subtotal,
		})
		if err != nil {
			return nil, fmt.Errorf("persist line item for %s: %w", item.ProductCode, err)
		}
		persisted = append(persisted, *stored)

		if err := s.inventory.DecrementStock(ctx, token, item.ProductCode, item.Quantity); err != nil {
			s.logger.ErrorContext(ctx, "stock commit failed, persisted items are kept",
				slog.Int64("order_id", orderID),
				slog.String("product_code", item.ProductCode),
				slog.Int("items_persisted", len(persisted)),
				slog.String("error", err.Error()),
			)
			return nil, apperrors.StockCommitFailed(item.ProductCode, err)
		}
	}

	// Do not fail the operation if event publishing fails.
	if err := s.events.PublishFulfillmentCompleted(ctx, orderID, persisted); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish fulfillment.completed event",
			slog.Int64("order_id", orderID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order fulfilled",
		slog.Int64("order_id", orderID),
		slog.Int("items_count", len(persisted)),
	)

	return persisted, nil
}

// ListLineItems returns a paginated list of line items across all orders.
func (s *FulfillmentService) ListLineItems(ctx context.Context, page, perPage int) ([]domain.LineItem, int, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}

	items, total, err := s.repo.List(ctx, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list line items: %w", err)
	}
	return items, total, nil
}

// GetLineItems returns the line items for an order.
func (s *FulfillmentService) GetLineItems(ctx context.Context, orderID int64) ([]domain.LineItem, error) {
	if orderID <= 0 {
		return nil, apperrors.InvalidInput("order id must be positive")
	}

	items, err := s.repo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get line items: %w", err)
	}
	if len(items) == 0 {
		return nil, apperrors.LineItemsNotFound(orderID)
	}
	return items, nil
}

// DeleteLineItems removes every line item for an order. Stock committed
// during fulfillment is not restored.
func (s *FulfillmentService) DeleteLineItems(ctx context.Context, orderID int64) error {
	if orderID <= 0 {
		return apperrors.InvalidInput("order id must be positive")
	}

	if err := s.repo.DeleteByOrderID(ctx, orderID); err != nil {
		return fmt.Errorf("delete line items: %w", err)
	}

	// Do not fail the operation if event publishing fails.
	if err := s.events.PublishFulfillmentDeleted(ctx, orderID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish fulfillment.deleted event",
			slog.Int64("order_id", orderID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "line items deleted",
		slog.Int64("order_id", orderID),
	)

	return nil
}

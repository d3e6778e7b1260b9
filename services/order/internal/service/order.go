package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/ebuitra10/SmartOrderAIProject/pkg/errors"
	"github.com/ebuitra10/SmartOrderAIProject/services/order/internal/domain"
	"github.com/ebuitra10/SmartOrderAIProject/services/order/internal/event"
	"github.com/ebuitra10/SmartOrderAIProject/services/order/internal/repository"
)

// OrderService implements the business logic for order header operations.
type OrderService struct {
	repo     repository.OrderRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(repo repository.OrderRepository, producer *event.Producer, logger *slog.Logger) *OrderService {
	return &OrderService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// OrderInput holds the parameters for creating or updating an order.
type OrderInput struct {
	UserID        int64
	OrderDate     time.Time
	Store         string
	TotalPrice    int64
	PaymentMethod string
}

// CreateOrder creates a new order header.
func (s *OrderService) CreateOrder(ctx context.Context, input OrderInput) (*domain.Order, error) {
	if input.UserID <= 0 {
		return nil, apperrors.InvalidInput("user id must be positive")
	}
	if input.TotalPrice < 0 {
		return nil, apperrors.InvalidInput("total price cannot be negative")
	}

	now := time.Now().UTC()
	orderDate := input.OrderDate
	if orderDate.IsZero() {
		orderDate = now
	}

	order, err := s.repo.Create(ctx, &domain.Order{
		UserID:        input.UserID,
		OrderDate:     orderDate,
		Store:         input.Store,
		TotalPrice:    input.TotalPrice,
		PaymentMethod: input.PaymentMethod,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := s.producer.PublishOrderCreated(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.created event",
			slog.Int64("order_id", order.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "order created",
		slog.Int64("order_id", order.ID),
		slog.Int64("user_id", order.UserID),
		slog.Int64("total_price", order.TotalPrice),
	)

	return order, nil
}

// GetOrder retrieves an order by id. Downstream services use this as the
// existence check before fulfilling line items.
func (s *OrderService) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order by id: %w", err)
	}
	return order, nil
}

// ListOrders returns a paginated list of orders.
func (s *OrderService) ListOrders(ctx context.Context, page, perPage int) ([]domain.Order, int, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}

	orders, total, err := s.repo.List(ctx, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return orders, total, nil
}

// GetOrdersByDate returns all orders placed on the given calendar day.
// A day with no orders is reported as not found.
func (s *OrderService) GetOrdersByDate(ctx context.Context, date time.Time) ([]domain.Order, error) {
	orders, err := s.repo.GetByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("get orders by date: %w", err)
	}
	if len(orders) == 0 {
		return nil, apperrors.NotFound("orders for date", date.Format("2006-01-02"))
	}
	return orders, nil
}

// UpdateOrder replaces the mutable fields of an existing order.
func (s *OrderService) UpdateOrder(ctx context.Context, id int64, input OrderInput) (*domain.Order, error) {
	if input.UserID <= 0 {
		return nil, apperrors.InvalidInput("user id must be positive")
	}
	if input.TotalPrice < 0 {
		return nil, apperrors.InvalidInput("total price cannot be negative")
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order for update: %w", err)
	}

	existing.UserID = input.UserID
	if !input.OrderDate.IsZero() {
		existing.OrderDate = input.OrderDate
	}
	existing.Store = input.Store
	existing.TotalPrice = input.TotalPrice
	existing.PaymentMethod = input.PaymentMethod
	existing.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}

	if err := s.producer.PublishOrderUpdated(ctx, existing); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.updated event",
			slog.Int64("order_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order updated", slog.Int64("order_id", id))

	return existing, nil
}

// DeleteOrder removes an order by id.
func (s *OrderService) DeleteOrder(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	if err := s.producer.PublishOrderDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.deleted event",
			slog.Int64("order_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order deleted", slog.Int64("order_id", id))

	return nil
}

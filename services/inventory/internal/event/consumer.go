package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	apperrors "github.com/ebuitra10/SmartOrderAIProject/pkg/errors"
	pkgkafka "github.com/ebuitra10/SmartOrderAIProject/pkg/kafka"
)

// TopicProductDeleted is the product-catalog topic consumed by the inventory
// service to clean up stock records for removed products.
const TopicProductDeleted = "smartorder.product.deleted"

// InventoryService defines the interface required by the event consumer.
type InventoryService interface {
	DeleteInventory(ctx context.Context, productCode string) error
}

// ProductDeletedData is the expected payload of a product.deleted event.
type ProductDeletedData struct {
	ID          int64  `json:"id"`
	ProductCode string `json:"product_code"`
}

// Consumer processes incoming Kafka events for the inventory service.
type Consumer struct {
	logger  *slog.Logger
	service InventoryService
}

// NewConsumer creates a new event consumer for the inventory service.
func NewConsumer(service InventoryService, logger *slog.Logger) *Consumer {
	return &Consumer{
		service: service,
		logger:  logger,
	}
}

// HandleProductDeleted removes the stock record for a deleted product. The
// product service also deletes the record synchronously, so a missing record
// is treated as already cleaned up rather than a failure.
func (c *Consumer) HandleProductDeleted(ctx context.Context, event *pkgkafka.Event) error {
	var data ProductDeletedData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return fmt.Errorf("unmarshal product.deleted data: %w", err)
	}

	if data.ProductCode == "" {
		return fmt.Errorf("product.deleted event %s has no product_code", event.EventID)
	}

	err := c.service.DeleteInventory(ctx, data.ProductCode)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("delete inventory for product %s: %w", data.ProductCode, err)
	}

	c.logger.InfoContext(ctx, "inventory cleaned up for deleted product",
		slog.String("product_code", data.ProductCode),
		slog.Bool("already_removed", err != nil),
	)

	return nil
}

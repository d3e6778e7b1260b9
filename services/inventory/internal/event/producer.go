package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/ebuitra10/SmartOrderAIProject/pkg/kafka"
	"github.com/ebuitra10/SmartOrderAIProject/services/inventory/internal/domain"
)

// Kafka topic constants for inventory domain events.
const (
	TopicInventoryUpserted    = "smartorder.inventory.upserted"
	TopicInventoryDecremented = "smartorder.inventory.decremented"
	TopicInventoryDeleted     = "smartorder.inventory.deleted"
)

// Aggregate type constant.
const AggregateTypeInventory = "inventory"

// Source identifier for events originating from the inventory service.
const SourceInventoryService = "inventory-service"

// InventoryData is the payload for inventory stock-change events. It carries
// the state of the record after the change was applied.
type InventoryData struct {
	ID            int64  `json:"id"`
	ProductCode   string `json:"product_code"`
	StockQuantity int    `json:"stock_quantity"`
	UnitPrice     int64  `json:"unit_price"`
}

// InventoryDeletedData is the payload for an inventory.deleted event.
type InventoryDeletedData struct {
	ProductCode string `json:"product_code"`
}

// Producer publishes inventory domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the inventory service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishInventoryUpserted publishes an inventory.upserted event.
func (p *Producer) PublishInventoryUpserted(ctx context.Context, inv *domain.Inventory) error {
	return p.publishSnapshot(ctx, TopicInventoryUpserted, inv)
}

// PublishInventoryDecremented publishes an inventory.decremented event.
func (p *Producer) PublishInventoryDecremented(ctx context.Context, inv *domain.Inventory) error {
	return p.publishSnapshot(ctx, TopicInventoryDecremented, inv)
}

func (p *Producer) publishSnapshot(ctx context.Context, topic string, inv *domain.Inventory) error {
	data := InventoryData{
		ID:            inv.ID,
		ProductCode:   inv.ProductCode,
		StockQuantity: inv.StockQuantity,
		UnitPrice:     inv.UnitPrice,
	}

	event, err := pkgkafka.NewEvent(topic, inv.ProductCode, AggregateTypeInventory, SourceInventoryService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published inventory event",
		slog.String("topic", topic),
		slog.String("product_code", inv.ProductCode),
		slog.Int("stock_quantity", inv.StockQuantity),
	)

	return nil
}

// PublishInventoryDeleted publishes an inventory.deleted event.
func (p *Producer) PublishInventoryDeleted(ctx context.Context, productCode string) error {
	data := InventoryDeletedData{ProductCode: productCode}

	event, err := pkgkafka.NewEvent(TopicInventoryDeleted, productCode, AggregateTypeInventory, SourceInventoryService, data)
	if err != nil {
		return fmt.Errorf("create inventory.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicInventoryDeleted, event); err != nil {
		return fmt.Errorf("publish inventory.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published inventory.deleted event",
		slog.String("product_code", productCode),
	)

	return nil
}

package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	pkgkafka "github.com/ebuitra10/SmartOrderAIProject/pkg/kafka"
	"github.com/ebuitra10/SmartOrderAIProject/services/fulfillment/internal/domain"
)

// Kafka topic constants for fulfillment domain events.
const (
	TopicFulfillmentCompleted = "smartorder.fulfillment.completed"
	TopicFulfillmentDeleted   = "smartorder.fulfillment.deleted"
)

// Aggregate type constant.
const AggregateTypeFulfillment = "fulfillment"

// Source identifier for events originating from the fulfillment service.
const SourceFulfillmentService = "fulfillment-service"

// LineItemData is a single fulfilled line in the completed event payload.
type LineItemData struct {
	ID          int64  `json:"id"`
	ProductCode string `json:"product_code"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	Subtotal    int64  `json:"subtotal"`
}

// FulfillmentCompletedData is the payload for a fulfillment.completed event.
type FulfillmentCompletedData struct {
	OrderID     int64          `json:"order_id"`
	Items       []LineItemData `json:"items"`
	TotalAmount int64          `json:"total_amount"`
}

// FulfillmentDeletedData is the payload for a fulfillment.deleted event.
type FulfillmentDeletedData struct {
	OrderID int64 `json:"order_id"`
}

// Producer publishes fulfillment domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the fulfillment service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishFulfillmentCompleted publishes a fulfillment.completed event
// carrying the persisted line items for the order.
func (p *Producer) PublishFulfillmentCompleted(ctx context.Context, orderID int64, items []domain.LineItem) error {
	data := FulfillmentCompletedData{
		OrderID: orderID,
		Items:   make([]LineItemData, len(items)),
	}
	for i, item := range items {
		data.Items[i] = LineItemData{
			ID:          item.ID,
			ProductCode: item.ProductCode,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		}
		data.TotalAmount += item.TotalPrice
	}

	key := strconv.FormatInt(orderID, 10)
	event, err := pkgkafka.NewEvent(TopicFulfillmentCompleted, key, AggregateTypeFulfillment, SourceFulfillmentService, data)
	if err != nil {
		return fmt.Errorf("create fulfillment.completed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicFulfillmentCompleted, event); err != nil {
		return fmt.Errorf("publish fulfillment.completed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published fulfillment.completed event",
		slog.Int64("order_id", orderID),
		slog.Int("items_count", len(items)),
		slog.Int64("total_amount", data.TotalAmount),
	)

	return nil
}

// PublishFulfillmentDeleted publishes a fulfillment.deleted event.
func (p *Producer) PublishFulfillmentDeleted(ctx context.Context, orderID int64) error {
	data := FulfillmentDeletedData{OrderID: orderID}

	key := strconv.FormatInt(orderID, 10)
	event, err := pkgkafka.NewEvent(TopicFulfillmentDeleted, key, AggregateTypeFulfillment, SourceFulfillmentService, data)
	if err != nil {
		return fmt.Errorf("create fulfillment.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicFulfillmentDeleted, event); err != nil {
		return fmt.Errorf("publish fulfillment.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published fulfillment.deleted event",
		slog.Int64("order_id", orderID),
	)

	return nil
}

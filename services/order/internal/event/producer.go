package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	pkgkafka "github.com/ebuitra10/SmartOrderAIProject/pkg/kafka"
	"github.com/ebuitra10/SmartOrderAIProject/services/order/internal/domain"
)

// Kafka topic constants for order domain events.
const (
	TopicOrderCreated = "smartorder.order.created"
	TopicOrderUpdated = "smartorder.order.updated"
	TopicOrderDeleted = "smartorder.order.deleted"
)

// Aggregate type constant.
const AggregateTypeOrder = "order"

// Source identifier for events originating from the order service.
const SourceOrderService = "order-service"

// OrderData is the payload for order.created and order.updated events.
type OrderData struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	OrderDate     time.Time `json:"order_date"`
	Store         string    `json:"store"`
	TotalPrice    int64     `json:"total_price"`
	PaymentMethod string    `json:"payment_method"`
}

// OrderDeletedData is the payload for an order.deleted event.
type OrderDeletedData struct {
	ID int64 `json:"id"`
}

// Producer publishes order domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the order service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishOrderCreated publishes an order.created event.
func (p *Producer) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	return p.publishSnapshot(ctx, TopicOrderCreated, order)
}

// PublishOrderUpdated publishes an order.updated event.
func (p *Producer) PublishOrderUpdated(ctx context.Context, order *domain.Order) error {
	return p.publishSnapshot(ctx, TopicOrderUpdated, order)
}

func (p *Producer) publishSnapshot(ctx context.Context, topic string, order *domain.Order) error {
	data := OrderData{
		ID:            order.ID,
		UserID:        order.UserID,
		OrderDate:     order.OrderDate,
		Store:         order.Store,
		TotalPrice:    order.TotalPrice,
		PaymentMethod: order.PaymentMethod,
	}

	event, err := pkgkafka.NewEvent(topic, strconv.FormatInt(order.ID, 10), AggregateTypeOrder, SourceOrderService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published order event",
		slog.String("topic", topic),
		slog.Int64("order_id", order.ID),
		slog.Int64("user_id", order.UserID),
	)

	return nil
}

// PublishOrderDeleted publishes an order.deleted event.
func (p *Producer) PublishOrderDeleted(ctx context.Context, id int64) error {
	data := OrderDeletedData{ID: id}

	event, err := pkgkafka.NewEvent(TopicOrderDeleted, strconv.FormatInt(id, 10), AggregateTypeOrder, SourceOrderService, data)
	if err != nil {
		return fmt.Errorf("create order.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderDeleted, event); err != nil {
		return fmt.Errorf("publish order.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.deleted event",
		slog.Int64("order_id", id),
	)

	return nil
}

package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	pkgkafka "github.com/ebuitra10/SmartOrderAIProject/pkg/kafka"
	"github.com/ebuitra10/SmartOrderAIProject/services/product/internal/domain"
)

// Kafka topic constants for product domain events.
const (
	TopicProductCreated = "smartorder.product.created"
	TopicProductUpdated = "smartorder.product.updated"
	TopicProductDeleted = "smartorder.product.deleted"
)

// Aggregate type constant.
const AggregateTypeProduct = "product"

// Source identifier for events originating from the product service.
const SourceProductService = "product-service"

// ProductData is the payload for product.created and product.updated events.
type ProductData struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	ProductCode string `json:"product_code"`
	Stock       int    `json:"stock"`
	Price       int64  `json:"price"`
}

// ProductDeletedData is the payload for a product.deleted event. The product
// code rides along so consumers can clean up records keyed by it.
type ProductDeletedData struct {
	ID          int64  `json:"id"`
	ProductCode string `json:"product_code"`
}

// Producer publishes product domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the product service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	return p.publishSnapshot(ctx, TopicProductCreated, product)
}

// PublishProductUpdated publishes a product.updated event.
func (p *Producer) PublishProductUpdated(ctx context.Context, product *domain.Product) error {
	return p.publishSnapshot(ctx, TopicProductUpdated, product)
}

func (p *Producer) publishSnapshot(ctx context.Context, topic string, product *domain.Product) error {
	data := ProductData{
		ID:          product.ID,
		Name:        product.Name,
		ProductCode: product.ProductCode,
		Stock:       product.Stock,
		Price:       product.Price,
	}

	event, err := pkgkafka.NewEvent(topic, strconv.FormatInt(product.ID, 10), AggregateTypeProduct, SourceProductService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published product event",
		slog.String("topic", topic),
		slog.Int64("product_id", product.ID),
		slog.String("product_code", product.ProductCode),
	)

	return nil
}

// PublishProductDeleted publishes a product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, id int64, productCode string) error {
	data := ProductDeletedData{ID: id, ProductCode: productCode}

	event, err := pkgkafka.NewEvent(TopicProductDeleted, strconv.FormatInt(id, 10), AggregateTypeProduct, SourceProductService, data)
	if err != nil {
		return fmt.Errorf("create product.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicProductDeleted, event); err != nil {
		return fmt.Errorf("publish product.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published product.deleted event",
		slog.Int64("product_id", id),
		slog.String("product_code", productCode),
	)

	return nil
}

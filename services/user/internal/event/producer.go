package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	pkgkafka "github.com/ebuitra10/SmartOrderAIProject/pkg/kafka"
	"github.com/ebuitra10/SmartOrderAIProject/services/user/internal/domain"
)

// Kafka topic constants for user domain events.
const (
	TopicUserCreated = "smartorder.user.created"
	TopicUserUpdated = "smartorder.user.updated"
	TopicUserDeleted = "smartorder.user.deleted"
)

// Aggregate type constant.
const AggregateTypeUser = "user"

// Source identifier for events originating from the user service.
const SourceUserService = "user-service"

// UserData is the payload for user.created and user.updated events.
type UserData struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	UserName string `json:"user_name"`
	LastName string `json:"last_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
}

// UserDeletedData is the payload for a user.deleted event.
type UserDeletedData struct {
	ID int64 `json:"id"`
}

// Producer publishes user domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the user service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishUserCreated publishes a user.created event.
func (p *Producer) PublishUserCreated(ctx context.Context, user *domain.User) error {
	return p.publishSnapshot(ctx, TopicUserCreated, user)
}

// PublishUserUpdated publishes a user.updated event.
func (p *Producer) PublishUserUpdated(ctx context.Context, user *domain.User) error {
	return p.publishSnapshot(ctx, TopicUserUpdated, user)
}

func (p *Producer) publishSnapshot(ctx context.Context, topic string, user *domain.User) error {
	data := UserData{
		ID:       user.ID,
		Name:     user.Name,
		UserName: user.UserName,
		LastName: user.LastName,
		Email:    user.Email,
		Phone:    user.Phone,
	}

	event, err := pkgkafka.NewEvent(topic, strconv.FormatInt(user.ID, 10), AggregateTypeUser, SourceUserService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published user event",
		slog.String("topic", topic),
		slog.Int64("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return nil
}

// PublishUserDeleted publishes a user.deleted event.
func (p *Producer) PublishUserDeleted(ctx context.Context, id int64) error {
	data := UserDeletedData{ID: id}

	event, err := pkgkafka.NewEvent(TopicUserDeleted, strconv.FormatInt(id, 10), AggregateTypeUser, SourceUserService, data)
	if err != nil {
		return fmt.Errorf("create user.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicUserDeleted, event); err != nil {
		return fmt.Errorf("publish user.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published user.deleted event",
		slog.Int64("user_id", id),
	)

	return nil
}

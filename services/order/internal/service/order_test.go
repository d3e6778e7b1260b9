package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ebuitra10/SmartOrderAIProject/pkg/errors"
	pkgkafka "github.com/ebuitra10/SmartOrderAIProject/pkg/kafka"
	"github.com/ebuitra10/SmartOrderAIProject/services/order/internal/domain"
	"github.com/ebuitra10/SmartOrderAIProject/services/order/internal/event"
)

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderRepository) List(ctx context.Context, page, perPage int) ([]domain.Order, int, error) {
	args := m.Called(ctx, page, perPage)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Order), args.Int(1), args.Error(2)
}

func (m *mockOrderRepository) GetByDate(ctx context.Context, date time.Time) ([]domain.Order, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *mockOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *mockOrderRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func testOrderLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testEventProducer() *event.Producer {
	logger := testOrderLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:19092"})
	return event.NewProducer(pkgkafka.NewProducer(kafkaCfg, logger), logger)
}

func newTestOrderService(repo *mockOrderRepository) *OrderService {
	return NewOrderService(repo, testEventProducer(), testOrderLogger())
}

func TestCreateOrder_Success(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := newTestOrderService(repo)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(o *domain.Order) bool {
		return o.UserID == 1043887621 && o.TotalPrice == 450000 && !o.OrderDate.IsZero()
	})).Return(&domain.Order{ID: 42, UserID: 1043887621, TotalPrice: 450000}, nil)

	order, err := svc.CreateOrder(context.Background(), OrderInput{
		UserID:        1043887621,
		Store:         "Medellin Centro",
		TotalPrice:    450000,
		PaymentMethod: "CARD",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), order.ID)
	repo.AssertExpectations(t)
}

func TestCreateOrder_InvalidUser(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := newTestOrderService(repo)

	_, err := svc.CreateOrder(context.Background(), OrderInput{UserID: 0, TotalPrice: 100})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	repo.AssertNotCalled(t, "Create")
}

func TestCreateOrder_NegativeTotal(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := newTestOrderService(repo)

	_, err := svc.CreateOrder(context.Background(), OrderInput{UserID: 1, TotalPrice: -1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	repo.AssertNotCalled(t, "Create")
}

func TestGetOrder_NotFound(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := newTestOrderService(repo)

	repo.On("GetByID", mock.Anything, int64(99)).Return(nil, apperrors.NotFound("order", "99"))

	_, err := svc.GetOrder(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestGetOrdersByDate_Success(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := newTestOrderService(repo)

	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	repo.On("GetByDate", mock.Anything, day).Return([]domain.Order{{ID: 42}}, nil)

	orders, err := svc.GetOrdersByDate(context.Background(), day)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestGetOrdersByDate_EmptyDayIsNotFound(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := newTestOrderService(repo)

	day := time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)
	repo.On("GetByDate", mock.Anything, day).Return([]domain.Order{}, nil)

	_, err := svc.GetOrdersByDate(context.Background(), day)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestUpdateOrder_Success(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := newTestOrderService(repo)

	existing := &domain.Order{ID: 42, UserID: 1, Store: "Old", TotalPrice: 100, OrderDate: time.Now()}
	repo.On("GetByID", mock.Anything, int64(42)).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(o *domain.Order) bool {
		return o.Store == "Bogota Norte" && o.TotalPrice == 999
	})).Return(nil)

	order, err := svc.UpdateOrder(context.Background(), 42, OrderInput{
		UserID:        1,
		Store:         "Bogota Norte",
		TotalPrice:    999,
		PaymentMethod: "CASH",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bogota Norte", order.Store)
	repo.AssertExpectations(t)
}

func TestDeleteOrder_NotFound(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := newTestOrderService(repo)

	repo.On("Delete", mock.Anything, int64(99)).Return(apperrors.NotFound("order", "99"))

	err := svc.DeleteOrder(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ebuitra10/SmartOrderAIProject/pkg/errors"
	pkgkafka "github.com/ebuitra10/SmartOrderAIProject/pkg/kafka"
	"github.com/ebuitra10/SmartOrderAIProject/services/fulfillment/internal/domain"
	"github.com/ebuitra10/SmartOrderAIProject/services/fulfillment/internal/event"
)

// --- Recording stubs ---

// recordingRepo records writes so tests can assert exactly what was
// persisted and in which order. Safe for concurrent use.
type recordingRepo struct {
	mu        sync.Mutex
	created   []domain.LineItem
	createErr error
	items     []domain.LineItem
	getErr    error
	listErr   error
	deleted   []int64
	deleteErr error
	nextID    int64
}

func (r *recordingRepo) Create(_ context.Context, item *domain.LineItem) (*domain.LineItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	stored := *item
	stored.ID = r.nextID
	stored.CreatedAt = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	r.created = append(r.created, stored)
	return &stored, nil
}

func (r *recordingRepo) GetByOrderID(_ context.Context, _ int64) ([]domain.LineItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.items, nil
}

func (r *recordingRepo) List(_ context.Context, _, _ int) ([]domain.LineItem, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, 0, r.listErr
	}
	return r.items, len(r.items), nil
}

func (r *recordingRepo) DeleteByOrderID(_ context.Context, orderID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.deleted = append(r.deleted, orderID)
	return nil
}

// createdFor returns the persisted items for one order, in creation order.
func (r *recordingRepo) createdFor(orderID int64) []domain.LineItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := []domain.LineItem{}
	for _, item := range r.created {
		if item.OrderID == orderID {
			items = append(items, item)
		}
	}
	return items
}

type stubOrderGate struct {
	mu     sync.Mutex
	err    error
	calls  int
	tokens []string
}

func (s *stubOrderGate) Exists(_ context.Context, token string, _ int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.tokens = append(s.tokens, token)
	return s.err
}

type decrementCall struct {
	productCode string
	quantity    int
}

// stubInventory resolves prices from a fixed table and records every call.
// priceErrOn / decrementErrOn make the named product code fail.
type stubInventory struct {
	mu             sync.Mutex
	prices         map[string]int64
	priceErrOn     string
	decrementErrOn string
	priceCalls     []string
	decrements     []decrementCall
	tokens         []string
}

func (s *stubInventory) UnitPrice(_ context.Context, token, productCode string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.priceCalls = append(s.priceCalls, productCode)
	s.tokens = append(s.tokens, token)
	if productCode == s.priceErrOn {
		return 0, fmt.Errorf("inventory service: connection refused")
	}
	price, ok := s.prices[productCode]
	if !ok {
		return 0, apperrors.NotFound("inventory", productCode)
	}
	return price, nil
}

func (s *stubInventory) DecrementStock(_ context.Context, token, productCode string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decrements = append(s.decrements, decrementCall{productCode: productCode, quantity: quantity})
	s.tokens = append(s.tokens, token)
	if productCode == s.decrementErrOn {
		return apperrors.InsufficientStock(productCode, quantity, 0)
	}
	return nil
}

// --- Test helpers ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testEventProducer() *event.Producer {
	logger := testLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:19092"})
	return event.NewProducer(pkgkafka.NewProducer(kafkaCfg, logger), logger)
}

func newTestService(repo *recordingRepo, gate *stubOrderGate, inv *stubInventory) *FulfillmentService {
	return NewFulfillmentService(repo, gate, inv, testEventProducer(), testLogger())
}

func appErrorCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr), "expected *AppError, got %v", err)
	return appErr.Code
}

// --- Fulfill ---

func TestFulfill_PersistsItemsAndCommitsStock(t *testing.T) {
	repo := &recordingRepo{}
	gate := &stubOrderGate{}
	inv := &stubInventory{prices: map[string]int64{"A": 1000, "B": 500}}
	svc := newTestService(repo, gate, inv)

	items, err := svc.Fulfill(context.Background(), "Bearer tok", 42, []FulfillItemInput{
		{ProductCode: "A", Quantity: 3},
		{ProductCode: "B", Quantity: 2},
	})

	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, int64(42), items[0].OrderID)
	assert.Equal(t, "A", items[0].ProductCode)
	assert.Equal(t, int64(1000), items[0].UnitPrice)
	assert.Equal(t, int64(3000), items[0].Subtotal)
	assert.Equal(t, int64(3000), items[0].TotalPrice)

	assert.Equal(t, "B", items[1].ProductCode)
	assert.Equal(t, int64(1000), items[1].Subtotal)
	assert.Equal(t, int64(1000), items[1].TotalPrice)

	require.Len(t, repo.created, 2)
	assert.Equal(t, []decrementCall{{"A", 3}, {"B", 2}}, inv.decrements)
}

func TestFulfill_OrderGateFailure_NothingWritten(t *testing.T) {
	repo := &recordingRepo{}
	gate := &stubOrderGate{err: fmt.Errorf("order service: connection refused")}
	inv := &stubInventory{prices: map[string]int64{"A": 1000}}
	svc := newTestService(repo, gate, inv)

	_, err := svc.Fulfill(context.Background(), "", 42, []FulfillItemInput{
		{ProductCode: "A", Quantity: 3},
	})

	require.Error(t, err)
	assert.Equal(t, "ORDER_NOT_FOUND", appErrorCode(t, err))
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.Empty(t, repo.created)
	assert.Empty(t, inv.priceCalls)
	assert.Empty(t, inv.decrements)
}

func TestFulfill_PriceFailureAbortsButKeepsPriorItems(t *testing.T) {
	repo := &recordingRepo{}
	gate := &stubOrderGate{}
	inv := &stubInventory{
		prices:     map[string]int64{"A": 1000, "C": 700},
		priceErrOn: "B",
	}
	svc := newTestService(repo, gate, inv)

	_, err := svc.Fulfill(context.Background(), "", 42, []FulfillItemInput{
		{ProductCode: "A", Quantity: 1},
		{ProductCode: "B", Quantity: 1},
		{ProductCode: "C", Quantity: 1},
	})

	require.Error(t, err)
	assert.Equal(t, "PRICE_UNAVAILABLE", appErrorCode(t, err))

	// Item 1 was fully processed before the failure; items 2 and 3 never
	// reached the repository.
	require.Len(t, repo.created, 1)
	assert.Equal(t, "A", repo.created[0].ProductCode)
	assert.Equal(t, []decrementCall{{"A", 1}}, inv.decrements)
	assert.Equal(t, []string{"A", "B"}, inv.priceCalls)
}

func TestFulfill_DecrementFailureKeepsPersistedItem(t *testing.T) {
	repo := &recordingRepo{}
	gate := &stubOrderGate{}
	inv := &stubInventory{
		prices:         map[string]int64{"A": 1000, "B": 500, "C": 700},
		decrementErrOn: "B",
	}
	svc := newTestService(repo, gate, inv)

	_, err := svc.Fulfill(context.Background(), "", 42, []FulfillItemInput{
		{ProductCode: "A", Quantity: 1},
		{ProductCode: "B", Quantity: 1},
		{ProductCode: "C", Quantity: 1},
	})

	require.Error(t, err)
	assert.Equal(t, "STOCK_COMMIT_FAILED", appErrorCode(t, err))

	// Item 2's line item was persisted before its decrement failed and it
	// stays persisted. Nothing is rolled back.
	require.Len(t, repo.created, 2)
	assert.Equal(t, "A", repo.created[0].ProductCode)
	assert.Equal(t, "B", repo.created[1].ProductCode)
	assert.Equal(t, []decrementCall{{"A", 1}, {"B", 1}}, inv.decrements)
	assert.Empty(t, repo.deleted)
}

func TestFulfill_EmptyItemListStillRunsGate(t *testing.T) {
	repo := &recordingRepo{}
	gate := &stubOrderGate{}
	inv := &stubInventory{}
	svc := newTestService(repo, gate, inv)

	items, err := svc.Fulfill(context.Background(), "", 42, nil)

	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 1, gate.calls)
	assert.Empty(t, repo.created)
	assert.Empty(t, inv.priceCalls)
}

func TestFulfill_NonPositiveQuantityRejectedBeforeGate(t *testing.T) {
	repo := &recordingRepo{}
	gate := &stubOrderGate{}
	inv := &stubInventory{prices: map[string]int64{"A": 1000}}
	svc := newTestService(repo, gate, inv)

	_, err := svc.Fulfill(context.Background(), "", 42, []FulfillItemInput{
		{ProductCode: "A", Quantity: 0},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	assert.Equal(t, 0, gate.calls)
	assert.Empty(t, repo.created)
}

func TestFulfill_DuplicateProductCodesProcessedIndependently(t *testing.T) {
	repo := &recordingRepo{}
	gate := &stubOrderGate{}
	inv := &stubInventory{prices: map[string]int64{"A": 1000}}
	svc := newTestService(repo, gate, inv)

	items, err := svc.Fulfill(context.Background(), "", 42, []FulfillItemInput{
		{ProductCode: "A", Quantity: 1},
		{ProductCode: "A", Quantity: 2},
	})

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(1000), items[0].Subtotal)
	assert.Equal(t, int64(2000), items[1].Subtotal)
	assert.Equal(t, []decrementCall{{"A", 1}, {"A", 2}}, inv.decrements)
}

func TestFulfill_ForwardsBearerTokenVerbatim(t *testing.T) {
	repo := &recordingRepo{}
	gate := &stubOrderGate{}
	inv := &stubInventory{prices: map[string]int64{"A": 1000}}
	svc := newTestService(repo, gate, inv)

	token := "Bearer eyJhbGciOiJIUzI1NiJ9.payload.sig"
	_, err := svc.Fulfill(context.Background(), token, 42, []FulfillItemInput{
		{ProductCode: "A", Quantity: 1},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{token}, gate.tokens)
	for _, got := range inv.tokens {
		assert.Equal(t, token, got)
	}
}

func TestFulfill_RepositoryFailurePropagates(t *testing.T) {
	repo := &recordingRepo{createErr: assert.AnError}
	gate := &stubOrderGate{}
	inv := &stubInventory{prices: map[string]int64{"A": 1000}}
	svc := newTestService(repo, gate, inv)

	_, err := svc.Fulfill(context.Background(), "", 42, []FulfillItemInput{
		{ProductCode: "A", Quantity: 1},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, assert.AnError))
	assert.Empty(t, inv.decrements)
}

func TestFulfill_ConcurrentDistinctOrdersDoNotInterfere(t *testing.T) {
	repo := &recordingRepo{}
	gate := &stubOrderGate{}
	inv := &stubInventory{prices: map[string]int64{"A": 1000, "B": 500}}
	svc := newTestService(repo, gate, inv)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	results := make([][]domain.LineItem, 2)

	wg.Add(2)
	go func() {
		defer wg.Done()
		results[0], errs[0] = svc.Fulfill(context.Background(), "", 42, []FulfillItemInput{
			{ProductCode: "A", Quantity: 3},
			{ProductCode: "B", Quantity: 2},
		})
	}()
	go func() {
		defer wg.Done()
		results[1], errs[1] = svc.Fulfill(context.Background(), "", 43, []FulfillItemInput{
			{ProductCode: "B", Quantity: 1},
		})
	}()
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	// Each call returns only its own order's items.
	require.Len(t, results[0], 2)
	require.Len(t, results[1], 1)
	for _, item := range results[0] {
		assert.Equal(t, int64(42), item.OrderID)
	}
	assert.Equal(t, int64(43), results[1][0].OrderID)

	// The shared repository holds exactly each order's rows, no cross-order
	// leakage.
	order42 := repo.createdFor(42)
	require.Len(t, order42, 2)
	assert.Equal(t, "A", order42[0].ProductCode)
	assert.Equal(t, int64(3000), order42[0].Subtotal)
	assert.Equal(t, "B", order42[1].ProductCode)

	order43 := repo.createdFor(43)
	require.Len(t, order43, 1)
	assert.Equal(t, "B", order43[0].ProductCode)
	assert.Equal(t, int64(500), order43[0].Subtotal)

	assert.Equal(t, 2, gate.calls)
}

// --- GetLineItems ---

func TestGetLineItems_Success(t *testing.T) {
	repo := &recordingRepo{items: []domain.LineItem{
		{ID: 1, OrderID: 42, ProductCode: "A", Quantity: 3, UnitPrice: 1000, Subtotal: 3000, TotalPrice: 3000},
	}}
	svc := newTestService(repo, &stubOrderGate{}, &stubInventory{})

	items, err := svc.GetLineItems(context.Background(), 42)

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "A", items[0].ProductCode)
}

func TestGetLineItems_EmptyOrderIsNotFound(t *testing.T) {
	repo := &recordingRepo{items: []domain.LineItem{}}
	svc := newTestService(repo, &stubOrderGate{}, &stubInventory{})

	_, err := svc.GetLineItems(context.Background(), 42)

	require.Error(t, err)
	assert.Equal(t, "LINE_ITEMS_NOT_FOUND", appErrorCode(t, err))
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

// --- ListLineItems ---

func TestListLineItems_SpansOrders(t *testing.T) {
	repo := &recordingRepo{items: []domain.LineItem{
		{ID: 1, OrderID: 42, ProductCode: "A", Quantity: 3, UnitPrice: 1000, Subtotal: 3000, TotalPrice: 3000},
		{ID: 2, OrderID: 43, ProductCode: "B", Quantity: 2, UnitPrice: 500, Subtotal: 1000, TotalPrice: 1000},
	}}
	svc := newTestService(repo, &stubOrderGate{}, &stubInventory{})

	items, total, err := svc.ListLineItems(context.Background(), 1, 20)

	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, items, 2)
	assert.Equal(t, int64(42), items[0].OrderID)
	assert.Equal(t, int64(43), items[1].OrderID)
}

func TestListLineItems_EmptyLedgerIsNotAnError(t *testing.T) {
	repo := &recordingRepo{items: []domain.LineItem{}}
	svc := newTestService(repo, &stubOrderGate{}, &stubInventory{})

	items, total, err := svc.ListLineItems(context.Background(), 1, 20)

	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, items)
}

func TestListLineItems_RepositoryErrorPropagates(t *testing.T) {
	repo := &recordingRepo{listErr: errors.New("connection reset")}
	svc := newTestService(repo, &stubOrderGate{}, &stubInventory{})

	_, _, err := svc.ListLineItems(context.Background(), 1, 20)

	require.Error(t, err)
}

// --- DeleteLineItems ---

func TestDeleteLineItems_IssuesNoInventoryCalls(t *testing.T) {
	repo := &recordingRepo{}
	inv := &stubInventory{}
	svc := newTestService(repo, &stubOrderGate{}, inv)

	err := svc.DeleteLineItems(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, []int64{42}, repo.deleted)
	assert.Empty(t, inv.priceCalls)
	assert.Empty(t, inv.decrements)
}

func TestDeleteLineItems_NotFoundPropagates(t *testing.T) {
	repo := &recordingRepo{deleteErr: apperrors.LineItemsNotFound(42)}
	svc := newTestService(repo, &stubOrderGate{}, &stubInventory{})

	err := svc.DeleteLineItems(context.Background(), 42)

	require.Error(t, err)
	assert.Equal(t, "LINE_ITEMS_NOT_FOUND", appErrorCode(t, err))
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	apperrors "github.com/ebuitra10/SmartOrderAIProject/pkg/errors"
	"github.com/ebuitra10/SmartOrderAIProject/pkg/slug"
	"github.com/ebuitra10/SmartOrderAIProject/services/product/internal/domain"
	"github.com/ebuitra10/SmartOrderAIProject/services/product/internal/event"
	"github.com/ebuitra10/SmartOrderAIProject/services/product/internal/repository"
)

// codeRetries bounds how many uniquifying suffixes are tried when a derived
// product code collides with an existing one.
const codeRetries = 3

// InventorySyncer keeps the inventory service's stock records aligned with
// the catalog.
type InventorySyncer interface {
	Upsert(ctx context.Context, productCode string, quantity int, unitPrice int64) error
	Delete(ctx context.Context, productCode string) error
}

// ProductService implements business logic for catalog products.
type ProductService struct {
	repo      repository.ProductRepository
	inventory InventorySyncer
	events    *event.Producer
	logger    *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(repo repository.ProductRepository, inventory InventorySyncer, events *event.Producer, logger *slog.Logger) *ProductService {
	return &ProductService{
		repo:      repo,
		inventory: inventory,
		events:    events,
		logger:    logger,
	}
}

// CreateProductInput holds the fields for creating a product. ProductCode is
// optional; when empty a code is derived from the name.
type CreateProductInput struct {
	Name        string
	ProductCode string
	Description string
	Stock       int
	Price       int64
	ImageURL    string
}

// UpdateProductInput holds the fields for updating a product.
type UpdateProductInput struct {
	Name        string
	ProductCode string
	Description string
	Stock       int
	Price       int64
	ImageURL    string
}

// CreateProduct persists the product and then seeds the inventory service
// with its stock and unit price. Inventory sync failure is logged, not
// returned: the catalog row is already committed and the inventory consumer
// reconciles from events.
func (s *ProductService) CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("product name is required")
	}
	if input.Stock < 0 {
		return nil, apperrors.InvalidInput("stock cannot be negative")
	}
	if input.Price < 0 {
		return nil, apperrors.InvalidInput("price cannot be negative")
	}

	code := input.ProductCode
	if code == "" {
		code = slug.ProductCode(input.Name)
	}
	if code == "" {
		return nil, apperrors.InvalidInput("product name yields an empty product code")
	}

	product, err := s.createWithUniqueCode(ctx, input, code)
	if err != nil {
		return nil, err
	}

	if err := s.inventory.Upsert(ctx, product.ProductCode, product.Stock, product.Price); err != nil {
		s.logger.ErrorContext(ctx, "inventory sync failed after product create",
			slog.String("product_code", product.ProductCode),
			slog.String("error", err.Error()),
		)
	}

	// Do not fail the operation if event publishing fails.
	if err := s.events.PublishProductCreated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.Int64("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	return product, nil
}

// createWithUniqueCode inserts the product, appending a numeric suffix to the
// derived code when it collides. A caller-supplied code is never rewritten.
func (s *ProductService) createWithUniqueCode(ctx context.Context, input CreateProductInput, code string) (*domain.Product, error) {
	explicit := input.ProductCode != ""

	for attempt := 0; attempt < codeRetries; attempt++ {
		candidate := code
		if attempt > 0 {
			candidate = fmt.Sprintf("%s-%d", code, attempt+1)
		}

		product, err := s.repo.Create(ctx, &domain.Product{
			Name:        input.Name,
			ProductCode: candidate,
			Description: input.Description,
			Stock:       input.Stock,
			Price:       input.Price,
			ImageURL:    input.ImageURL,
		})
		if err == nil {
			return product, nil
		}
		if explicit || !errors.Is(err, apperrors.ErrAlreadyExists) {
			return nil, err
		}
	}

	return nil, apperrors.AlreadyExists("product", "product_code", code)
}

// GetProduct retrieves a product by ID.
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if id <= 0 {
		return nil, apperrors.InvalidInput("product id must be positive")
	}
	return s.repo.GetByID(ctx, id)
}

// GetProductByCode retrieves a product by its unique product code.
func (s *ProductService) GetProductByCode(ctx context.Context, productCode string) (*domain.Product, error) {
	if productCode == "" {
		return nil, apperrors.InvalidInput("product code is required")
	}
	return s.repo.GetByCode(ctx, productCode)
}

// ListProducts returns a page of products and the total count.
func (s *ProductService) ListProducts(ctx context.Context, page, perPage int) ([]domain.Product, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	return s.repo.List(ctx, page, perPage)
}

// UpdateProduct modifies an existing product and refreshes the inventory
// record's unit price. The stock count is not re-sent: inventory owns it
// once the product exists, and re-adding the catalog stock would inflate it.
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, input UpdateProductInput) (*domain.Product, error) {
	if id <= 0 {
		return nil, apperrors.InvalidInput("product id must be positive")
	}
	if input.Name == "" {
		return nil, apperrors.InvalidInput("product name is required")
	}
	if input.Stock < 0 {
		return nil, apperrors.InvalidInput("stock cannot be negative")
	}
	if input.Price < 0 {
		return nil, apperrors.InvalidInput("price cannot be negative")
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Name = input.Name
	if input.ProductCode != "" {
		existing.ProductCode = input.ProductCode
	}
	existing.Description = input.Description
	existing.Stock = input.Stock
	existing.Price = input.Price
	existing.ImageURL = input.ImageURL

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	if err := s.inventory.Upsert(ctx, existing.ProductCode, 0, existing.Price); err != nil {
		s.logger.ErrorContext(ctx, "inventory sync failed after product update",
			slog.String("product_code", existing.ProductCode),
			slog.String("error", err.Error()),
		)
	}

	if err := s.events.PublishProductUpdated(ctx, existing); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.updated event",
			slog.Int64("product_id", existing.ID),
			slog.String("error", err.Error()),
		)
	}

	return existing, nil
}

// DeleteProduct removes the product and its inventory record. A failed
// inventory delete is logged; the product.deleted event lets the inventory
// service's consumer finish the cleanup.
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperrors.InvalidInput("product id must be positive")
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.inventory.Delete(ctx, product.ProductCode); err != nil {
		s.logger.ErrorContext(ctx, "inventory delete failed after product delete",
			slog.String("product_code", product.ProductCode),
			slog.String("error", err.Error()),
		)
	}

	if err := s.events.PublishProductDeleted(ctx, product.ID, product.ProductCode); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.deleted event",
			slog.Int64("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

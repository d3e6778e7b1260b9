package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ebuitra10/SmartOrderAIProject/pkg/httputil"
	"github.com/ebuitra10/SmartOrderAIProject/pkg/pagination"
	"github.com/ebuitra10/SmartOrderAIProject/pkg/validator"
	"github.com/ebuitra10/SmartOrderAIProject/services/product/internal/service"
)

// ProductHandler handles HTTP requests for product endpoints.
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{service: svc, logger: logger}
}

// ProductRequest is the JSON request body for creating or updating a product.
// product_code is optional on create; the service derives one from the name.
type ProductRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=128"`
	ProductCode string `json:"product_code" validate:"max=64"`
	Description string `json:"description" validate:"max=1024"`
	Stock       int    `json:"stock" validate:"gte=0"`
	Price       int64  `json:"price" validate:"gte=0"`
	ImageURL    string `json:"image_url" validate:"omitempty,url,max=512"`
}

// CreateProduct handles POST /api/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), service.CreateProductInput{
		Name:        req.Name,
		ProductCode: req.ProductCode,
		Description: req.Description,
		Stock:       req.Stock,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: product})
}

// ListProducts handles GET /api/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	products, totalCount, err := h.service.ListProducts(r.Context(), params.Page, params.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	resp := httputil.NewPaginatedResponse(products, totalCount, params.Page, params.PerPage)
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// GetProduct handles GET /api/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// GetProductByCode handles GET /api/products/code/{productCode}
func (h *ProductHandler) GetProductByCode(w http.ResponseWriter, r *http.Request) {
	productCode := chi.URLParam(r, "productCode")

	product, err := h.service.GetProductByCode(r.Context(), productCode)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// UpdateProduct handles PUT /api/products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), id, service.UpdateProductInput{
		Name:        req.Name,
		ProductCode: req.ProductCode,
		Description: req.Description,
		Stock:       req.Stock,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// DeleteProduct handles DELETE /api/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

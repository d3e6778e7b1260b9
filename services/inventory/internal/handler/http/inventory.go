package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ebuitra10/SmartOrderAIProject/pkg/httputil"
	"github.com/ebuitra10/SmartOrderAIProject/pkg/pagination"
	"github.com/ebuitra10/SmartOrderAIProject/pkg/validator"
	"github.com/ebuitra10/SmartOrderAIProject/services/inventory/internal/service"
)

// InventoryHandler handles HTTP requests for inventory endpoints.
type InventoryHandler struct {
	service *service.InventoryService
	logger  *slog.Logger
}

// NewInventoryHandler creates a new inventory HTTP handler.
func NewInventoryHandler(svc *service.InventoryService, logger *slog.Logger) *InventoryHandler {
	return &InventoryHandler{service: svc, logger: logger}
}

// UpsertInventoryRequest is the JSON request body for creating or topping up
// a stock record.
type UpsertInventoryRequest struct {
	ProductCode   string `json:"product_code" validate:"required,min=1,max=64"`
	StockQuantity int    `json:"stock_quantity" validate:"gte=0"`
	UnitPrice     int64  `json:"unit_price" validate:"gte=0"`
}

// DecrementStockRequest is the JSON request body for a stock decrement.
type DecrementStockRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// UnitPriceResponse is the payload returned by the unit-price endpoint.
type UnitPriceResponse struct {
	ProductCode string `json:"product_code"`
	UnitPrice   int64  `json:"unit_price"`
}

// UpsertInventory handles PUT /api/inventory
func (h *InventoryHandler) UpsertInventory(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpsertInventoryRequest
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

	inv, err := h.service.UpsertInventory(r.Context(), service.UpsertInput{
		ProductCode:   req.ProductCode,
		StockQuantity: req.StockQuantity,
		UnitPrice:     req.UnitPrice,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: inv})
}

// ListInventory handles GET /api/inventory
func (h *InventoryHandler) ListInventory(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	records, total, err := h.service.ListInventory(r.Context(), params.Page, params.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(records, total, params.Page, params.PerPage))
}

// GetInventory handles GET /api/inventory/{productCode}
func (h *InventoryHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	productCode := chi.URLParam(r, "productCode")

	inv, err := h.service.GetInventory(r.Context(), productCode)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: inv})
}

// GetUnitPrice handles GET /api/inventory/{productCode}/unit-price
func (h *InventoryHandler) GetUnitPrice(w http.ResponseWriter, r *http.Request) {
	productCode := chi.URLParam(r, "productCode")

	price, err := h.service.GetUnitPrice(r.Context(), productCode)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: UnitPriceResponse{
		ProductCode: productCode,
		UnitPrice:   price,
	}})
}

// DecrementStock handles POST /api/inventory/{productCode}/decrement
func (h *InventoryHandler) DecrementStock(w http.ResponseWriter, r *http.Request) {
	productCode := chi.URLParam(r, "productCode")

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req DecrementStockRequest
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

	inv, err := h.service.DecrementStock(r.Context(), productCode, req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: inv})
}

// DeleteInventory handles DELETE /api/inventory/{productCode}
func (h *InventoryHandler) DeleteInventory(w http.ResponseWriter, r *http.Request) {
	productCode := chi.URLParam(r, "productCode")

	if err := h.service.DeleteInventory(r.Context(), productCode); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

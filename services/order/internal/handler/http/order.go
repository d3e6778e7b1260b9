package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ebuitra10/SmartOrderAIProject/pkg/httputil"
	"github.com/ebuitra10/SmartOrderAIProject/pkg/pagination"
	"github.com/ebuitra10/SmartOrderAIProject/pkg/validator"
	"github.com/ebuitra10/SmartOrderAIProject/services/order/internal/service"
)

// OrderHandler handles HTTP requests for order endpoints.
type OrderHandler struct {
	service *service.OrderService
	logger  *slog.Logger
}

// NewOrderHandler creates a new order HTTP handler.
func NewOrderHandler(svc *service.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{service: svc, logger: logger}
}

// OrderRequest is the JSON request body for creating or updating an order.
// order_date is optional on create and defaults to the current time.
type OrderRequest struct {
	UserID        int64      `json:"user_id" validate:"required,gt=0"`
	OrderDate     *time.Time `json:"order_date" validate:"omitempty"`
	Store         string     `json:"store" validate:"required,min=1,max=100"`
	TotalPrice    int64      `json:"total_price" validate:"gte=0"`
	PaymentMethod string     `json:"payment_method" validate:"required,min=1,max=50"`
}

func (req OrderRequest) toInput() service.OrderInput {
	input := service.OrderInput{
		UserID:        req.UserID,
		Store:         req.Store,
		TotalPrice:    req.TotalPrice,
		PaymentMethod: req.PaymentMethod,
	}
	if req.OrderDate != nil {
		input.OrderDate = *req.OrderDate
	}
	return input
}

// CreateOrder handles POST /api/orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req OrderRequest
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

	order, err := h.service.CreateOrder(r.Context(), req.toInput())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: order})
}

// ListOrders handles GET /api/orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	orders, total, err := h.service.ListOrders(r.Context(), params.Page, params.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(orders, total, params.Page, params.PerPage))
}

// GetOrder handles GET /api/orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	order, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}

// GetOrdersByDate handles GET /api/orders/date/{date} with date as yyyy-mm-dd.
func (h *OrderHandler) GetOrdersByDate(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "date")
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "date must be formatted as yyyy-mm-dd"},
		})
		return
	}

	orders, err := h.service.GetOrdersByDate(r.Context(), date)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: orders})
}

// UpdateOrder handles PUT /api/orders/{id}
func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req OrderRequest
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

	order, err := h.service.UpdateOrder(r.Context(), id, req.toInput())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}

// DeleteOrder handles DELETE /api/orders/{id}
func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteOrder(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ebuitra10/SmartOrderAIProject/pkg/httputil"
	"github.com/ebuitra10/SmartOrderAIProject/pkg/pagination"
	"github.com/ebuitra10/SmartOrderAIProject/pkg/validator"
	"github.com/ebuitra10/SmartOrderAIProject/services/fulfillment/internal/domain"
	"github.com/ebuitra10/SmartOrderAIProject/services/fulfillment/internal/service"
)

// FulfillmentHandler handles HTTP requests for fulfillment endpoints.
type FulfillmentHandler struct {
	service *service.FulfillmentService
	logger  *slog.Logger
}

// NewFulfillmentHandler creates a new fulfillment HTTP handler.
func NewFulfillmentHandler(svc *service.FulfillmentService, logger *slog.Logger) *FulfillmentHandler {
	return &FulfillmentHandler{service: svc, logger: logger}
}

// FulfillItemRequest is a single requested line in a fulfillment request.
type FulfillItemRequest struct {
	ProductCode string `json:"product_code" validate:"required,min=1,max=64"`
	Quantity    int    `json:"quantity" validate:"required,gt=0"`
}

// FulfillOrderRequest is the JSON request body for fulfilling an order.
// An empty item list is valid: the order is verified and nothing is written.
type FulfillOrderRequest struct {
	Items []FulfillItemRequest `json:"items" validate:"dive"`
}

// FulfillmentResponse is the payload returned after fulfilling an order or
// querying its line items.
type FulfillmentResponse struct {
	OrderID     int64             `json:"order_id"`
	Items       []domain.LineItem `json:"items"`
	TotalAmount int64             `json:"total_amount"`
}

func newFulfillmentResponse(orderID int64, items []domain.LineItem) FulfillmentResponse {
	resp := FulfillmentResponse{OrderID: orderID, Items: items}
	for _, item := range items {
		resp.TotalAmount += item.TotalPrice
	}
	return resp
}

// FulfillOrder handles POST /api/fulfillment/orders/{orderID}
func (h *FulfillmentHandler) FulfillOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := httputil.ParseID(w, chi.URLParam(r, "orderID"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req FulfillOrderRequest
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

	items := make([]service.FulfillItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.FulfillItemInput{
			ProductCode: item.ProductCode,
			Quantity:    item.Quantity,
		}
	}

	persisted, err := h.service.Fulfill(r.Context(), r.Header.Get("Authorization"), orderID, items)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: newFulfillmentResponse(orderID, persisted)})
}

// ListLineItems handles GET /api/fulfillment
func (h *FulfillmentHandler) ListLineItems(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	items, total, err := h.service.ListLineItems(r.Context(), params.Page, params.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(items, total, params.Page, params.PerPage))
}

// GetLineItems handles GET /api/fulfillment/orders/{orderID}
func (h *FulfillmentHandler) GetLineItems(w http.ResponseWriter, r *http.Request) {
	orderID, ok := httputil.ParseID(w, chi.URLParam(r, "orderID"))
	if !ok {
		return
	}

	items, err := h.service.GetLineItems(r.Context(), orderID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newFulfillmentResponse(orderID, items)})
}

// DeleteLineItems handles DELETE /api/fulfillment/orders/{orderID}
func (h *FulfillmentHandler) DeleteLineItems(w http.ResponseWriter, r *http.Request) {
	orderID, ok := httputil.ParseID(w, chi.URLParam(r, "orderID"))
	if !ok {
		return
	}

	if err := h.service.DeleteLineItems(r.Context(), orderID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

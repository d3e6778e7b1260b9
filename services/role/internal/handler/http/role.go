package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ebuitra10/SmartOrderAIProject/pkg/httputil"
	"github.com/ebuitra10/SmartOrderAIProject/pkg/pagination"
	"github.com/ebuitra10/SmartOrderAIProject/pkg/validator"
	"github.com/ebuitra10/SmartOrderAIProject/services/role/internal/service"
)

// RoleHandler handles HTTP requests for role endpoints.
type RoleHandler struct {
	service *service.RoleService
	logger  *slog.Logger
}

// NewRoleHandler creates a new role HTTP handler.
func NewRoleHandler(svc *service.RoleService, logger *slog.Logger) *RoleHandler {
	return &RoleHandler{service: svc, logger: logger}
}

// RoleRequest is the JSON request body for creating or updating a role.
type RoleRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=64"`
	Description string `json:"description" validate:"max=255"`
}

// CreateRole handles POST /api/roles
func (h *RoleHandler) CreateRole(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req RoleRequest
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

	role, err := h.service.CreateRole(r.Context(), service.CreateRoleInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: role})
}

// ListRoles handles GET /api/roles
func (h *RoleHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	roles, total, err := h.service.ListRoles(r.Context(), params.Page, params.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(roles, total, params.Page, params.PerPage))
}

// GetRole handles GET /api/roles/{id}
func (h *RoleHandler) GetRole(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	role, err := h.service.GetRole(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: role})
}

// UpdateRole handles PUT /api/roles/{id}
func (h *RoleHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req RoleRequest
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

	role, err := h.service.UpdateRole(r.Context(), id, service.CreateRoleInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: role})
}

// DeleteRole handles DELETE /api/roles/{id}
func (h *RoleHandler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteRole(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

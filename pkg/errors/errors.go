package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard sentinel errors for common cases.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrAlreadyExists  = errors.New("resource already exists")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInternal       = errors.New("internal error")
	ErrConflict       = errors.New("conflict")
	ErrServiceUnavail = errors.New("service unavailable")
	ErrOutOfStock     = errors.New("insufficient stock")
)

// AppError represents a structured application error with HTTP status mapping.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// AlreadyExists creates a 409 error.
func AlreadyExists(resource, field, value string) *AppError {
	return &AppError{
		Code:    "ALREADY_EXISTS",
		Message: fmt.Sprintf("%s with %s %q already exists", resource, field, value),
		Status:  http.StatusConflict,
		Err:     ErrAlreadyExists,
	}
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// Validation creates a 422 error for a request that parsed but failed validation.
func Validation(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_FAILED",
		Message: message,
		Status:  http.StatusUnprocessableEntity,
		Err:     ErrInvalidInput,
	}
}

// Unauthorized creates a 401 error.
func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     ErrUnauthorized,
	}
}

// Forbidden creates a 403 error.
func Forbidden(message string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  http.StatusForbidden,
		Err:     ErrForbidden,
	}
}

// Conflict creates a 409 error.
func Conflict(message string) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Message: message,
		Status:  http.StatusConflict,
		Err:     ErrConflict,
	}
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Unavailable creates a 503 error for an unreachable downstream dependency.
func Unavailable(service string) *AppError {
	return &AppError{
		Code:    "SERVICE_UNAVAILABLE",
		Message: fmt.Sprintf("%s is unavailable", service),
		Status:  http.StatusServiceUnavailable,
		Err:     ErrServiceUnavail,
	}
}

// InsufficientStock creates a 409 error for a stock decrement that would go negative.
func InsufficientStock(productCode string, requested, available int) *AppError {
	return &AppError{
		Code:    "INSUFFICIENT_STOCK",
		Message: fmt.Sprintf("product %s has %d units, %d requested", productCode, available, requested),
		Status:  http.StatusConflict,
		Err:     ErrOutOfStock,
	}
}

// OrderNotFound creates a 404 error for a fulfillment request whose order
// could not be confirmed. Transport failures map here too: an order that
// cannot be verified is treated as absent.
func OrderNotFound(orderID int64) *AppError {
	return &AppError{
		Code:    "ORDER_NOT_FOUND",
		Message: fmt.Sprintf("order %d does not exist or could not be verified", orderID),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// PriceUnavailable creates a 502 error for a unit price lookup that failed.
func PriceUnavailable(productCode string, err error) *AppError {
	return &AppError{
		Code:    "PRICE_UNAVAILABLE",
		Message: fmt.Sprintf("unit price for product %s could not be resolved", productCode),
		Status:  http.StatusBadGateway,
		Err:     err,
	}
}

// StockCommitFailed creates a 502 error for a stock decrement that failed
// after its line item was persisted.
func StockCommitFailed(productCode string, err error) *AppError {
	return &AppError{
		Code:    "STOCK_COMMIT_FAILED",
		Message: fmt.Sprintf("stock for product %s could not be committed", productCode),
		Status:  http.StatusBadGateway,
		Err:     err,
	}
}

// LineItemsNotFound creates a 404 error for an order with no line items.
func LineItemsNotFound(orderID int64) *AppError {
	return &AppError{
		Code:    "LINE_ITEMS_NOT_FOUND",
		Message: fmt.Sprintf("no line items found for order %d", orderID),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists), errors.Is(err, ErrConflict), errors.Is(err, ErrOutOfStock):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrServiceUnavail):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ebuitra10/SmartOrderAIProject/pkg/errors"
	"github.com/ebuitra10/SmartOrderAIProject/pkg/logger"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// --- WriteJSON ---

func TestWriteJSON_SetsContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, Response{Data: "hello"})

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWriteJSON_ErrorPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusBadRequest, Response{
		Error: &ErrorResponse{Code: "INVALID", Message: "bad input"},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp Response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID", resp.Error.Code)
	assert.Equal(t, "bad input", resp.Error.Message)
}

func TestWriteJSON_StatusCodes(t *testing.T) {
	codes := []int{http.StatusOK, http.StatusCreated, http.StatusNotFound, http.StatusTeapot}
	for _, code := range codes {
		rec := httptest.NewRecorder()
		WriteJSON(rec, code, Response{})
		assert.Equal(t, code, rec.Code)
	}
}

// --- WriteError ---

func TestWriteError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	appErr := apperrors.NotFound("product", "42")
	WriteError(rec, req, appErr, testLogger())

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp Response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestWriteError_Sentinels(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{apperrors.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{apperrors.ErrAlreadyExists, http.StatusConflict, "ALREADY_EXISTS"},
		{apperrors.ErrOutOfStock, http.StatusConflict, "INSUFFICIENT_STOCK"},
		{apperrors.ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
		{apperrors.ErrServiceUnavail, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)

			WriteError(rec, req, tt.err, testLogger())

			assert.Equal(t, tt.status, rec.Code)

			var resp Response
			err := json.NewDecoder(rec.Body).Decode(&resp)
			require.NoError(t, err)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestWriteError_UnknownError_Returns500(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	WriteError(rec, req, fmt.Errorf("something unexpected"), testLogger())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp Response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
}

func TestWriteError_IncludesRequestID(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx := logger.WithCorrelationID(context.Background(), "corr-123")
	req := httptest.NewRequest(http.MethodGet, "/test", nil).WithContext(ctx)

	WriteError(rec, req, apperrors.ErrNotFound, testLogger())

	var resp Response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "corr-123", resp.Error.RequestID)
}

func TestWriteError_NoCorrelationID_OmitsRequestID(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	WriteError(rec, req, apperrors.ErrNotFound, testLogger())

	var raw map[string]json.RawMessage
	err := json.NewDecoder(rec.Body).Decode(&raw)
	require.NoError(t, err)

	var errObj map[string]json.RawMessage
	err = json.Unmarshal(raw["error"], &errObj)
	require.NoError(t, err)
	_, hasRequestID := errObj["request_id"]
	assert.False(t, hasRequestID, "request_id should be omitted when correlation_id is not in context")
}

// --- WriteValidationError ---

func TestWriteValidationError_NonValidationError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteValidationError(rec, fmt.Errorf("not a validation error"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp Response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

// --- Response struct ---

func TestResponse_OmitsNilFields(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, Response{Data: "ok"})

	var raw map[string]json.RawMessage
	err := json.NewDecoder(rec.Body).Decode(&raw)
	require.NoError(t, err)
	_, hasError := raw["error"]
	assert.False(t, hasError, "error field should be omitted when nil")

	rec2 := httptest.NewRecorder()
	WriteJSON(rec2, http.StatusBadRequest, Response{
		Error: &ErrorResponse{Code: "ERR", Message: "msg"},
	})

	var raw2 map[string]json.RawMessage
	err = json.NewDecoder(rec2.Body).Decode(&raw2)
	require.NoError(t, err)
	_, hasData := raw2["data"]
	assert.False(t, hasData, "data field should be omitted when nil")
}

// --- PaginatedResponse ---

func TestNewPaginatedResponse_ComputesTotalPages(t *testing.T) {
	resp := NewPaginatedResponse([]string{"a", "b"}, 25, 1, 10)
	assert.Equal(t, 3, resp.TotalPages)
	assert.True(t, resp.HasNext)
	assert.Equal(t, 2, len(resp.Data))
}

func TestNewPaginatedResponse_LastPage(t *testing.T) {
	resp := NewPaginatedResponse([]string{"x"}, 21, 3, 10)
	assert.Equal(t, 3, resp.TotalPages)
	assert.False(t, resp.HasNext)
}

func TestNewPaginatedResponse_NilDataBecomesEmptySlice(t *testing.T) {
	resp := NewPaginatedResponse[string](nil, 0, 1, 20)
	assert.NotNil(t, resp.Data)
	assert.Equal(t, 0, len(resp.Data))
	assert.Equal(t, 0, resp.TotalPages)
	assert.False(t, resp.HasNext)
}

// --- ParseID ---

func TestParseID_Valid(t *testing.T) {
	rec := httptest.NewRecorder()
	id, ok := ParseID(rec, "42")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, http.StatusOK, rec.Code) // no response written
}

func TestParseID_Invalid_Returns400(t *testing.T) {
	for _, param := range []string{"not-a-number", "", "-7", "0", "1.5"} {
		rec := httptest.NewRecorder()
		id, ok := ParseID(rec, param)
		assert.False(t, ok, "param %q should be rejected", param)
		assert.Equal(t, int64(0), id)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp Response
		err := json.NewDecoder(rec.Body).Decode(&resp)
		require.NoError(t, err)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)
	}
}

package middleware

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-signing"

// newTestLogger returns a logger that discards output (for test silence).
func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// generateToken creates a signed JWT token with the given claims and secret.
func generateToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return tokenString
}

// headerCaptureHandler captures the trusted identity headers from the request
// into the response so tests can verify what the gateway would forward.
func headerCaptureHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		headers := map[string]string{
			"X-User-ID":    r.Header.Get("X-User-ID"),
			"X-User-Roles": r.Header.Get("X-User-Roles"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(headers)
	}
}

// echoHandler is a test handler that writes the X-User-ID header value to the response.
func echoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(userID))
	}
}

func capturedHeaders(t *testing.T, rr *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var headers map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &headers))
	return headers
}

func TestJWTAuth_ValidToken_ExtractsUserID(t *testing.T) {
	tokenString := generateToken(t, testSecret, jwt.MapClaims{
		"user_id": "user-123",
		"exp":     jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
	})

	handler := JWTAuth(testSecret, newTestLogger())(echoHandler())
	req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "user-123", rr.Body.String())
}

func TestJWTAuth_ValidToken_SubClaim(t *testing.T) {
	tokenString := generateToken(t, testSecret, jwt.MapClaims{
		"sub": "user-456",
		"exp": jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
	})

	handler := JWTAuth(testSecret, newTestLogger())(echoHandler())
	req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "user-456", rr.Body.String())
}

func TestJWTAuth_ValidToken_NumericUserID(t *testing.T) {
	tokenString := generateToken(t, testSecret, jwt.MapClaims{
		"user_id": float64(42),
		"exp":     jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
	})

	handler := JWTAuth(testSecret, newTestLogger())(echoHandler())
	req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "42", rr.Body.String())
}

func TestJWTAuth_RealmRoles_MappedToAuthorities(t *testing.T) {
	tokenString := generateToken(t, testSecret, jwt.MapClaims{
		"user_id": "user-789",
		"realm_access": map[string]any{
			"roles": []any{"admin", "warehouse_manager"},
		},
		"exp": jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
	})

	handler := JWTAuth(testSecret, newTestLogger())(headerCaptureHandler())
	req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	headers := capturedHeaders(t, rr)
	assert.Equal(t, "user-789", headers["X-User-ID"])
	assert.Equal(t, "ROLE_ADMIN,ROLE_WAREHOUSE_MANAGER", headers["X-User-Roles"])
}

func TestJWTAuth_MissingRealmAccess_NoRolesHeader(t *testing.T) {
	tokenString := generateToken(t, testSecret, jwt.MapClaims{
		"user_id": "user-789",
		"exp":     jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
	})

	handler := JWTAuth(testSecret, newTestLogger())(headerCaptureHandler())
	req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	// A token without roles is still accepted; it just carries no authorities.
	assert.Equal(t, http.StatusOK, rr.Code)
	headers := capturedHeaders(t, rr)
	assert.Equal(t, "user-789", headers["X-User-ID"])
	assert.Empty(t, headers["X-User-Roles"])
}

func TestJWTAuth_MalformedRealmAccess_NoRolesHeader(t *testing.T) {
	tests := []struct {
		name  string
		claim any
	}{
		{name: "realm_access_is_string", claim: "admin"},
		{name: "roles_is_string", claim: map[string]any{"roles": "admin"}},
		{name: "roles_has_non_strings", claim: map[string]any{"roles": []any{float64(1), ""}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenString := generateToken(t, testSecret, jwt.MapClaims{
				"user_id":      "user-789",
				"realm_access": tt.claim,
				"exp":          jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
			})

			handler := JWTAuth(testSecret, newTestLogger())(headerCaptureHandler())
			req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
			req.Header.Set("Authorization", "Bearer "+tokenString)
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Empty(t, capturedHeaders(t, rr)["X-User-Roles"])
		})
	}
}

func TestJWTAuth_StripsSpoofedHeaders(t *testing.T) {
	// A request to a protected route WITH a valid token should use the
	// token's identity, not spoofed headers.
	tokenString := generateToken(t, testSecret, jwt.MapClaims{
		"user_id": "real-user",
		"realm_access": map[string]any{
			"roles": []any{"customer"},
		},
		"exp": jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
	})

	handler := JWTAuth(testSecret, newTestLogger())(headerCaptureHandler())
	req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	// Attempt to spoof the trusted headers.
	req.Header.Set("X-User-ID", "spoofed-user")
	req.Header.Set("X-User-Roles", "ROLE_ADMIN")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	headers := capturedHeaders(t, rr)
	assert.Equal(t, "real-user", headers["X-User-ID"])
	assert.Equal(t, "ROLE_CUSTOMER", headers["X-User-Roles"])
}

func TestJWTAuth_StripsSpoofedHeaders_PublicRoute(t *testing.T) {
	// Even on public routes, spoofed trusted headers must be stripped.
	handler := JWTAuth(testSecret, newTestLogger())(headerCaptureHandler())
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("X-User-ID", "spoofed-user")
	req.Header.Set("X-User-Roles", "ROLE_ADMIN")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	headers := capturedHeaders(t, rr)
	assert.Empty(t, headers["X-User-ID"])
	assert.Empty(t, headers["X-User-Roles"])
}

func TestJWTAuth_InvalidToken_Returns401(t *testing.T) {
	handler := JWTAuth(testSecret, newTestLogger())(echoHandler())
	req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer invalid.token.here")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "UNAUTHORIZED")
}

func TestJWTAuth_MissingToken_ProtectedRoute_Returns401(t *testing.T) {
	handler := JWTAuth(testSecret, newTestLogger())(echoHandler())
	req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "missing authorization header")
}

func TestJWTAuth_InvalidHeaderFormat_Returns401(t *testing.T) {
	handler := JWTAuth(testSecret, newTestLogger())(echoHandler())
	req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	req.Header.Set("Authorization", "Token some-token")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid authorization header format")
}

func TestJWTAuth_ExpiredToken_Returns401(t *testing.T) {
	tokenString := generateToken(t, testSecret, jwt.MapClaims{
		"user_id": "user-789",
		"exp":     jwt.NewNumericDate(time.Now().Add(-1 * time.Hour)),
	})

	handler := JWTAuth(testSecret, newTestLogger())(echoHandler())
	req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "UNAUTHORIZED")
}

func TestJWTAuth_WrongSecret_Returns401(t *testing.T) {
	tokenString := generateToken(t, "wrong-secret", jwt.MapClaims{
		"user_id": "user-123",
		"exp":     jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
	})

	handler := JWTAuth(testSecret, newTestLogger())(echoHandler())
	req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestJWTAuth_UnsignedToken_Returns401(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id": "user-123",
		"exp":     jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
	})
	tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	handler := JWTAuth(testSecret, newTestLogger())(echoHandler())
	req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestJWTAuth_PublicRoute_GetProducts_NoAuthRequired(t *testing.T) {
	handler := JWTAuth(testSecret, newTestLogger())(echoHandler())
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestJWTAuth_PublicRoute_GetProductByCode_NoAuthRequired(t *testing.T) {
	handler := JWTAuth(testSecret, newTestLogger())(echoHandler())
	req := httptest.NewRequest(http.MethodGet, "/api/products/code/LAPTOP-LENOVO-T14", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestJWTAuth_PublicRoute_HealthCheck_NoAuthRequired(t *testing.T) {
	handler := JWTAuth(testSecret, newTestLogger())(echoHandler())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestJWTAuth_ProtectedRoute_PostProducts_RequiresAuth(t *testing.T) {
	handler := JWTAuth(testSecret, newTestLogger())(echoHandler())
	req := httptest.NewRequest(http.MethodPost, "/api/products", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestJWTAuth_OptionsRequest_AlwaysAllowed(t *testing.T) {
	handler := JWTAuth(testSecret, newTestLogger())(echoHandler())
	req := httptest.NewRequest(http.MethodOptions, "/api/orders", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestClaimString(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "string", value: "user-123", want: "user-123"},
		{name: "float64_int", value: float64(42), want: "42"},
		{name: "float64_large", value: float64(1000000), want: "1000000"},
		{name: "bool", value: true, want: ""},
		{name: "missing", value: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := jwt.MapClaims{}
			if tt.value != nil {
				claims["key"] = tt.value
			}
			got := claimString(claims, "key")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsPublicRoute(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   bool
	}{
		{http.MethodGet, "/api/products", true},
		{http.MethodGet, "/api/products/123", true},
		{http.MethodGet, "/api/products/code/LAPTOP-LENOVO-T14", true},
		{http.MethodPost, "/api/products", false},
		{http.MethodDelete, "/api/products/123", false},
		{http.MethodGet, "/health/live", true},
		{http.MethodGet, "/health/ready", true},
		{http.MethodGet, "/api/orders", false},
		{http.MethodPost, "/api/orders", false},
		{http.MethodPost, "/api/fulfillment/orders/42", false},
		{http.MethodGet, "/api/inventory", false},
		{http.MethodGet, "/api/users", false},
		{http.MethodGet, "/api/roles", false},
		{http.MethodOptions, "/api/anything", true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%s", tt.method, tt.path), func(t *testing.T) {
			got := isPublicRoute(tt.method, tt.path)
			assert.Equal(t, tt.want, got)
		})
	}
}

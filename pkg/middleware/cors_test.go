package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func corsGet(cfg CORSConfig, origin string) *httptest.ResponseRecorder {
	handler := CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestCORS_OriginHandling(t *testing.T) {
	prod := []string{"https://example.com", "https://admin.example.com"}

	tests := []struct {
		name       string
		cfg        CORSConfig
		origin     string
		wantOrigin string
		wantVary   string
	}{
		{
			name:       "development wildcards any origin",
			cfg:        CORSConfig{AllowedOrigins: []string{"*"}, Environment: "development"},
			origin:     "https://evil.com",
			wantOrigin: "*",
		},
		{
			name:       "development wildcard without origin header",
			cfg:        CORSConfig{AllowedOrigins: []string{"*"}, Environment: "development"},
			wantOrigin: "*",
		},
		{
			name:       "production echoes first allowed origin",
			cfg:        CORSConfig{AllowedOrigins: prod, Environment: "production"},
			origin:     "https://example.com",
			wantOrigin: "https://example.com",
			wantVary:   "Origin",
		},
		{
			name:       "production echoes second allowed origin",
			cfg:        CORSConfig{AllowedOrigins: prod, Environment: "production"},
			origin:     "https://admin.example.com",
			wantOrigin: "https://admin.example.com",
			wantVary:   "Origin",
		},
		{
			name:   "production rejects unlisted origin",
			cfg:    CORSConfig{AllowedOrigins: prod, Environment: "production"},
			origin: "https://evil.com",
		},
		{
			name: "production without origin header",
			cfg:  CORSConfig{AllowedOrigins: prod, Environment: "production"},
		},
		{
			name:       "explicit wildcard overrides production",
			cfg:        CORSConfig{AllowedOrigins: []string{"https://example.com", "*"}, Environment: "production"},
			origin:     "https://anything.com",
			wantOrigin: "*",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := corsGet(tt.cfg, tt.origin)
			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tt.wantOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantVary, rr.Header().Get("Vary"))
		})
	}
}

func TestCORS_Preflight_Returns204(t *testing.T) {
	reached := false
	handler := CORS(CORSConfig{AllowedOrigins: []string{"*"}, Environment: "development"})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = true
		}))

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://example.com")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())
	assert.False(t, reached, "preflight should not reach the handler")
}

func TestCORS_HeaderEmission(t *testing.T) {
	rr := corsGet(CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"Accept", "Authorization", "X-Custom"},
		ExposedHeaders: []string{"X-Correlation-ID", "X-User-ID"},
		MaxAge:         7200,
		Environment:    "development",
	}, "")

	assert.Equal(t, "Accept, Authorization, X-Custom", rr.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "X-Correlation-ID, X-User-ID", rr.Header().Get("Access-Control-Expose-Headers"))
	assert.Equal(t, "7200", rr.Header().Get("Access-Control-Max-Age"))
}

func TestCORS_AllowCredentials(t *testing.T) {
	rr := corsGet(CORSConfig{
		AllowedOrigins:   []string{"https://example.com"},
		AllowCredentials: true,
		Environment:      "production",
	}, "https://example.com")

	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_Defaults(t *testing.T) {
	rr := corsGet(CORSConfig{AllowedOrigins: []string{"*"}, Environment: "development"}, "")
	assert.Equal(t, "GET, POST, PUT, PATCH, DELETE, OPTIONS", rr.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "3600", rr.Header().Get("Access-Control-Max-Age"))

	cfg := DefaultCORSConfig()
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Contains(t, cfg.AllowedMethods, "GET")
	assert.Contains(t, cfg.AllowedMethods, "POST")
	assert.Equal(t, 3600, cfg.MaxAge)
	assert.Equal(t, "development", cfg.Environment)
}

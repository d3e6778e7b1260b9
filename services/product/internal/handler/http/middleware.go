package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ebuitra10/SmartOrderAIProject/services/product/internal/cache"
)

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if !strings.HasPrefix(ct, "application/json") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnsupportedMediaType)
				_, _ = w.Write([]byte(`{"error":{"code":"UNSUPPORTED_MEDIA_TYPE","message":"Content-Type must be application/json"}}`))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Cache serves GET responses from Redis and flushes the cache after every
// successful mutation. Cache failures degrade to pass-through.
func Cache(responseCache *cache.ResponseCache, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
				next.ServeHTTP(sw, r)
				if sw.status < 400 {
					if err := responseCache.Invalidate(r.Context()); err != nil {
						logger.WarnContext(r.Context(), "cache invalidation failed",
							slog.String("error", err.Error()),
						)
					}
				}
				return
			}

			uri := r.URL.RequestURI()
			if body, ok := responseCache.Get(r.Context(), uri); ok {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write(body)
				return
			}

			w.Header().Set("X-Cache", "MISS")
			cw := &captureWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(cw, r)

			if cw.status == http.StatusOK {
				responseCache.Set(r.Context(), uri, cw.body.Bytes())
			}
		})
	}
}

// statusWriter records the response status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// captureWriter records the status code and buffers the body while writing
// it through to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *captureWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *captureWriter) Write(b []byte) (int, error) {
	if w.status == http.StatusOK {
		w.body.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

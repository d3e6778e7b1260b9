package middleware

import (
	"bufio"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// findMetric scans a collector for the first sample carrying all the given
// labels. Returns nil when no sample matches.
func findMetric(c prometheus.Collector, labels map[string]string) *dto.Metric {
	ch := make(chan prometheus.Metric, 100)
	c.Collect(ch)
	close(ch)

	for m := range ch {
		d := &dto.Metric{}
		if err := m.Write(d); err != nil {
			continue
		}
		if metricHasLabels(d, labels) {
			return d
		}
	}
	return nil
}

func metricHasLabels(d *dto.Metric, labels map[string]string) bool {
	for k, v := range labels {
		found := false
		for _, lp := range d.GetLabel() {
			if lp.GetName() == k && lp.GetValue() == v {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// metricsRouter mounts the handler behind chi so the middleware can resolve
// the route pattern for the path label.
func metricsRouter(service string, handler http.HandlerFunc) *chi.Mux {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics(service))
	r.Get("/test", handler)
	return r
}

func hitRoute(router *chi.Mux) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestPrometheusMetrics_CountsRequests(t *testing.T) {
	router := metricsRouter("test-svc", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		rr := hitRoute(router)
		assert.Equal(t, http.StatusOK, rr.Code)
	}

	m := findMetric(httpRequestsTotal, map[string]string{
		"service": "test-svc", "method": "GET", "path": "/test", "status": "200",
	})
	require.NotNil(t, m, "counter sample missing for test-svc GET /test 200")
	assert.GreaterOrEqual(t, m.GetCounter().GetValue(), float64(3))
}

func TestPrometheusMetrics_RecordsDuration(t *testing.T) {
	router := metricsRouter("hist-svc", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	rr := hitRoute(router)
	assert.Equal(t, http.StatusCreated, rr.Code)

	m := findMetric(httpRequestDuration, map[string]string{
		"service": "hist-svc", "method": "GET", "path": "/test", "status": "201",
	})
	require.NotNil(t, m, "histogram sample missing")
	assert.GreaterOrEqual(t, m.GetHistogram().GetSampleCount(), uint64(1))
}

func TestPrometheusMetrics_InFlightGauge(t *testing.T) {
	// Sample the gauge from inside the handler, while the request is active.
	inFlight := float64(-1)
	router := metricsRouter("inflight-svc", func(w http.ResponseWriter, r *http.Request) {
		if m := findMetric(httpRequestsInFlight, map[string]string{"service": "inflight-svc"}); m != nil {
			inFlight = m.GetGauge().GetValue()
		}
		w.WriteHeader(http.StatusOK)
	})

	hitRoute(router)

	assert.GreaterOrEqual(t, inFlight, float64(1), "gauge should be at least 1 while a request is in flight")
}

func TestPrometheusMetrics_StatusLabel(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusNotFound, http.StatusInternalServerError} {
		t.Run(strconv.Itoa(status), func(t *testing.T) {
			service := "status-" + strconv.Itoa(status) + "-svc"
			router := metricsRouter(service, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			})

			rr := hitRoute(router)
			assert.Equal(t, status, rr.Code)

			m := findMetric(httpRequestsTotal, map[string]string{
				"service": service, "status": strconv.Itoa(status),
			})
			require.NotNil(t, m, "counter sample missing for status %d", status)
		})
	}
}

func TestPrometheusMetrics_ImplicitStatusIs200(t *testing.T) {
	router := metricsRouter("default-status-svc", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	hitRoute(router)

	m := findMetric(httpRequestsTotal, map[string]string{
		"service": "default-status-svc", "status": "200",
	})
	require.NotNil(t, m, "status should default to 200 when WriteHeader is not called")
}

// bareResponseWriter implements only the http.ResponseWriter methods, so the
// wrapped writer's optional-interface fallbacks can be exercised.
type bareResponseWriter struct {
	header http.Header
}

func (b *bareResponseWriter) Header() http.Header {
	if b.header == nil {
		b.header = make(http.Header)
	}
	return b.header
}

func (b *bareResponseWriter) Write(p []byte) (int, error) { return len(p), nil }

func (b *bareResponseWriter) WriteHeader(int) {}

type flushRecordingWriter struct {
	http.ResponseWriter
	flushed bool
}

func (f *flushRecordingWriter) Flush() { f.flushed = true }

type hijackRecordingWriter struct {
	http.ResponseWriter
	hijacked bool
}

func (h *hijackRecordingWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h.hijacked = true
	return nil, nil, nil
}

func TestMetricsResponseWriter_OptionalInterfaces(t *testing.T) {
	rw := &metricsResponseWriter{ResponseWriter: httptest.NewRecorder()}

	_, isFlusher := interface{}(rw).(http.Flusher)
	assert.True(t, isFlusher)
	_, isHijacker := interface{}(rw).(http.Hijacker)
	assert.True(t, isHijacker)
}

func TestMetricsResponseWriter_FlushDelegates(t *testing.T) {
	inner := &flushRecordingWriter{ResponseWriter: httptest.NewRecorder()}
	rw := &metricsResponseWriter{ResponseWriter: inner, statusCode: http.StatusOK}

	rw.Flush()
	assert.True(t, inner.flushed)
}

func TestMetricsResponseWriter_FlushWithoutSupportIsNoop(t *testing.T) {
	rw := &metricsResponseWriter{ResponseWriter: &bareResponseWriter{}, statusCode: http.StatusOK}

	rw.Flush() // must not panic
}

func TestMetricsResponseWriter_HijackDelegates(t *testing.T) {
	inner := &hijackRecordingWriter{ResponseWriter: httptest.NewRecorder()}
	rw := &metricsResponseWriter{ResponseWriter: inner, statusCode: http.StatusOK}

	_, _, err := rw.Hijack()
	assert.NoError(t, err)
	assert.True(t, inner.hijacked)
}

func TestMetricsResponseWriter_HijackWithoutSupportErrors(t *testing.T) {
	rw := &metricsResponseWriter{ResponseWriter: &bareResponseWriter{}, statusCode: http.StatusOK}

	_, _, err := rw.Hijack()
	assert.ErrorIs(t, err, http.ErrNotSupported)
}

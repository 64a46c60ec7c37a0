package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

// serveWithChi mounts the middleware on a chi router so RouteContext is available.
func serveWithChi(mw func(http.Handler) http.Handler, pattern string, handler http.HandlerFunc) *chi.Mux {
	r := chi.NewRouter()
	r.Use(mw)
	r.Get(pattern, handler)
	return r
}

func TestPrometheusMetrics_CountsByRoutePattern(t *testing.T) {
	handler := serveWithChi(PrometheusMetrics("count-svc"), "/api/Product/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, id := range []string{"1", "2", "3"} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/Product/"+id, nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	}

	counter := httpRequestsTotal.WithLabelValues("count-svc", "GET", "/api/Product/{id}", "200")
	assert.Equal(t, float64(3), testutil.ToFloat64(counter))
}

func TestPrometheusMetrics_StatusCodeCapture(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
	}{
		{"200 OK", http.StatusOK},
		{"404 Not Found", http.StatusNotFound},
		{"500 Internal Server Error", http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svcName := "status-" + http.StatusText(tc.statusCode)
			handler := serveWithChi(PrometheusMetrics(svcName), "/test", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.statusCode)
			})

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/test", nil))
			assert.Equal(t, tc.statusCode, rr.Code)

			counter := httpRequestsTotal.WithLabelValues(svcName, "GET", "/test", strconv.Itoa(tc.statusCode))
			assert.Equal(t, float64(1), testutil.ToFloat64(counter))
		})
	}
}

func TestPrometheusMetrics_DefaultStatusCode(t *testing.T) {
	handler := serveWithChi(PrometheusMetrics("default-status-svc"), "/test", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/test", nil))

	counter := httpRequestsTotal.WithLabelValues("default-status-svc", "GET", "/test", "200")
	assert.Equal(t, float64(1), testutil.ToFloat64(counter))
}

func TestPrometheusMetrics_InFlightGauge(t *testing.T) {
	seen := float64(-1)
	handler := serveWithChi(PrometheusMetrics("inflight-svc"), "/test", func(w http.ResponseWriter, r *http.Request) {
		seen = testutil.ToFloat64(httpRequestsInFlight.WithLabelValues("inflight-svc"))
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, float64(1), seen, "in-flight gauge is raised while the handler runs")
	assert.Equal(t, float64(0), testutil.ToFloat64(httpRequestsInFlight.WithLabelValues("inflight-svc")))
}

func TestPrometheusMetrics_UnknownRoute(t *testing.T) {
	handler := PrometheusMetrics("bare-svc")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/whatever", nil))

	counter := httpRequestsTotal.WithLabelValues("bare-svc", "GET", "unknown", "204")
	assert.Equal(t, float64(1), testutil.ToFloat64(counter))
}

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(Middleware("/metrics"))
	r.Post("/v1/properties/{id}/score", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	r.Get("/v1/pois/nearby", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	r.Get("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics"))
	})
	return r
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := newRouter()
	for _, id := range []string{"p1", "p2", "p3"} {
		req := httptest.NewRequest(http.MethodPost, "/v1/properties/"+id+"/score", http.NoBody)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodPost, "/v1/properties/{id}/score", "200"))
	if got < 3 {
		t.Errorf("expected >= 3 requests on the route pattern, got %f", got)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected duration observations")
	}
}

func TestMiddleware_RecordsStatus(t *testing.T) {
	r := newRouter()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/pois/nearby", http.NoBody))

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/v1/pois/nearby", "400"))
	if got < 1 {
		t.Errorf("expected a 400 sample, got %f", got)
	}
}

func TestMiddleware_SkipsConfiguredPaths(t *testing.T) {
	r := newRouter()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/metrics", "200")); got != 0 {
		t.Errorf("scrape endpoint must not be recorded, got %f", got)
	}
}

func TestMiddleware_UnmatchedRoute(t *testing.T) {
	r := newRouter()
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope", http.NoBody))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404")); got < 1 {
		t.Errorf("expected unmatched sample, got %f", got)
	}
}

func TestRegister_Idempotent(t *testing.T) {
	RegisterHTTPMetrics()
	RegisterHTTPMetrics()
	RegisterEngineMetrics()
	RegisterEngineMetrics()
}

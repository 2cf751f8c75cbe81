package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

// Model ids must not become label values; the route pattern is used instead.
func TestMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(MetricsMiddleware)
	r.Post("/models/{id}/start", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, id := range []string{"route-pattern-a", "route-pattern-b"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/models/"+id+"/start", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
	}

	body := scrape(t)
	if !strings.Contains(body, `modelhost_http_requests_total{method="POST",path="/models/{id}/start",status="200"}`) {
		t.Fatalf("route pattern label missing")
	}
	if strings.Contains(body, "route-pattern-a") {
		t.Fatalf("raw model id leaked into labels")
	}
}

func TestRoutePatternOrPath_FallsBackToPath(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/unrouted", nil)
	if got := routePatternOrPath(req); got != "/unrouted" {
		t.Fatalf("got %q", got)
	}
}

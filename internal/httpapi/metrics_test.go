package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// scrape renders the default registry.
func scrape(t *testing.T) string {
	t.Helper()
	rr := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status=%d", rr.Code)
	}
	return rr.Body.String()
}

func TestMetricsMiddleware_CountsRequestsAndRejections(t *testing.T) {
	h := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/stop", nil))
	if rr.Code != http.StatusConflict {
		t.Fatalf("status = %d", rr.Code)
	}
	IncrementRejection("not_running")

	body := scrape(t)
	for _, want := range []string{
		`modelhost_http_requests_total{method="POST",path="/stop",status="409"}`,
		"modelhost_http_request_duration_seconds",
		`modelhost_http_rejections_total{reason="not_running"}`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics missing %s", want)
		}
	}
}

func TestStatusRecorder_PassesThroughFlusher(t *testing.T) {
	rr := httptest.NewRecorder()
	rec := &statusRecorder{ResponseWriter: rr, status: http.StatusOK}
	var w http.ResponseWriter = rec
	f, ok := w.(http.Flusher)
	if !ok {
		t.Fatalf("statusRecorder does not implement http.Flusher")
	}
	f.Flush()
	if !rr.Flushed {
		t.Fatalf("flush not forwarded")
	}
	if http.NewResponseController(w).Flush() != nil {
		t.Fatalf("response controller flush failed")
	}
}

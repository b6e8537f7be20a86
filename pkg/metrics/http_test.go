package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestMiddlewareCountsRequests(t *testing.T) {
	m := NewHTTP("api-test")

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/v1/discounts/{id}/analytics/summary", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/discounts/d-1/analytics/summary", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	scrape := httptest.NewRecorder()
	m.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := scrape.Body.String()
	if !strings.Contains(body, "ofertazo_http_requests_total") {
		t.Fatalf("expected request counter in scrape output")
	}
	if !strings.Contains(body, `route="/api/v1/discounts/{id}/analytics/summary"`) {
		t.Fatalf("expected route pattern label, got:\n%s", body)
	}
}

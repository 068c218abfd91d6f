package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// TestMiddlewareAndHandler verifies instrumented requests show up on the
// metrics endpoint.
func TestMiddlewareAndHandler(t *testing.T) {
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest("GET", "/api/v1/satellites", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusTeapot {
		t.Fatalf("status = %d, want 418 (middleware must pass through)", w.Code)
	}

	RecordDetectionRun(250*time.Millisecond, 10, 2)
	SetCatalogObjectCount(20)
	SetCatalogAge(42)

	mw := httptest.NewRecorder()
	Handler().ServeHTTP(mw, httptest.NewRequest("GET", "/metrics", nil))
	if mw.Code != http.StatusOK {
		t.Fatalf("metrics status = %d, want 200", mw.Code)
	}

	body := mw.Body.String()
	for _, metric := range []string{
		"orbitsentinel_http_requests_total",
		"orbitsentinel_detection_runs_total",
		"orbitsentinel_catalog_objects",
	} {
		if !strings.Contains(body, metric) {
			t.Errorf("metrics output missing %s", metric)
		}
	}
}

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

// TestHandler_ServesPrometheusFormat は/metricsがPrometheus形式で応答することを検証する。
func TestHandler_ServesPrometheusFormat(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordHTTPStatus(200)

	handler := Handler(reg)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "picboard_http_status_total") {
		t.Error("response should contain picboard_http_status_total")
	}
}

// TestSetupMetricsRoute_RoutesMetricsPath は/metricsパスのみ応答することを検証する。
func TestSetupMetricsRoute_RoutesMetricsPath(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)

	handler := SetupMetricsRoute(reg, nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("GET /metrics status = %d, want %d", w.Code, http.StatusOK)
	}

	req = httptest.NewRequest(http.MethodGet, "/other", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("GET /other status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// TestSetupMetricsRoute_DelegatesToApp は/metrics以外のパスがアプリ側に委譲されることを検証する。
func TestSetupMetricsRoute_DelegatesToApp(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)

	appCalled := false
	app := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		appCalled = true
		w.WriteHeader(http.StatusOK)
	})

	handler := SetupMetricsRoute(reg, app)

	req := httptest.NewRequest(http.MethodGet, "/messages", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if !appCalled {
		t.Error("non-metrics path should be delegated to the app handler")
	}
	if w.Code != http.StatusOK {
		t.Errorf("GET /messages status = %d, want %d", w.Code, http.StatusOK)
	}

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w = httptest.NewRecorder()
	appCalled = false
	handler.ServeHTTP(w, req)

	if appCalled {
		t.Error("/metrics must be handled without delegating to the app handler")
	}
	if w.Code != http.StatusOK {
		t.Errorf("GET /metrics status = %d, want %d", w.Code, http.StatusOK)
	}
}

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dd0wney/cluso-archcheck/pkg/analyzer"
	"github.com/dd0wney/cluso-archcheck/pkg/logging"
	"github.com/dd0wney/cluso-archcheck/pkg/metrics"
)

func testServer() *Server {
	return NewServer(logging.NewNopLogger(), metrics.NewRegistry(), "test")
}

func postVerify(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/verify", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleVerify_Conforming(t *testing.T) {
	rec := postVerify(t, testServer(), `
layers: [Domain, Api]
same_layer_dependencies: false
modules:
  - name: Domain.Order
    layer: Domain
  - name: Api.Http
    layer: Api
edges:
  - from: Api.Http
    to: Domain.Order
`)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var report analyzer.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("Response is not a report: %v", err)
	}
	if !report.Conforms {
		t.Errorf("Expected conforming report, got %+v", report)
	}
}

func TestHandleVerify_Violations(t *testing.T) {
	rec := postVerify(t, testServer(), `
layers: [Domain, Api]
same_layer_dependencies: false
modules:
  - name: Domain.Order
    layer: Domain
  - name: Api.Http
    layer: Api
edges:
  - from: Domain.Order
    to: Api.Http
`)

	// Violations are findings, not request failures
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var report analyzer.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("Response is not a report: %v", err)
	}
	if report.Conforms || report.Summary.LayerDirection != 1 {
		t.Errorf("Expected 1 layer direction violation, got %+v", report)
	}
}

func TestHandleVerify_MalformedYAML(t *testing.T) {
	rec := postVerify(t, testServer(), "layers: [unclosed")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Status = %d, want 400", rec.Code)
	}
}

func TestHandleVerify_DanglingEdge(t *testing.T) {
	rec := postVerify(t, testServer(), `
layers: [Domain]
same_layer_dependencies: true
modules:
  - name: Domain.Order
    layer: Domain
edges:
  - from: Domain.Order
    to: Domain.Missing
`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("Status = %d, want 422: %s", rec.Code, rec.Body.String())
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Error body is not JSON: %v", err)
	}
	if !strings.Contains(resp.Message, "Domain.Missing") {
		t.Errorf("Error message does not name the missing module: %q", resp.Message)
	}
}

func TestHandleVerify_MethodNotAllowed(t *testing.T) {
	s := testServer()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/verify", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Status = %d, want 405", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	s := testServer()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d", rec.Code)
	}
	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Health body is not JSON: %v", err)
	}
	if resp.Status != "healthy" || resp.Version != "test" {
		t.Errorf("Health = %+v", resp)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := testServer()
	postVerify(t, s, "layers: [Domain]\nsame_layer_dependencies: true\n")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "archcheck_checks_total") {
		t.Error("Metrics exposition missing archcheck_checks_total")
	}
}

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dd0wney/cluso-archcheck/pkg/analyzer"
)

// RecordCheck records one conformance check and its findings
func (r *Registry) RecordCheck(report *analyzer.Report, duration time.Duration, modules, edges int) {
	status := "conforms"
	if !report.Conforms {
		status = "violations"
	}
	r.ChecksTotal.WithLabelValues(status).Inc()
	r.CheckDuration.Observe(duration.Seconds())
	r.GraphModules.Observe(float64(modules))
	r.GraphEdges.Observe(float64(edges))

	r.ViolationsTotal.WithLabelValues("layer_direction").Add(float64(report.Summary.LayerDirection))
	r.ViolationsTotal.WithLabelValues("forbidden_external").Add(float64(report.Summary.ForbiddenExternal))
	r.ViolationsTotal.WithLabelValues("cycle").Add(float64(report.Summary.Cycle))
}

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// Handler returns an HTTP handler exposing the registry in Prometheus format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

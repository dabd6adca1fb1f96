package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/dd0wney/cluso-archcheck/pkg/logging"
	"github.com/dd0wney/cluso-archcheck/pkg/metrics"
)

// Server exposes the conformance checker over HTTP. It holds no per-request
// state; every verify call builds its own registry and model from the posted
// description.
type Server struct {
	logger    logging.Logger
	metrics   *metrics.Registry
	version   string
	startTime time.Time
}

// NewServer creates an API server
func NewServer(logger logging.Logger, reg *metrics.Registry, version string) *Server {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Server{
		logger:    logger,
		metrics:   reg,
		version:   version,
		startTime: time.Now(),
	}
}

// Handler returns the routed HTTP handler
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.instrument("/health", s.handleHealth))
	mux.HandleFunc("/api/v1/verify", s.instrument("/api/v1/verify", s.handleVerify))
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics.Handler())
	}

	return mux
}

// statusRecorder captures the response code for request metrics
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument wraps a handler with request counting and timing
func (s *Server) instrument(path string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next(recorder, r)
		if s.metrics != nil {
			s.metrics.RecordHTTPRequest(r.Method, path, strconv.Itoa(recorder.status), time.Since(start))
		}
	}
}

// ErrorResponse is the JSON body for failed requests
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// HealthResponse is the JSON body for health checks
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Failed to encode JSON response", logging.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-archcheck/pkg/analyzer"
	"github.com/dd0wney/cluso-archcheck/pkg/config"
	"github.com/dd0wney/cluso-archcheck/pkg/depmodel"
	"github.com/dd0wney/cluso-archcheck/pkg/logging"
	"github.com/dd0wney/cluso-archcheck/pkg/rules"
)

// maxRequestBody bounds posted architecture descriptions
const maxRequestBody = 10 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: s.version,
		Uptime:  time.Since(s.startTime).String(),
	})
}

// handleVerify accepts an architecture description (YAML or JSON) and
// returns the verification report. Malformed input is a client error;
// violations are a successful response with conforms=false.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	runID := uuid.NewString()
	logger := s.logger.With(logging.Component("api"), logging.RunID(runID))

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	cfg, err := config.Parse(body)
	if err != nil {
		logger.Warn("Rejected malformed description", logging.Error(err))
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	registry, model, err := cfg.Build()
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, rules.ErrDuplicateLayer) || errors.Is(err, rules.ErrUnknownLayer) || errors.Is(err, depmodel.ErrUnknownModule) {
			status = http.StatusUnprocessableEntity
		}
		logger.Warn("Rejected inconsistent description", logging.Error(err))
		s.respondError(w, status, err.Error())
		return
	}

	start := time.Now()
	report := analyzer.Verify(registry, model)
	elapsed := time.Since(start)

	if s.metrics != nil {
		s.metrics.RecordCheck(report, elapsed, model.ModuleCount(), model.EdgeCount())
	}
	logger.Info("Check finished",
		logging.Conforms(report.Conforms),
		logging.Violations(len(report.Violations)),
		logging.Latency(elapsed),
	)

	s.respondJSON(w, http.StatusOK, report)
}

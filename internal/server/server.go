// Package server exposes the policy advisor HTTP API.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"policy-advisor/internal/analysis"
	apperrors "policy-advisor/internal/common/errors"
	"policy-advisor/internal/common/logger"
	"policy-advisor/internal/common/metrics"
	"policy-advisor/internal/common/validation"
	"policy-advisor/internal/store"
)

// Server wires the scoring engine and the analysis store behind the HTTP
// routes. The store is injected so tests can run against a fresh one.
type Server struct {
	store  store.PolicyStore
	logger logger.Logger
}

func New(policyStore store.PolicyStore, log logger.Logger) *Server {
	return &Server{
		store:  policyStore,
		logger: log.WithFields(map[string]interface{}{"component": "http"}),
	}
}

// Routes returns the chi router with all endpoints mounted.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.recoverPanics)
	r.Use(s.instrument)

	r.Post("/api/analyze-policy", s.handleAnalyzePolicy)
	r.Get("/api/policy-analyses", s.handleListAnalyses)
	r.Get("/api/policy-analyses/{id}", s.handleGetAnalysis)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return r
}

type analyzeResponse struct {
	ID string `json:"id"`
	*analysis.Assessment
}

type errorResponse struct {
	Error   string                       `json:"error"`
	Details []validation.ValidationError `json:"details,omitempty"`
}

func (s *Server) handleAnalyzePolicy(w http.ResponseWriter, r *http.Request) {
	var document map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&document); err != nil {
		stdErr := apperrors.NewMalformedPayloadError(err)
		s.logger.Warn("rejected malformed payload", map[string]interface{}{"error": err.Error()})
		s.writeJSON(w, apperrors.HTTPStatus(stdErr.Code), errorResponse{
			Error: "Invalid policy data",
			Details: []validation.ValidationError{
				{Field: "(body)", Message: "request body is not a valid JSON object", Code: "MALFORMED_PAYLOAD"},
			},
		})
		return
	}

	input, result, err := analysis.DecodePolicyInput(document)
	if err != nil {
		stdErr := apperrors.NewInternalError(err)
		s.logger.WithError(stdErr).Error("schema validation could not run", nil)
		s.writeJSON(w, apperrors.HTTPStatus(stdErr.Code), errorResponse{Error: "Failed to analyze policy"})
		return
	}
	if input == nil {
		for _, violation := range result.Errors {
			metrics.ValidationFailures.WithLabelValues(violation.Field).Inc()
		}
		s.logger.Info("rejected policy submission", map[string]interface{}{
			"violations": result.GetErrorMessages(),
		})
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid policy data", Details: result.Errors})
		return
	}

	assessment := analysis.Analyze(input)

	record, err := s.store.Create(r.Context(), input, assessment)
	if err != nil {
		stdErr := apperrors.NewStorageInsertFailedError(err)
		metrics.StoreErrors.WithLabelValues("create").Inc()
		s.logger.WithError(stdErr).Error("failed to persist policy analysis", nil)
		s.writeJSON(w, apperrors.HTTPStatus(stdErr.Code), errorResponse{Error: "Failed to analyze policy"})
		return
	}

	metrics.AnalysesCompleted.WithLabelValues(string(assessment.RiskLevel)).Inc()
	s.logger.Info("policy analyzed", map[string]interface{}{
		"analysisId":     record.ID,
		"overallScore":   assessment.OverallScore,
		"riskLevel":      assessment.RiskLevel,
		"gapsIdentified": assessment.GapsIdentified,
	})

	s.writeJSON(w, http.StatusOK, analyzeResponse{ID: record.ID, Assessment: assessment})
}

func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.ListAll(r.Context())
	if err != nil {
		stdErr := apperrors.NewStorageQueryFailedError(err)
		metrics.StoreErrors.WithLabelValues("list").Inc()
		s.logger.WithError(stdErr).Error("failed to list policy analyses", nil)
		s.writeJSON(w, apperrors.HTTPStatus(stdErr.Code), errorResponse{Error: "Failed to fetch policy analyses"})
		return
	}
	s.writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := s.store.Get(r.Context(), id)
	if err == store.ErrNotFound {
		stdErr := apperrors.NewAnalysisNotFoundError(id)
		s.writeJSON(w, apperrors.HTTPStatus(stdErr.Code), errorResponse{Error: "Policy analysis not found"})
		return
	}
	if err != nil {
		stdErr := apperrors.NewStorageQueryFailedError(err)
		metrics.StoreErrors.WithLabelValues("get").Inc()
		s.logger.WithError(stdErr).Error("failed to fetch policy analysis", map[string]interface{}{"analysisId": id})
		s.writeJSON(w, apperrors.HTTPStatus(stdErr.Code), errorResponse{Error: "Failed to fetch policy analysis"})
		return
	}
	s.writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.WithError(err).Error("failed to encode response", nil)
	}
}

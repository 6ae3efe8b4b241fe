// internal/api/handlers.go
package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"idea-scoring/internal/assessments"
	"idea-scoring/internal/common/errors"
	"idea-scoring/internal/models"
	"idea-scoring/internal/weightconfig"

	"github.com/go-chi/chi/v5"
)

// ==========================
// Assessment
// ==========================

func (s *Server) admit(w http.ResponseWriter, r *http.Request) {
	raw, err := readBody(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	req, err := s.decoder.DecodeAdmission(raw)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.assessor.Admit(r.Context(), *req))
}

func (s *Server) assess(w http.ResponseWriter, r *http.Request) {
	raw, err := readBody(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	req, err := s.decoder.DecodeMaturity(raw)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out, err := s.assessor.Assess(r.Context(), *req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ==========================
// History
// ==========================

func (s *Server) latest(w http.ResponseWriter, r *http.Request) {
	ideaID := chi.URLParam(r, "ideaId")
	rec, err := s.history.GetLatest(r.Context(), ideaID, r.URL.Query().Get("sessionId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) historyByIdea(w http.ResponseWriter, r *http.Request) {
	recs, err := s.history.ListByIdea(r.Context(), chi.URLParam(r, "ideaId"), limitParam(r))
	s.writeList(w, r, recs, err)
}

func (s *Server) historyByUser(w http.ResponseWriter, r *http.Request) {
	recs, err := s.history.ListByUser(r.Context(), chi.URLParam(r, "userId"), limitParam(r))
	s.writeList(w, r, recs, err)
}

func (s *Server) historyByRange(w http.ResponseWriter, r *http.Request) {
	min, err := floatParam(r, "minScore", 0)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	max, err := floatParam(r, "maxScore", 10)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	recs, err := s.history.ListByScoreRange(r.Context(), min, max, limitParam(r))
	s.writeList(w, r, recs, err)
}

func (s *Server) historyByLevel(w http.ResponseWriter, r *http.Request) {
	level := chi.URLParam(r, "level")
	if !models.ValidLevel(level) {
		s.writeError(w, r, errors.NewInputValidationError(fmt.Sprintf("unknown maturity level %q", level)))
		return
	}
	recs, err := s.history.ListByLevel(r.Context(), models.MaturityLevel(level), limitParam(r))
	s.writeList(w, r, recs, err)
}

func (s *Server) historyUnlocked(w http.ResponseWriter, r *http.Request) {
	recs, err := s.history.ListUnlocked(r.Context(), limitParam(r))
	s.writeList(w, r, recs, err)
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.history.AggregateStats(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) writeList(w http.ResponseWriter, r *http.Request, recs []models.AssessmentRecord, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if recs == nil {
		recs = []models.AssessmentRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": recs, "count": len(recs)})
}

// ==========================
// Weight configs
// ==========================

type canaryRequest struct {
	Percentage *int `json:"percentage"`
}

func (s *Server) weightHistory(w http.ResponseWriter, r *http.Request) {
	configs, err := s.weights.History(r.Context(), limitParam(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": configs, "count": len(configs)})
}

func (s *Server) activeWeights(w http.ResponseWriter, r *http.Request) {
	configs, err := s.weights.ActiveConfigs(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": configs, "count": len(configs)})
}

func (s *Server) getWeights(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.weights.Get(r.Context(), chi.URLParam(r, "version"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) createWeights(w http.ResponseWriter, r *http.Request) {
	raw, err := readBody(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var cfg models.WeightConfigVersion
	if err := json.Unmarshal(raw, &cfg); err != nil {
		s.writeError(w, r, errors.NewParseError(err))
		return
	}
	created, err := s.weights.Create(r.Context(), cfg)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.changed(r)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) activate(w http.ResponseWriter, r *http.Request) {
	version := chi.URLParam(r, "version")
	if err := s.weights.Activate(r.Context(), version); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.changed(r)
	s.logger.Info("weight config activated", map[string]interface{}{"version": version})
	writeJSON(w, http.StatusOK, map[string]interface{}{"version": version, "active": true})
}

func (s *Server) startCanary(w http.ResponseWriter, r *http.Request) {
	s.setCanary(w, r, s.weights.StartCanary)
}

func (s *Server) adjustCanary(w http.ResponseWriter, r *http.Request) {
	s.setCanary(w, r, s.weights.AdjustCanary)
}

func (s *Server) setCanary(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, version string, pct int) error) {
	raw, err := readBody(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body canaryRequest
	if err := json.Unmarshal(raw, &body); err != nil {
		s.writeError(w, r, errors.NewParseError(err))
		return
	}
	if body.Percentage == nil {
		s.writeError(w, r, errors.NewInputValidationError("percentage is required"))
		return
	}

	version := chi.URLParam(r, "version")
	if err := apply(r.Context(), version, *body.Percentage); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.changed(r)
	s.logger.Info("canary updated", map[string]interface{}{
		"version":    version,
		"percentage": *body.Percentage,
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{"version": version, "canaryPercentage": *body.Percentage})
}

func (s *Server) rollback(w http.ResponseWriter, r *http.Request) {
	n, err := s.weights.Rollback(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.changed(r)
	s.logger.Info("canaries rolled back", map[string]interface{}{"stopped": n})
	writeJSON(w, http.StatusOK, map[string]interface{}{"stopped": n})
}

func (s *Server) changed(r *http.Request) {
	if s.onChange != nil {
		s.onChange(r.Context())
	}
}

// ==========================
// Errors and params
// ==========================

// toStandard maps store sentinels onto API error codes. subject names the
// idea or version the request was about.
func toStandard(err error, subject string) *errors.StandardError {
	var stdErr *errors.StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}

	switch {
	case stderrors.Is(err, assessments.ErrNotFound):
		return errors.NewAssessmentNotFoundError(subject)
	case stderrors.Is(err, assessments.ErrInvalidRange):
		return errors.NewInputValidationError(err.Error())
	case stderrors.Is(err, assessments.ErrQueryFailed):
		return errors.NewQueryExecutionFailedError("assessment_history", err)
	case stderrors.Is(err, weightconfig.ErrNotFound):
		return errors.NewConfigNotFoundError(subject)
	case stderrors.Is(err, weightconfig.ErrInvalidConfig), stderrors.Is(err, weightconfig.ErrStableVersion):
		return errors.NewConfigInvalidError(err.Error())
	case stderrors.Is(err, weightconfig.ErrStoreFailed):
		return errors.NewConfigStoreUnavailableError(err)
	}
	return errors.NewInternalError(err)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	subject := chi.URLParam(r, "version")
	if subject == "" {
		subject = chi.URLParam(r, "ideaId")
	}
	stdErr := toStandard(err, subject)
	status := errors.HTTPStatus(stdErr.Code)

	fields := map[string]interface{}{
		"path":      r.URL.Path,
		"errorCode": stdErr.Code,
		"status":    status,
	}
	if status >= http.StatusInternalServerError {
		s.logger.WithError(err).Error("request failed", fields)
	} else {
		s.logger.Debug("request rejected", fields)
	}
	writeJSON(w, status, map[string]interface{}{"error": stdErr})
}

func readBody(r *http.Request) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.NewParseError(err)
	}
	return raw, nil
}

// limitParam returns 0 for a missing or malformed limit; the store applies its default.
func limitParam(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		return 0
	}
	return n
}

func floatParam(r *http.Request, name string, fallback float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.NewInputValidationError(fmt.Sprintf("%s must be a number", name))
	}
	return v, nil
}

// internal/service/service.go
package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"idea-scoring/internal/common/errors"
	"idea-scoring/internal/common/logger"
	"idea-scoring/internal/common/metrics"
	"idea-scoring/internal/common/observability"
	"idea-scoring/internal/models"
	"idea-scoring/internal/scoring/admission"
	"idea-scoring/internal/scoring/maturity"
	"idea-scoring/internal/scoring/recommend"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Store receives every assessment and admission check. Writes are best effort.
type Store interface {
	Save(ctx context.Context, rec *models.AssessmentRecord) error
	SaveAdmission(ctx context.Context, rec *models.AdmissionRecord) error
}

type Indexer interface {
	Index(ctx context.Context, rec *models.AssessmentRecord) error
}

// ConfigResolver picks the calibration for one request.
type ConfigResolver interface {
	Resolve(userID string) models.ResolvedConfig
}

type Config struct {
	AnalysisTimeout    time.Duration
	PersistenceTimeout time.Duration
	IndexTimeout       time.Duration
}

func (c Config) withDefaults() Config {
	if c.AnalysisTimeout <= 0 {
		c.AnalysisTimeout = 2 * time.Second
	}
	if c.PersistenceTimeout <= 0 {
		c.PersistenceTimeout = 3 * time.Second
	}
	if c.IndexTimeout <= 0 {
		c.IndexTimeout = 2 * time.Second
	}
	return c
}

// Service runs admission checks and maturity assessments and records their
// outcome. A nil store or indexer disables that side effect.
type Service struct {
	config   Config
	analyzer *maturity.Analyzer
	resolver ConfigResolver
	store    Store
	indexer  Indexer
	tracer   trace.Tracer
	now      func() time.Time
	logger   logger.Logger
}

type Option func(*Service)

func WithStore(store Store) Option {
	return func(s *Service) { s.store = store }
}

func WithIndexer(indexer Indexer) Option {
	return func(s *Service) { s.indexer = indexer }
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) { s.tracer = tracer }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(config Config, analyzer *maturity.Analyzer, resolver ConfigResolver, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		config:   config.withDefaults(),
		analyzer: analyzer,
		resolver: resolver,
		tracer:   observability.Tracer(),
		now:      func() time.Time { return time.Now().UTC() },
		logger:   log.WithFields(map[string]interface{}{"component": "assessment-service"}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Admit scores a raw idea description.
func (s *Service) Admit(ctx context.Context, req models.AdmissionRequest) models.AdmissionResult {
	ctx, span := s.tracer.Start(ctx, "assessment.Admit")
	defer span.End()

	result := admission.Score(req.Text)
	metrics.AdmissionsTotal.WithLabelValues(string(result.Verdict)).Inc()
	span.SetAttributes(
		attribute.String("idea.id", req.IdeaID),
		attribute.Int("admission.score", result.Score),
		attribute.String("admission.verdict", string(result.Verdict)),
	)

	if s.store != nil {
		rec := &models.AdmissionRecord{IdeaID: req.IdeaID, UserID: req.UserID, Result: result}
		saveCtx, cancel := context.WithTimeout(ctx, s.config.PersistenceTimeout)
		err := s.store.SaveAdmission(saveCtx, rec)
		cancel()
		if err != nil {
			metrics.PersistenceFailures.WithLabelValues("admission").Inc()
			s.logger.Warn("failed to persist admission result", map[string]interface{}{
				"ideaId": req.IdeaID,
				"error":  err.Error(),
			})
		}
	}

	s.logger.Info("admission scored", map[string]interface{}{
		"ideaId":  req.IdeaID,
		"score":   result.Score,
		"verdict": result.Verdict,
	})
	return result
}

// Assess scores a finished discussion, decides workshop access and records the
// outcome. Persistence failures are reported on the result, never returned.
func (s *Service) Assess(ctx context.Context, req models.MaturityRequest) (*models.MaturityAssessment, error) {
	ctx, span := s.tracer.Start(ctx, "assessment.Assess", trace.WithAttributes(
		attribute.String("idea.id", req.IdeaID),
		attribute.String("session.id", req.SessionID),
		attribute.Int("discussion.messages", len(req.Messages)),
	))
	defer span.End()

	if err := checkRequest(req); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	calibration := s.resolver.Resolve(req.UserID)
	metrics.ConfigResolutions.WithLabelValues(
		calibration.Version,
		strconv.FormatBool(calibration.Canary),
		strconv.FormatBool(calibration.Fallback),
	).Inc()

	result, err := s.analyze(ctx, req, calibration)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	access := models.WorkshopAccess{Recommendations: []models.Recommendation{}}
	if maturity.WorkshopUnlocked(result.TotalScore, calibration.Thresholds) {
		unlockedAt := s.now()
		access.Unlocked = true
		access.UnlockedAt = &unlockedAt
		access.Recommendations = recommend.Recommend(recommend.Assessment{
			WeakDimensions: result.WeakDimensions,
			Level:          result.Level,
			TotalScore:     result.TotalScore,
		})
		metrics.WorkshopUnlocks.Inc()
	}

	metrics.AssessmentsTotal.WithLabelValues(string(result.Level), strconv.FormatBool(result.Canary)).Inc()
	metrics.AssessmentScore.Observe(result.TotalScore)
	span.SetAttributes(
		attribute.Float64("maturity.total_score", result.TotalScore),
		attribute.String("maturity.level", string(result.Level)),
		attribute.String("weights.version", calibration.Version),
		attribute.Bool("workshop.unlocked", access.Unlocked),
	)

	out := &models.MaturityAssessment{Result: *result, WorkshopAccess: access}
	s.record(ctx, req, out)

	s.logger.Info("maturity assessed", map[string]interface{}{
		"ideaId":        req.IdeaID,
		"sessionId":     req.SessionID,
		"totalScore":    result.TotalScore,
		"level":         result.Level,
		"weightVersion": calibration.Version,
		"canary":        calibration.Canary,
		"unlocked":      access.Unlocked,
	})
	return out, nil
}

func checkRequest(req models.MaturityRequest) error {
	switch {
	case req.IdeaID == "":
		return errors.NewInputValidationError("ideaId is required")
	case req.UserID == "":
		return errors.NewInputValidationError("userId is required")
	case req.SessionID == "":
		return errors.NewInputValidationError("sessionId is required")
	}
	return nil
}

func (s *Service) analyze(ctx context.Context, req models.MaturityRequest, calibration models.ResolvedConfig) (*models.MaturityScoreResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.AnalysisTimeout)
	defer cancel()
	if err := ctx.Err(); err != nil {
		return nil, errors.NewScoringFailedError(fmt.Sprintf("analysis not started: %v", err))
	}

	done := make(chan *models.MaturityScoreResult, 1)
	go func() {
		done <- s.analyzer.Analyze(maturity.Input{
			Messages: req.Messages,
			Bids:     maturity.BidsFromMap(req.Bids),
		}, calibration)
	}()

	select {
	case result := <-done:
		return result, nil
	case <-ctx.Done():
		return nil, errors.NewScoringFailedError(fmt.Sprintf("analysis of %d messages did not finish: %v", len(req.Messages), ctx.Err()))
	}
}

// record persists and indexes an assessment. Neither step can fail the request.
func (s *Service) record(ctx context.Context, req models.MaturityRequest, out *models.MaturityAssessment) {
	if s.store == nil {
		return
	}

	rec := &models.AssessmentRecord{
		IdeaID:         req.IdeaID,
		UserID:         req.UserID,
		SessionID:      req.SessionID,
		Result:         out.Result,
		WorkshopAccess: out.WorkshopAccess,
	}

	saveCtx, cancel := context.WithTimeout(ctx, s.config.PersistenceTimeout)
	err := s.store.Save(saveCtx, rec)
	cancel()
	if err != nil {
		out.PersistenceError = err.Error()
		metrics.PersistenceFailures.WithLabelValues("postgres").Inc()
		s.logger.Error("failed to persist assessment", map[string]interface{}{
			"ideaId":    req.IdeaID,
			"sessionId": req.SessionID,
			"error":     err.Error(),
		})
		return
	}
	out.AssessmentID = rec.ID

	if s.indexer == nil {
		return
	}
	indexCtx, cancel := context.WithTimeout(ctx, s.config.IndexTimeout)
	defer cancel()
	if err := s.indexer.Index(indexCtx, rec); err != nil {
		metrics.PersistenceFailures.WithLabelValues("elasticsearch").Inc()
		s.logger.Warn("failed to index assessment", map[string]interface{}{
			"assessmentId": rec.ID,
			"error":        err.Error(),
		})
	}
}

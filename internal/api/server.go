// internal/api/server.go
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"idea-scoring/internal/common/logger"
	"idea-scoring/internal/common/metrics"
	"idea-scoring/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxBodyBytes = 1 << 20

// Assessor runs admission checks and maturity assessments.
type Assessor interface {
	Admit(ctx context.Context, req models.AdmissionRequest) models.AdmissionResult
	Assess(ctx context.Context, req models.MaturityRequest) (*models.MaturityAssessment, error)
}

// Decoder validates raw request bodies against the activity schemas.
type Decoder interface {
	DecodeAdmission(raw []byte) (*models.AdmissionRequest, error)
	DecodeMaturity(raw []byte) (*models.MaturityRequest, error)
}

// History reads stored assessments.
type History interface {
	GetLatest(ctx context.Context, ideaID, sessionID string) (*models.AssessmentRecord, error)
	ListByIdea(ctx context.Context, ideaID string, limit int) ([]models.AssessmentRecord, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]models.AssessmentRecord, error)
	ListByScoreRange(ctx context.Context, min, max float64, limit int) ([]models.AssessmentRecord, error)
	ListByLevel(ctx context.Context, level models.MaturityLevel, limit int) ([]models.AssessmentRecord, error)
	ListUnlocked(ctx context.Context, limit int) ([]models.AssessmentRecord, error)
	AggregateStats(ctx context.Context) (*models.AssessmentStats, error)
}

// WeightAdmin manages calibration versions.
type WeightAdmin interface {
	ActiveConfigs(ctx context.Context) ([]models.WeightConfigVersion, error)
	History(ctx context.Context, limit int) ([]models.WeightConfigVersion, error)
	Get(ctx context.Context, version string) (*models.WeightConfigVersion, error)
	Create(ctx context.Context, cfg models.WeightConfigVersion) (*models.WeightConfigVersion, error)
	Activate(ctx context.Context, version string) error
	StartCanary(ctx context.Context, version string, percentage int) error
	AdjustCanary(ctx context.Context, version string, percentage int) error
	Rollback(ctx context.Context) (int64, error)
}

// Check reports whether a dependency is reachable.
type Check func(ctx context.Context) error

type Server struct {
	assessor Assessor
	decoder  Decoder
	history  History
	weights  WeightAdmin
	onChange func(ctx context.Context)
	checks   map[string]Check
	logger   logger.Logger
}

type Option func(*Server)

// WithHistory mounts the assessment history routes.
func WithHistory(h History) Option {
	return func(s *Server) { s.history = h }
}

// WithWeightAdmin mounts the calibration admin routes. onChange runs after
// every successful mutation.
func WithWeightAdmin(w WeightAdmin, onChange func(ctx context.Context)) Option {
	return func(s *Server) {
		s.weights = w
		s.onChange = onChange
	}
}

// WithReadinessCheck adds a named dependency to /ready.
func WithReadinessCheck(name string, check Check) Option {
	return func(s *Server) { s.checks[name] = check }
}

func New(assessor Assessor, decoder Decoder, log logger.Logger, opts ...Option) *Server {
	s := &Server{
		assessor: assessor,
		decoder:  decoder,
		checks:   map[string]Check{},
		logger:   log.WithFields(map[string]interface{}{"component": "http-api"}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes returns the router with every enabled route mounted.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/health", s.health)
	r.Get("/ready", s.ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/admission", s.admit)
		r.Post("/maturity/assess", s.assess)

		if s.history != nil {
			r.Get("/maturity/ideas/{ideaId}/latest", s.latest)
			r.Get("/maturity/ideas/{ideaId}/history", s.historyByIdea)
			r.Get("/maturity/users/{userId}/history", s.historyByUser)
			r.Get("/maturity/assessments", s.historyByRange)
			r.Get("/maturity/levels/{level}", s.historyByLevel)
			r.Get("/maturity/unlocked", s.historyUnlocked)
			r.Get("/maturity/stats", s.stats)
		}

		if s.weights != nil {
			r.Route("/weights", func(r chi.Router) {
				r.Get("/", s.weightHistory)
				r.Post("/", s.createWeights)
				r.Get("/active", s.activeWeights)
				r.Post("/rollback", s.rollback)
				r.Get("/{version}", s.getWeights)
				r.Post("/{version}/activate", s.activate)
				r.Post("/{version}/canary", s.startCanary)
				r.Put("/{version}/canary", s.adjustCanary)
			})
		}
	})
	return r
}

func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.HTTPRequestDuration.WithLabelValues(route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	report := map[string]string{}
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			status = http.StatusServiceUnavailable
			report[name] = err.Error()
			continue
		}
		report[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not_ready"
	}
	writeJSON(w, status, map[string]interface{}{"status": state, "checks": report})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

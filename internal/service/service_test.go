// internal/service/service_test.go
package service

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"idea-scoring/internal/common/errors"
	"idea-scoring/internal/common/logger"
	"idea-scoring/internal/models"
	"idea-scoring/internal/scoring/maturity"
	"idea-scoring/internal/weightconfig"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// ==========================
// Test Helper Functions
// ==========================

var fixedNow = time.Date(2026, 10, 2, 8, 0, 0, 0, time.UTC)

type fakeStore struct {
	mu         sync.Mutex
	saveErr    error
	saved      []*models.AssessmentRecord
	admissions []*models.AdmissionRecord
}

func (f *fakeStore) Save(_ context.Context, rec *models.AssessmentRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	rec.ID = "a-1"
	f.saved = append(f.saved, rec)
	return nil
}

func (f *fakeStore) SaveAdmission(_ context.Context, rec *models.AdmissionRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.admissions = append(f.admissions, rec)
	return nil
}

type fakeIndexer struct {
	err     error
	indexed []string
}

func (f *fakeIndexer) Index(_ context.Context, rec *models.AssessmentRecord) error {
	f.indexed = append(f.indexed, rec.ID)
	return f.err
}

type fixedResolver struct {
	cfg models.ResolvedConfig
}

func (r fixedResolver) Resolve(string) models.ResolvedConfig { return r.cfg }

func strongRequest() models.MaturityRequest {
	return models.MaturityRequest{
		IdeaID:    "idea-1",
		UserID:    "user-1",
		SessionID: "session-1",
		Messages: []models.DiscussionMessage{
			{AgentID: "a", Content: "上个月我们已经有20个付费用户，每月付99元，营收稳定。"},
			{AgentID: "b", Content: "我看了后台数据截图，留存率40%，转化率也不错，团队之前做过类似产品。"},
			{AgentID: "c", Content: "目标用户是中小餐厅老板，我朋友也有这个痛点，可以介绍给你认识。"},
			{AgentID: "d", Content: "他们每周都因为排班低效丢了客户，损失很大，需求强烈而且高频。"},
			{AgentID: "e", Content: "定价订阅制每月199，毛利很高，商业模式清晰。"},
		},
		Bids: map[string]float64{"a": 80, "b": 60},
	}
}

func weakRequest() models.MaturityRequest {
	return models.MaturityRequest{
		IdeaID:    "idea-2",
		UserID:    "user-1",
		SessionID: "session-2",
		Messages: []models.DiscussionMessage{
			{AgentID: "a", Content: "这个想法很好"},
			{AgentID: "b", Content: "我觉得会有人用"},
		},
	}
}

type fixture struct {
	svc      *Service
	store    *fakeStore
	indexer  *fakeIndexer
	recorder *tracetest.SpanRecorder
}

func newFixture(t *testing.T, cfg models.ResolvedConfig, opts ...Option) *fixture {
	f := &fixture{
		store:    &fakeStore{},
		indexer:  &fakeIndexer{},
		recorder: tracetest.NewSpanRecorder(),
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(f.recorder))

	all := append([]Option{
		WithStore(f.store),
		WithIndexer(f.indexer),
		WithTracer(tp.Tracer("test")),
		WithClock(func() time.Time { return fixedNow }),
	}, opts...)

	f.svc = New(Config{}, maturity.NewAnalyzer(maturity.Config{}), fixedResolver{cfg: cfg}, logger.NewTestLogger(t), all...)
	return f
}

func workshopIDs(recs []models.Recommendation) []string {
	ids := []string{}
	for _, r := range recs {
		ids = append(ids, r.WorkshopID)
	}
	return ids
}

// ==========================
// Assess
// ==========================

func TestService_Assess(t *testing.T) {
	tests := []struct {
		name           string
		request        models.MaturityRequest
		calibration    models.ResolvedConfig
		setup          func(f *fixture)
		validateOutput func(t *testing.T, f *fixture, out *models.MaturityAssessment)
	}{
		{
			name:        "strong discussion unlocks workshop",
			request:     strongRequest(),
			calibration: weightconfig.Defaults(),
			validateOutput: func(t *testing.T, f *fixture, out *models.MaturityAssessment) {
				assert.Equal(t, 6.1, out.Result.TotalScore)
				assert.Equal(t, models.LevelMedium, out.Result.Level)
				assert.True(t, out.WorkshopAccess.Unlocked)
				require.NotNil(t, out.WorkshopAccess.UnlockedAt)
				assert.Equal(t, fixedNow, *out.WorkshopAccess.UnlockedAt)
				assert.Equal(t, []string{"demand-validation", "profit-model"}, workshopIDs(out.WorkshopAccess.Recommendations))

				assert.Equal(t, "a-1", out.AssessmentID)
				assert.Empty(t, out.PersistenceError)
				require.Len(t, f.store.saved, 1)
				assert.Equal(t, "session-1", f.store.saved[0].SessionID)
				assert.Equal(t, []string{"a-1"}, f.indexer.indexed)
			},
		},
		{
			name:        "weak discussion stays locked",
			request:     weakRequest(),
			calibration: weightconfig.Defaults(),
			validateOutput: func(t *testing.T, f *fixture, out *models.MaturityAssessment) {
				assert.Less(t, out.Result.TotalScore, 5.0)
				assert.False(t, out.WorkshopAccess.Unlocked)
				assert.Nil(t, out.WorkshopAccess.UnlockedAt)
				assert.NotNil(t, out.WorkshopAccess.Recommendations)
				assert.Empty(t, out.WorkshopAccess.Recommendations)
				assert.Len(t, f.store.saved, 1)
			},
		},
		{
			name:    "canary calibration is reported",
			request: strongRequest(),
			calibration: func() models.ResolvedConfig {
				cfg := weightconfig.Defaults()
				cfg.ConfigID = "cfg-canary"
				cfg.Version = "1.1.0"
				cfg.Canary = true
				cfg.Fallback = false
				return cfg
			}(),
			validateOutput: func(t *testing.T, f *fixture, out *models.MaturityAssessment) {
				assert.Equal(t, "1.1.0", out.Result.ScoringVersion)
				assert.Equal(t, "cfg-canary", out.Result.ConfigID)
				assert.True(t, out.Result.Canary)
			},
		},
		{
			name:        "store failure is reported not returned",
			request:     strongRequest(),
			calibration: weightconfig.Defaults(),
			setup: func(f *fixture) {
				f.store.saveErr = stderrors.New("DATABASE_INSERT_FAILED: connection reset")
			},
			validateOutput: func(t *testing.T, f *fixture, out *models.MaturityAssessment) {
				assert.Equal(t, 6.1, out.Result.TotalScore)
				assert.Contains(t, out.PersistenceError, "connection reset")
				assert.Empty(t, out.AssessmentID)
				assert.Empty(t, f.indexer.indexed)
			},
		},
		{
			name:        "index failure is swallowed",
			request:     strongRequest(),
			calibration: weightconfig.Defaults(),
			setup: func(f *fixture) {
				f.indexer.err = stderrors.New("INDEX_FAILED: 503")
			},
			validateOutput: func(t *testing.T, f *fixture, out *models.MaturityAssessment) {
				assert.Equal(t, "a-1", out.AssessmentID)
				assert.Empty(t, out.PersistenceError)
				assert.Equal(t, []string{"a-1"}, f.indexer.indexed)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.calibration)
			if tt.setup != nil {
				tt.setup(f)
			}

			out, err := f.svc.Assess(context.Background(), tt.request)
			require.NoError(t, err)
			tt.validateOutput(t, f, out)

			spans := f.recorder.Ended()
			require.Len(t, spans, 1)
			assert.Equal(t, "assessment.Assess", spans[0].Name())
		})
	}
}

func TestService_Assess_RejectsMissingIDs(t *testing.T) {
	f := newFixture(t, weightconfig.Defaults())

	req := strongRequest()
	req.SessionID = ""

	out, err := f.svc.Assess(context.Background(), req)
	assert.Nil(t, out)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInputValidationFailed, errors.AsStandard(err).Code)
	assert.Empty(t, f.store.saved)
}

func TestService_Assess_CancelledContext(t *testing.T) {
	f := newFixture(t, weightconfig.Defaults())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.Assess(ctx, strongRequest())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeScoringFailed, errors.AsStandard(err).Code)
}

func TestService_Assess_WithoutStore(t *testing.T) {
	f := newFixture(t, weightconfig.Defaults(), WithStore(nil), WithIndexer(nil))

	out, err := f.svc.Assess(context.Background(), strongRequest())
	require.NoError(t, err)
	assert.Empty(t, out.AssessmentID)
	assert.Empty(t, out.PersistenceError)
	assert.Empty(t, f.store.saved)
}

func TestService_Assess_Idempotent(t *testing.T) {
	f := newFixture(t, weightconfig.Defaults())

	first, err := f.svc.Assess(context.Background(), strongRequest())
	require.NoError(t, err)
	second, err := f.svc.Assess(context.Background(), strongRequest())
	require.NoError(t, err)

	assert.Equal(t, first.Result, second.Result)
	assert.Equal(t, first.WorkshopAccess, second.WorkshopAccess)
}

// ==========================
// Admit
// ==========================

func TestService_Admit(t *testing.T) {
	f := newFixture(t, weightconfig.Defaults())

	result := f.svc.Admit(context.Background(), models.AdmissionRequest{IdeaID: "idea-3", Text: "做一个AI应用"})
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, models.VerdictReject, result.Verdict)

	require.Len(t, f.store.admissions, 1)
	assert.Equal(t, "idea-3", f.store.admissions[0].IdeaID)

	spans := f.recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "assessment.Admit", spans[0].Name())
}

func TestService_Admit_StoreFailure(t *testing.T) {
	f := newFixture(t, weightconfig.Defaults())
	f.store.saveErr = stderrors.New("down")

	result := f.svc.Admit(context.Background(), models.AdmissionRequest{Text: "做一个AI应用"})
	assert.Equal(t, models.VerdictReject, result.Verdict)
}

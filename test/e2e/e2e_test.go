// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idea-scoring/internal/assessments"
	"idea-scoring/internal/common/config"
	"idea-scoring/internal/common/database"
	"idea-scoring/internal/common/logger"
	"idea-scoring/internal/models"
	"idea-scoring/internal/scoring/maturity"
	"idea-scoring/internal/service"
	"idea-scoring/internal/weightconfig"
)

// The suite needs live Postgres, Redis and Elasticsearch, e.g. from
// docker compose. Set E2E_ENABLED=true to run it.
func requireE2E(t *testing.T) *config.Config {
	t.Helper()
	if testing.Short() || os.Getenv("E2E_ENABLED") != "true" {
		t.Skip("Skipping E2E tests; set E2E_ENABLED=true with the stack running")
	}

	cfg, err := config.Load()
	require.NoError(t, err)

	if os.Getenv("DATABASE_POSTGRES_HOST") == "" {
		cfg.Database.Postgres.Host = "localhost"
	}
	if os.Getenv("DATABASE_REDIS_ADDRESS") == "" {
		cfg.Database.Redis.Address = "localhost:6379"
	}
	if os.Getenv("DATABASE_ELASTICSEARCH_URL") == "" {
		cfg.Database.Elasticsearch.URL = "http://localhost:9200"
		cfg.Database.Elasticsearch.Addresses = nil
	}
	return cfg
}

func discussion(ideaID, sessionID string) models.MaturityRequest {
	return models.MaturityRequest{
		IdeaID:    ideaID,
		UserID:    "e2e-user",
		SessionID: sessionID,
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

// ==========================
// Full flow against real stores
// ==========================

func TestFullE2E(t *testing.T) {
	cfg := requireE2E(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	log := logger.NewTestLogger(t)

	// 1. Connectivity
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err, "PostgreSQL connection failed")
	defer pg.Close()
	require.NoError(t, pg.Ping(ctx), "PostgreSQL ping failed")

	rdb := database.NewRedis(cfg.Database.Redis)
	defer rdb.Close()
	require.NoError(t, rdb.Ping(ctx), "Redis ping failed")

	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	require.NoError(t, err)
	require.NoError(t, es.Ping(ctx), "Elasticsearch ping failed")

	// 2. Schema and seed
	require.NoError(t, database.Migrate(pg.GetDB()))
	version, err := database.MigrationVersion(pg.GetDB())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, version, int64(3))

	weights := weightconfig.NewPostgresStore(pg.GetDB())
	_, err = weights.SeedDefault(ctx)
	require.NoError(t, err)

	cache := weightconfig.NewCachedSource(rdb.Client, weights, time.Minute, log)
	require.NoError(t, cache.Invalidate(ctx))
	resolver := weightconfig.NewResolver(cache, log)
	require.NoError(t, resolver.Refresh(ctx))
	assert.False(t, resolver.Resolve("e2e-user").Fallback, "an active stored config should be resolved")

	// 3. Assess and persist
	store := assessments.NewPostgresStore(pg.GetDB())
	svc := service.New(service.Config{}, maturity.NewAnalyzer(maturity.Config{}), resolver, log,
		service.WithStore(store),
		service.WithIndexer(assessments.NewESIndexer(es.Client, cfg.Indexing.Index)),
	)

	ideaID := "e2e-idea-" + time.Now().UTC().Format("20060102150405.000")
	out, err := svc.Assess(ctx, discussion(ideaID, "session-1"))
	require.NoError(t, err)
	assert.Empty(t, out.PersistenceError)
	require.NotEmpty(t, out.AssessmentID)

	// 4. Read back
	latest, err := store.GetLatest(ctx, ideaID, "")
	require.NoError(t, err)
	assert.Equal(t, out.AssessmentID, latest.ID)
	assert.Equal(t, out.Result.TotalScore, latest.Result.TotalScore)
	assert.Equal(t, out.WorkshopAccess.Unlocked, latest.WorkshopAccess.Unlocked)

	history, err := store.ListByIdea(ctx, ideaID, 10)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	stats, err := store.AggregateStats(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.Total, 1)

	// 5. Admission is appended as well
	result := svc.Admit(ctx, models.AdmissionRequest{IdeaID: ideaID, UserID: "e2e-user", Text: "一个帮助餐厅排班的工具"})
	assert.NotEmpty(t, result.Verdict)
}

func TestCanaryRoundTrip(t *testing.T) {
	cfg := requireE2E(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	log := logger.NewTestLogger(t)

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err)
	defer pg.Close()
	require.NoError(t, database.Migrate(pg.GetDB()))

	weights := weightconfig.NewPostgresStore(pg.GetDB())
	_, err = weights.SeedDefault(ctx)
	require.NoError(t, err)

	canaryVersion := "e2e-" + time.Now().UTC().Format("150405.000")
	_, err = weights.Create(ctx, models.WeightConfigVersion{
		Version:     canaryVersion,
		Weights:     weightconfig.DefaultWeights(),
		Thresholds:  weightconfig.DefaultThresholds(),
		Description: "e2e canary",
	})
	require.NoError(t, err)
	_, err = weights.Rollback(ctx)
	require.NoError(t, err)
	require.NoError(t, weights.StartCanary(ctx, canaryVersion, 100))

	resolver := weightconfig.NewResolver(weights, log)
	require.NoError(t, resolver.Refresh(ctx))
	picked := resolver.Resolve("anyone")
	assert.True(t, picked.Canary)
	assert.Equal(t, canaryVersion, picked.Version)

	stopped, err := weights.Rollback(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stopped, int64(1))

	require.NoError(t, resolver.Refresh(ctx))
	assert.False(t, resolver.Resolve("anyone").Canary)
}

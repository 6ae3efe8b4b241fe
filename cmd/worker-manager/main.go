// cmd/worker-manager/main.go
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.uber.org/zap"

	"idea-scoring/internal/api"
	"idea-scoring/internal/assessments"
	"idea-scoring/internal/common/camunda"
	"idea-scoring/internal/common/config"
	"idea-scoring/internal/common/database"
	"idea-scoring/internal/common/logger"
	"idea-scoring/internal/common/observability"
	"idea-scoring/internal/common/validation"
	"idea-scoring/internal/scoring/maturity"
	"idea-scoring/internal/service"
	"idea-scoring/internal/weightconfig"

	admissionworker "idea-scoring/internal/workers/maturity/assess-idea-admission"
	maturityworker "idea-scoring/internal/workers/maturity/assess-idea-maturity"
)

const serviceName = "idea-scoring"

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting idea scoring service...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs, err := observability.New(serviceName)
	if err != nil {
		zapLog.Warn("otel meter provider unavailable, job meters disabled", zap.Error(err))
	}
	defer func() { _ = obs.Shutdown(context.Background()) }()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Tracing, serviceName)
	if err != nil {
		zapLog.Warn("tracing disabled", zap.Error(err))
	} else {
		defer func() { _ = shutdownTracing(context.Background()) }()
	}

	var (
		store       *assessments.PostgresStore
		weightStore *weightconfig.PostgresStore
		source      weightconfig.Source
		cache       *weightconfig.CachedSource
		checks      []api.Option
	)

	// --- PostgreSQL with retry ---
	if cfg.Persistence.Enabled {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		zapLog.Info("PostgreSQL connected successfully")

		if cfg.Database.Postgres.RunMigrations {
			if err := database.Migrate(pg.GetDB()); err != nil {
				zapLog.Fatal("migrations failed", zap.Error(err))
			}
			version, _ := database.MigrationVersion(pg.GetDB())
			zapLog.Info("migrations applied", zap.Int64("version", version))
		}

		store = assessments.NewPostgresStore(pg.GetDB())
		weightStore = weightconfig.NewPostgresStore(pg.GetDB())
		source = weightStore
		checks = append(checks, api.WithReadinessCheck("postgres", pg.Ping))

		if cfg.Weights.SeedDefault {
			seeded, err := weightStore.SeedDefault(ctx)
			if err != nil {
				zapLog.Warn("seeding default weight config failed", zap.Error(err))
			} else if seeded {
				zapLog.Info("default weight config seeded", zap.String("version", weightconfig.SeedVersion))
			}
		}
	}

	// --- Redis (weight config cache) ---
	if source != nil && cfg.Database.Redis.Address != "" {
		rdb := database.NewRedis(cfg.Database.Redis)
		defer rdb.Close()
		if err := rdb.Ping(ctx); err != nil {
			zapLog.Warn("redis unavailable, weight configs read straight from postgres", zap.Error(err))
		} else {
			cache = weightconfig.NewCachedSource(rdb.Client, source, config.GetDuration(cfg.Weights.CacheTTLMs), log)
			source = cache
			checks = append(checks, api.WithReadinessCheck("redis", rdb.Ping))
			zapLog.Info("Redis connected successfully")
		}
	}

	// --- Weight config resolver ---
	resolver := weightconfig.NewResolver(source, log,
		weightconfig.WithRouting(weightconfig.RoutingMode(cfg.Weights.CanaryRouting)))
	if source != nil {
		if err := resolver.Refresh(ctx); err != nil {
			zapLog.Warn("initial weight config load failed, using compiled-in defaults", zap.Error(err))
		}
		go resolver.Run(ctx, config.GetDuration(cfg.Weights.RefreshIntervalMs))
	}

	// --- Service ---
	svcOpts := []service.Option{}
	if store != nil {
		svcOpts = append(svcOpts, service.WithStore(store))
	}

	if cfg.Indexing.Enabled {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			zapLog.Warn("elasticsearch client failed, indexing disabled", zap.Error(err))
		} else {
			if err := es.Ping(ctx); err != nil {
				zapLog.Warn("elasticsearch not reachable yet, indexing stays best effort", zap.Error(err))
			}
			svcOpts = append(svcOpts, service.WithIndexer(assessments.NewESIndexer(es.Client, cfg.Indexing.Index)))
			checks = append(checks, api.WithReadinessCheck("elasticsearch", es.Ping))
		}
	}

	analyzer := maturity.NewAnalyzer(maturity.Config{
		MinMessages:           cfg.Scoring.MinMessages,
		EvidenceDisplayLength: cfg.Scoring.EvidenceDisplayLength,
	})
	svc := service.New(service.Config{
		AnalysisTimeout:    config.GetDuration(cfg.Scoring.AnalysisTimeoutMs),
		PersistenceTimeout: config.GetDuration(cfg.Persistence.TimeoutMs),
		IndexTimeout:       config.GetDuration(cfg.Indexing.TimeoutMs),
	}, analyzer, resolver, log, svcOpts...)

	validator, err := validation.NewDefaultValidator()
	if err != nil {
		zapLog.Fatal("activity schemas failed to compile", zap.Error(err))
	}
	decoder := service.NewDecoder(validator)

	// --- Zeebe workers ---
	var (
		zeebe   *camunda.Client
		workers []worker.JobWorker
	)
	if cfg.Camunda.Enabled {
		zeebe, err = camunda.Connect(ctx, camunda.ConfigFrom(cfg.Camunda), log)
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		zapLog.Info("Zeebe client connected successfully")
		checks = append(checks, api.WithReadinessCheck("zeebe", zeebe.HealthCheck))

		admission := admissionworker.NewHandler(
			admissionworker.LoadConfig(config.GetWorkerConfig(cfg, admissionworker.TaskType)),
			svc, decoder, obs, log)
		if w := camunda.StartWorker(zeebe.GetClient(), admissionworker.TaskType,
			config.GetWorkerConfig(cfg, admissionworker.TaskType), admission, log); w != nil {
			workers = append(workers, w)
		}

		assess := maturityworker.NewHandler(
			maturityworker.LoadConfig(config.GetWorkerConfig(cfg, maturityworker.TaskType)),
			svc, decoder, obs, log)
		if w := camunda.StartWorker(zeebe.GetClient(), maturityworker.TaskType,
			config.GetWorkerConfig(cfg, maturityworker.TaskType), assess, log); w != nil {
			workers = append(workers, w)
		}
		zapLog.Info("workers registered", zap.Int("count", len(workers)))
	}

	// --- HTTP API ---
	apiOpts := append([]api.Option{}, checks...)
	if store != nil {
		apiOpts = append(apiOpts, api.WithHistory(store))
	}
	if weightStore != nil {
		apiOpts = append(apiOpts, api.WithWeightAdmin(weightStore, func(ctx context.Context) {
			if cache != nil {
				if err := cache.Invalidate(ctx); err != nil {
					log.Warn("weight config cache invalidation failed", map[string]interface{}{"error": err.Error()})
				}
			}
			if err := resolver.Refresh(ctx); err != nil {
				log.Warn("weight config refresh after admin change failed", map[string]interface{}{"error": err.Error()})
			}
		}))
	}

	server := &http.Server{
		Addr:              cfg.HTTP.ListenAddr,
		Handler:           api.New(svc, decoder, log, apiOpts...).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zapLog.Info("HTTP API listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			zapLog.Error("HTTP API failed", zap.Error(err))
			stop()
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Close()
		w.AwaitClose()
	}
	if zeebe != nil {
		if err := zeebe.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping HTTP API", zap.Error(err))
	}

	zapLog.Info("Idea scoring service stopped gracefully")
}

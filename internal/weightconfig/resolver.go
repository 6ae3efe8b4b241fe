// internal/weightconfig/resolver.go
package weightconfig

import (
	"context"
	"hash/fnv"
	"math/rand/v2"
	"sort"
	"sync/atomic"
	"time"

	"idea-scoring/internal/common/logger"
	"idea-scoring/internal/common/metrics"
	"idea-scoring/internal/models"
)

// Source supplies the configs currently marked active, stable and canary alike.
type Source interface {
	ActiveConfigs(ctx context.Context) ([]models.WeightConfigVersion, error)
}

type RoutingMode string

const (
	// RoutingRandom draws a fresh number for every request.
	RoutingRandom RoutingMode = "random"
	// RoutingSticky hashes the user id so a user keeps the same config.
	RoutingSticky RoutingMode = "sticky"
)

type snapshot struct {
	stable   *models.WeightConfigVersion
	canaries []models.WeightConfigVersion
	loadedAt time.Time
}

// Resolver picks one calibration per request from an in-memory snapshot. The
// snapshot is replaced wholesale by Refresh, so Resolve never does I/O.
type Resolver struct {
	source  Source
	routing RoutingMode
	draw    func() float64
	logger  logger.Logger
	current atomic.Pointer[snapshot]
}

type ResolverOption func(*Resolver)

// WithRouting selects random or sticky canary routing.
func WithRouting(mode RoutingMode) ResolverOption {
	return func(r *Resolver) {
		if mode == RoutingSticky {
			r.routing = RoutingSticky
		}
	}
}

// WithRandom replaces the uniform [0,1) source used for random routing.
func WithRandom(draw func() float64) ResolverOption {
	return func(r *Resolver) {
		if draw != nil {
			r.draw = draw
		}
	}
}

func NewResolver(source Source, log logger.Logger, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		source:  source,
		routing: RoutingRandom,
		draw:    rand.Float64,
		logger:  log.WithFields(map[string]interface{}{"component": "weight-config-resolver"}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Refresh reloads the active configs. On failure the previous snapshot stays in
// place and the error is returned for logging.
func (r *Resolver) Refresh(ctx context.Context) error {
	configs, err := r.source.ActiveConfigs(ctx)
	if err != nil {
		metrics.ConfigRefreshFailures.Inc()
		r.logger.Warn("failed to load active weight configs, keeping previous snapshot", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}
	r.current.Store(r.buildSnapshot(configs))
	return nil
}

func (r *Resolver) buildSnapshot(configs []models.WeightConfigVersion) *snapshot {
	snap := &snapshot{loadedAt: time.Now().UTC()}
	canaryTotal := 0

	for i := range configs {
		cfg := configs[i]
		if !cfg.IsActive {
			continue
		}
		if err := Validate(cfg); err != nil {
			r.logger.Warn("invalid weight config ignored, compiled-in defaults apply instead", map[string]interface{}{
				"version": cfg.Version,
				"canary":  cfg.IsCanary,
				"error":   err.Error(),
			})
			continue
		}

		if cfg.IsCanary {
			snap.canaries = append(snap.canaries, cfg)
			canaryTotal += cfg.CanaryPercentage
			continue
		}
		if snap.stable != nil {
			kept, ignored := &cfg, snap.stable
			if !cfg.UpdatedAt.After(snap.stable.UpdatedAt) {
				kept, ignored = snap.stable, &cfg
			}
			r.logger.Warn("more than one stable weight config active, keeping the newest", map[string]interface{}{
				"kept":    kept.Version,
				"ignored": ignored.Version,
			})
			snap.stable = kept
			continue
		}
		snap.stable = &cfg
	}

	sort.Slice(snap.canaries, func(i, j int) bool {
		return snap.canaries[i].Version < snap.canaries[j].Version
	})
	if canaryTotal > 100 {
		r.logger.Warn("canary percentages exceed 100, later canaries are unreachable", map[string]interface{}{
			"total": canaryTotal,
		})
	}
	return snap
}

// Run refreshes the snapshot every interval until ctx is cancelled.
func (r *Resolver) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refreshCtx, cancel := context.WithTimeout(ctx, interval)
			_ = r.Refresh(refreshCtx)
			cancel()
		}
	}
}

// Resolve returns exactly one calibration for the request. It fails closed to
// the compiled-in defaults when nothing valid is active.
func (r *Resolver) Resolve(userID string) models.ResolvedConfig {
	snap := r.current.Load()
	if snap == nil {
		return Defaults()
	}

	if len(snap.canaries) > 0 {
		point := r.bucket(userID)
		cumulative := 0.0
		for i := range snap.canaries {
			cumulative += float64(snap.canaries[i].CanaryPercentage)
			if point < cumulative {
				return resolved(snap.canaries[i], true)
			}
		}
	}

	if snap.stable == nil {
		return Defaults()
	}
	return resolved(*snap.stable, false)
}

// bucket returns a point in [0,100).
func (r *Resolver) bucket(userID string) float64 {
	if r.routing == RoutingSticky && userID != "" {
		h := fnv.New32a()
		_, _ = h.Write([]byte(userID))
		return float64(h.Sum32()%10000) / 100
	}
	return r.draw() * 100
}

// LoadedAt reports when the current snapshot was built.
func (r *Resolver) LoadedAt() time.Time {
	if snap := r.current.Load(); snap != nil {
		return snap.loadedAt
	}
	return time.Time{}
}

func resolved(cfg models.WeightConfigVersion, canary bool) models.ResolvedConfig {
	return models.ResolvedConfig{
		ConfigID:   cfg.ID,
		Version:    cfg.Version,
		Canary:     canary,
		Weights:    cfg.Weights,
		Thresholds: cfg.Thresholds,
	}
}

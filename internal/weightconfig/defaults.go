// internal/weightconfig/defaults.go
package weightconfig

import (
	"errors"
	"fmt"
	"math"

	"idea-scoring/internal/models"
)

const (
	// DefaultVersion names the compiled-in fallback calibration.
	DefaultVersion = "1.0.0-default"
	// SeedVersion is the version stored by SeedDefault.
	SeedVersion = "1.0.0"

	weightTolerance = 1e-6
)

var ErrInvalidConfig = errors.New("CONFIG_INVALID")

// DefaultWeights returns the compiled-in dimension weights.
func DefaultWeights() models.ScoringWeights {
	return models.ScoringWeights{
		TargetCustomer: 0.20,
		DemandScenario: 0.20,
		CoreValue:      0.25,
		BusinessModel:  0.20,
		Credibility:    0.15,
	}
}

// DefaultThresholds returns the compiled-in level thresholds.
func DefaultThresholds() models.ScoringThresholds {
	return models.ScoringThresholds{
		LowMax:  4.0,
		MidMin:  5.0,
		MidMax:  7.0,
		HighMin: 7.5,
	}
}

// Defaults is the calibration used whenever no valid active config is available.
func Defaults() models.ResolvedConfig {
	return models.ResolvedConfig{
		Version:    DefaultVersion,
		Fallback:   true,
		Weights:    DefaultWeights(),
		Thresholds: DefaultThresholds(),
	}
}

// ValidateWeights checks that no weight is negative and that they sum to 1.0.
func ValidateWeights(w models.ScoringWeights) error {
	for _, dim := range models.AllDimensions {
		if v := w.Get(dim); v < 0 || math.IsNaN(v) {
			return fmt.Errorf("%w: weight %s is %v", ErrInvalidConfig, dim, v)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1.0) > weightTolerance {
		return fmt.Errorf("%w: weights sum to %.6f, expected 1.0", ErrInvalidConfig, sum)
	}
	return nil
}

// ValidateThresholds checks lowMax < midMin <= midMax < highMin within [0,10].
func ValidateThresholds(t models.ScoringThresholds) error {
	for _, v := range []float64{t.LowMax, t.MidMin, t.MidMax, t.HighMin} {
		if v < 0 || v > 10 || math.IsNaN(v) {
			return fmt.Errorf("%w: threshold %v outside [0,10]", ErrInvalidConfig, v)
		}
	}
	if !(t.LowMax < t.MidMin && t.MidMin <= t.MidMax && t.MidMax < t.HighMin) {
		return fmt.Errorf("%w: thresholds not monotonic (lowMax=%v midMin=%v midMax=%v highMin=%v)",
			ErrInvalidConfig, t.LowMax, t.MidMin, t.MidMax, t.HighMin)
	}
	return nil
}

// Validate checks a whole config version.
func Validate(cfg models.WeightConfigVersion) error {
	if cfg.Version == "" {
		return fmt.Errorf("%w: version is required", ErrInvalidConfig)
	}
	if cfg.CanaryPercentage < 0 || cfg.CanaryPercentage > 100 {
		return fmt.Errorf("%w: canary percentage %d outside [0,100]", ErrInvalidConfig, cfg.CanaryPercentage)
	}
	if err := ValidateWeights(cfg.Weights); err != nil {
		return err
	}
	return ValidateThresholds(cfg.Thresholds)
}

// internal/scoring/maturity/composer.go
package maturity

import (
	"sort"

	"idea-scoring/internal/models"
)

// lowMessagePenalty scales confidence when the discussion is too short.
const lowMessagePenalty = 0.8

type Composition struct {
	TotalScore     float64
	Level          models.MaturityLevel
	Confidence     float64
	WeakDimensions []models.Dimension
}

// Compose combines dimension scores into the weighted total, its level and the
// overall confidence.
func Compose(dims models.DimensionScores, weights models.ScoringWeights, thresholds models.ScoringThresholds, messageCount, minMessages int) Composition {
	var total, confidence float64
	for _, dim := range models.AllDimensions {
		s := dims.Get(dim)
		total += s.Score * weights.Get(dim)
		confidence += s.Confidence
	}
	total = round1(clampFloat(total, 0, 10))

	confidence /= float64(len(models.AllDimensions))
	if messageCount < minMessages {
		confidence *= lowMessagePenalty
	}

	return Composition{
		TotalScore:     total,
		Level:          ClassifyLevel(total, thresholds),
		Confidence:     round2(confidence),
		WeakDimensions: WeakDimensions(dims),
	}
}

// ClassifyLevel maps a score onto exactly one level. The two gray bands sit
// between the hard buckets.
func ClassifyLevel(score float64, t models.ScoringThresholds) models.MaturityLevel {
	switch {
	case score < t.LowMax:
		return models.LevelLow
	case score < t.MidMin:
		return models.LevelGrayLow
	case score <= t.MidMax:
		return models.LevelMedium
	case score < t.HighMin:
		return models.LevelGrayHigh
	default:
		return models.LevelHigh
	}
}

// WeakDimensions lists every dimension that is not CLEAR, lowest score first.
func WeakDimensions(dims models.DimensionScores) []models.Dimension {
	weak := make([]models.Dimension, 0, len(models.AllDimensions))
	for _, dim := range models.AllDimensions {
		if dims.Get(dim).Status != models.StatusClear {
			weak = append(weak, dim)
		}
	}
	sort.SliceStable(weak, func(i, j int) bool {
		return dims.Get(weak[i]).Score < dims.Get(weak[j]).Score
	})
	return weak
}

// WorkshopUnlocked gates access to follow-up workshops.
func WorkshopUnlocked(totalScore float64, t models.ScoringThresholds) bool {
	return totalScore >= t.MidMin
}

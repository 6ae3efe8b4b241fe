// internal/scoring/maturity/dimensions.go
package maturity

import (
	"math"
	"sync"

	"idea-scoring/internal/models"
	"idea-scoring/internal/scoring/textnorm"
)

// Calibrated point values for the dimension formula.
const (
	relevantBase      = 3.0
	relevantStep      = 0.5
	relevantStepLimit = 4
	praisePoints      = 0.6
	praiseCap         = 2.0
	concernPenalty    = 0.8
	concernCap        = 3.0
	invalidPenalty    = 0.4
	invalidCap        = 2.0

	clearThreshold      = 7.0
	needsFocusThreshold = 4.0
)

type compiledDimension struct {
	Dimension models.Dimension
	Topic     []textnorm.Keyword
	Concerns  []textnorm.Keyword
	Praise    []textnorm.Keyword
	Bonuses   []signalBonus
}

var compiledDimensions = compileDimensionTables()

func compileDimensionTables() []compiledDimension {
	out := make([]compiledDimension, 0, len(dimensionTables))
	for _, t := range dimensionTables {
		out = append(out, compiledDimension{
			Dimension: t.Dimension,
			Topic:     textnorm.Compile(t.Topic),
			Concerns:  textnorm.Compile(t.Concerns),
			Praise:    textnorm.Compile(t.Praise),
			Bonuses:   t.Bonuses,
		})
	}
	return out
}

func familyKeywords(family SignalFamily) []textnorm.Keyword {
	for _, t := range compiledSignals {
		if t.Family == family {
			return t.Keywords
		}
	}
	return nil
}

// DimensionDetail carries the counts behind one dimension score.
type DimensionDetail struct {
	Dimension    models.Dimension
	Score        models.DimensionScore
	Relevant     int
	Concerns     []string
	Praise       []string
	InvalidHits  int
	Bonus        float64
	FamilyCounts map[SignalFamily]int
}

// ScoreDimensions scores the five dimensions concurrently from a signal report.
func ScoreDimensions(report *SignalReport, displayLength int) (models.DimensionScores, []DimensionDetail) {
	details := make([]DimensionDetail, len(compiledDimensions))

	var wg sync.WaitGroup
	for i := range compiledDimensions {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			details[i] = scoreDimension(compiledDimensions[i], report, displayLength)
		}(i)
	}
	wg.Wait()

	var scores models.DimensionScores
	for _, d := range details {
		scores.Set(d.Dimension, d.Score)
	}
	return scores, details
}

func scoreDimension(dim compiledDimension, report *SignalReport, displayLength int) DimensionDetail {
	detail := DimensionDetail{
		Dimension:    dim.Dimension,
		FamilyCounts: make(map[SignalFamily]int),
	}
	arena := newEvidenceArena(MaxEvidence, displayLength)
	concerns := make(map[string]bool)
	praise := make(map[string]bool)

	for i := range report.Messages {
		msg := &report.Messages[i]
		if msg.Norm == "" {
			continue
		}

		topicHits := textnorm.Matches(msg.Norm, dim.Topic)
		concernHits := textnorm.Matches(msg.Norm, dim.Concerns)
		praiseHits := negation.Affirmed(msg.Norm, dim.Praise)

		var attributed []SignalFamily
		for _, b := range dim.Bonuses {
			if msg.Families[b.Family] {
				attributed = append(attributed, b.Family)
				detail.FamilyCounts[b.Family]++
			}
		}

		if len(topicHits)+len(concernHits)+len(praiseHits) == 0 && len(attributed) == 0 {
			continue
		}
		detail.Relevant++

		for _, k := range concernHits {
			if !concerns[k.Text] {
				concerns[k.Text] = true
				detail.Concerns = append(detail.Concerns, k.Text)
			}
		}
		for _, k := range praiseHits {
			if !praise[k.Text] {
				praise[k.Text] = true
				detail.Praise = append(detail.Praise, k.Text)
			}
		}
		if msg.Families[FamilyCompliments] || msg.Families[FamilyGeneralities] || msg.Families[FamilyFuturePromises] {
			detail.InvalidHits++
		}

		offerEvidence(arena, dim, msg, attributed)
	}

	if detail.Relevant == 0 {
		detail.Score = models.DimensionScore{
			Score:      0,
			Status:     models.StatusUnclear,
			Evidence:   []string{},
			Confidence: confidenceFor(0),
		}
		return detail
	}

	for _, b := range dim.Bonuses {
		detail.Bonus += math.Min(float64(detail.FamilyCounts[b.Family])*b.PerHit, b.Cap)
	}

	steps := detail.Relevant
	if steps > relevantStepLimit {
		steps = relevantStepLimit
	}
	score := relevantBase + float64(steps)*relevantStep
	score += math.Min(float64(len(detail.Praise))*praisePoints, praiseCap)
	score += detail.Bonus
	score -= math.Min(float64(len(detail.Concerns))*concernPenalty, concernCap)
	score -= math.Min(float64(detail.InvalidHits)*invalidPenalty, invalidCap)
	score = round1(clampFloat(score, 0, 10))

	detail.Score = models.DimensionScore{
		Score:      score,
		Status:     statusFor(score),
		Evidence:   arena.Quotes(),
		Confidence: confidenceFor(detail.Relevant),
	}
	return detail
}

// offerEvidence ranks every sentence of a relevant message that mentions a
// dimension keyword or an attributed signal keyword.
func offerEvidence(arena *evidenceArena, dim compiledDimension, msg *ScannedMessage, attributed []SignalFamily) {
	for _, s := range msg.Sentences {
		specificity := len(textnorm.Matches(s.Norm, dim.Topic)) +
			len(textnorm.Matches(s.Norm, dim.Concerns)) +
			len(negation.Affirmed(s.Norm, dim.Praise))
		for _, family := range attributed {
			for _, kw := range familyKeywords(family) {
				if a, _ := negation.Split(s.Norm, kw.Norm); a > 0 {
					specificity++
				}
			}
		}
		if specificity > 0 {
			arena.Offer(s.Raw, specificity)
		}
	}
}

func statusFor(score float64) models.DimensionStatus {
	switch {
	case score >= clearThreshold:
		return models.StatusClear
	case score >= needsFocusThreshold:
		return models.StatusNeedsFocus
	default:
		return models.StatusUnclear
	}
}

// confidenceFor saturates quickly with the number of relevant messages.
func confidenceFor(relevant int) float64 {
	switch {
	case relevant <= 0:
		return 0.2
	case relevant == 1:
		return 0.5
	case relevant == 2:
		return 0.7
	case relevant == 3:
		return 0.85
	case relevant == 4:
		return 0.9
	default:
		return 0.95
	}
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// internal/scoring/maturity/analyzer.go
package maturity

import "idea-scoring/internal/models"

type Config struct {
	// MinMessages is the discussion length below which confidence is penalized.
	MinMessages int
	// EvidenceDisplayLength caps each evidence quote, in characters.
	EvidenceDisplayLength int
}

func DefaultConfig() Config {
	return Config{
		MinMessages:           5,
		EvidenceDisplayLength: 120,
	}
}

type Input struct {
	Messages []models.DiscussionMessage
	Bids     []models.BidRecord
}

// Analyzer runs the maturity pipeline. It holds no per-request state and is
// safe for concurrent use.
type Analyzer struct {
	config Config
}

func NewAnalyzer(config Config) *Analyzer {
	defaults := DefaultConfig()
	if config.MinMessages <= 0 {
		config.MinMessages = defaults.MinMessages
	}
	if config.EvidenceDisplayLength <= 0 {
		config.EvidenceDisplayLength = defaults.EvidenceDisplayLength
	}
	return &Analyzer{config: config}
}

// Analyze scores one discussion under the given calibration.
func (a *Analyzer) Analyze(input Input, calibration models.ResolvedConfig) *models.MaturityScoreResult {
	report := ExtractSignals(input.Messages)
	dims, details := ScoreDimensions(report, a.config.EvidenceDisplayLength)
	consensus := AggregateConsensus(report, input.Bids)
	composition := Compose(dims, calibration.Weights, calibration.Thresholds, len(input.Messages), a.config.MinMessages)

	reasons := make([]models.ScoringReason, 0, len(details))
	for _, d := range details {
		reasons = append(reasons, models.ScoringReason{
			Dimension:     d.Dimension,
			Score:         d.Score.Score,
			Status:        d.Score.Status,
			Evidence:      d.Score.Evidence,
			MachineReason: machineReason(d, report.Valid, report.Invalid),
		})
	}

	return &models.MaturityScoreResult{
		TotalScore:      composition.TotalScore,
		Level:           composition.Level,
		Dimensions:      dims,
		ExpertConsensus: consensus,
		Confidence:      composition.Confidence,
		ScoringReasons:  reasons,
		ValidSignals:    report.Valid,
		InvalidSignals:  report.Invalid,
		WeakDimensions:  composition.WeakDimensions,
		ScoringVersion:  calibration.Version,
		ConfigID:        calibration.ConfigID,
		Canary:          calibration.Canary,
		MessageCount:    len(input.Messages),
	}
}

// internal/models/weights.go
package models

import "time"

// ScoringWeights are the per-dimension weights; a valid set sums to 1.0.
type ScoringWeights struct {
	TargetCustomer float64 `json:"targetCustomer"`
	DemandScenario float64 `json:"demandScenario"`
	CoreValue      float64 `json:"coreValue"`
	BusinessModel  float64 `json:"businessModel"`
	Credibility    float64 `json:"credibility"`
}

// Get returns the weight for a dimension by name.
func (w ScoringWeights) Get(dim Dimension) float64 {
	switch dim {
	case DimTargetCustomer:
		return w.TargetCustomer
	case DimDemandScenario:
		return w.DemandScenario
	case DimCoreValue:
		return w.CoreValue
	case DimBusinessModel:
		return w.BusinessModel
	case DimCredibility:
		return w.Credibility
	}
	return 0
}

func (w ScoringWeights) Sum() float64 {
	return w.TargetCustomer + w.DemandScenario + w.CoreValue + w.BusinessModel + w.Credibility
}

type ScoringThresholds struct {
	LowMax  float64 `json:"lowMax"`
	MidMin  float64 `json:"midMin"`
	MidMax  float64 `json:"midMax"`
	HighMin float64 `json:"highMin"`
}

type WeightConfigVersion struct {
	ID                  string            `json:"id"`
	Version             string            `json:"version"`
	IsActive            bool              `json:"isActive"`
	IsCanary            bool              `json:"isCanary"`
	CanaryPercentage    int               `json:"canaryPercentage"`
	Weights             ScoringWeights    `json:"weights"`
	Thresholds          ScoringThresholds `json:"thresholds"`
	Description         string            `json:"description,omitempty"`
	CalibrationSetSize  *int              `json:"calibrationSetSize,omitempty"`
	CalibrationAccuracy *float64          `json:"calibrationAccuracy,omitempty"`
	CreatedAt           time.Time         `json:"createdAt"`
	UpdatedAt           time.Time         `json:"updatedAt"`
}

// ResolvedConfig is the calibration picked for one request.
type ResolvedConfig struct {
	ConfigID   string            `json:"configId,omitempty"`
	Version    string            `json:"version"`
	Canary     bool              `json:"canary"`
	Fallback   bool              `json:"fallback"`
	Weights    ScoringWeights    `json:"weights"`
	Thresholds ScoringThresholds `json:"thresholds"`
}

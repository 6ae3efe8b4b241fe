// internal/models/maturity.go
package models

import "time"

type Dimension string

const (
	DimTargetCustomer Dimension = "targetCustomer"
	DimDemandScenario Dimension = "demandScenario"
	DimCoreValue      Dimension = "coreValue"
	DimBusinessModel  Dimension = "businessModel"
	DimCredibility    Dimension = "credibility"
)

// AllDimensions lists the five dimensions in canonical order.
var AllDimensions = []Dimension{
	DimTargetCustomer,
	DimDemandScenario,
	DimCoreValue,
	DimBusinessModel,
	DimCredibility,
}

type DimensionStatus string

const (
	StatusClear      DimensionStatus = "CLEAR"
	StatusNeedsFocus DimensionStatus = "NEEDS_FOCUS"
	StatusUnclear    DimensionStatus = "UNCLEAR"
)

type MaturityLevel string

const (
	LevelLow      MaturityLevel = "LOW"
	LevelGrayLow  MaturityLevel = "GRAY_LOW"
	LevelMedium   MaturityLevel = "MEDIUM"
	LevelGrayHigh MaturityLevel = "GRAY_HIGH"
	LevelHigh     MaturityLevel = "HIGH"
)

// ValidLevel reports whether s names one of the five maturity levels.
func ValidLevel(s string) bool {
	switch MaturityLevel(s) {
	case LevelLow, LevelGrayLow, LevelMedium, LevelGrayHigh, LevelHigh:
		return true
	}
	return false
}

type ConsensusLevel string

const (
	ConsensusHigh   ConsensusLevel = "HIGH"
	ConsensusMedium ConsensusLevel = "MEDIUM"
	ConsensusLow    ConsensusLevel = "LOW"
)

type DimensionScore struct {
	Score      float64         `json:"score"`
	Status     DimensionStatus `json:"status"`
	Evidence   []string        `json:"evidence"`
	Confidence float64         `json:"confidence"`
}

type DimensionScores struct {
	TargetCustomer DimensionScore `json:"targetCustomer"`
	DemandScenario DimensionScore `json:"demandScenario"`
	CoreValue      DimensionScore `json:"coreValue"`
	BusinessModel  DimensionScore `json:"businessModel"`
	Credibility    DimensionScore `json:"credibility"`
}

// Get returns the score for a dimension by name.
func (d *DimensionScores) Get(dim Dimension) DimensionScore {
	switch dim {
	case DimTargetCustomer:
		return d.TargetCustomer
	case DimDemandScenario:
		return d.DemandScenario
	case DimCoreValue:
		return d.CoreValue
	case DimBusinessModel:
		return d.BusinessModel
	case DimCredibility:
		return d.Credibility
	}
	return DimensionScore{}
}

// Set stores the score for a dimension by name.
func (d *DimensionScores) Set(dim Dimension, s DimensionScore) {
	switch dim {
	case DimTargetCustomer:
		d.TargetCustomer = s
	case DimDemandScenario:
		d.DemandScenario = s
	case DimCoreValue:
		d.CoreValue = s
	case DimBusinessModel:
		d.BusinessModel = s
	case DimCredibility:
		d.Credibility = s
	}
}

type ExpertConsensus struct {
	SupportCount   int            `json:"supportCount"`
	ConcernCount   int            `json:"concernCount"`
	NeutralCount   int            `json:"neutralCount"`
	TotalExperts   int            `json:"totalExperts"`
	TopConcerns    []string       `json:"topConcerns"`
	TopPraises     []string       `json:"topPraises"`
	ConsensusLevel ConsensusLevel `json:"consensusLevel"`
	AverageBid     float64        `json:"averageBid"`
	HighestBid     float64        `json:"highestBid"`
}

type ScoringReason struct {
	Dimension     Dimension       `json:"dimension"`
	Score         float64         `json:"score"`
	Status        DimensionStatus `json:"status"`
	Evidence      []string        `json:"evidence"`
	MachineReason string          `json:"machineReason"`
}

type MaturityScoreResult struct {
	TotalScore      float64         `json:"totalScore"`
	Level           MaturityLevel   `json:"level"`
	Dimensions      DimensionScores `json:"dimensions"`
	ExpertConsensus ExpertConsensus `json:"expertConsensus"`
	Confidence      float64         `json:"confidence"`
	ScoringReasons  []ScoringReason `json:"scoringReasons"`
	ValidSignals    ValidSignals    `json:"validSignals"`
	InvalidSignals  InvalidSignals  `json:"invalidSignals"`
	WeakDimensions  []Dimension     `json:"weakDimensions"`
	ScoringVersion  string          `json:"scoringVersion"`
	ConfigID        string          `json:"configId,omitempty"`
	Canary          bool            `json:"canary"`
	MessageCount    int             `json:"messageCount"`
}

type Recommendation struct {
	WorkshopID          string      `json:"workshopId"`
	Title               string      `json:"title"`
	Description         string      `json:"description"`
	Priority            string      `json:"priority"`
	RecommendationLevel int         `json:"recommendationLevel"`
	Reason              string      `json:"reason"`
	EstimatedDuration   int         `json:"estimatedDuration"`
	WeakDimensions      []Dimension `json:"weakDimensions,omitempty"`
}

type WorkshopAccess struct {
	Unlocked        bool             `json:"unlocked"`
	UnlockedAt      *time.Time       `json:"unlockedAt,omitempty"`
	Recommendations []Recommendation `json:"recommendations"`
}

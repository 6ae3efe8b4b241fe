// Package recommend maps a maturity assessment to follow-up workshops.
package recommend

import (
	"sort"

	"idea-scoring/internal/models"
)

const (
	WorkshopDemandValidation = "demand-validation"
	WorkshopProfitModel      = "profit-model"
	WorkshopMVPBuilding      = "mvp-building"
	WorkshopGrowthHacking    = "growth-hacking"

	PriorityHigh   = "high"
	PriorityMedium = "medium"

	growthScoreMin = 7.0
)

// Assessment is the slice of a maturity result the rules look at.
type Assessment struct {
	WeakDimensions []models.Dimension
	Level          models.MaturityLevel
	TotalScore     float64
}

type rule struct {
	workshop    models.Recommendation
	dimensions  []models.Dimension
	levels      []models.MaturityLevel
	minScore    float64
	hasMinScore bool
}

// rules are evaluated in order; each fires at most once.
var rules = []rule{
	{
		workshop: models.Recommendation{
			WorkshopID:          WorkshopDemandValidation,
			Title:               "需求验证实验室",
			Description:         "通过模拟用户访谈，验证真实需求",
			Priority:            PriorityHigh,
			RecommendationLevel: 5,
			Reason:              "目标客户或需求场景需要深化验证",
			EstimatedDuration:   15,
		},
		dimensions: []models.Dimension{models.DimTargetCustomer, models.DimDemandScenario, models.DimCredibility},
	},
	{
		workshop: models.Recommendation{
			WorkshopID:          WorkshopProfitModel,
			Title:               "盈利模式实验室",
			Description:         "优化商业模式和定价策略",
			Priority:            PriorityHigh,
			RecommendationLevel: 5,
			Reason:              "商业模式需要验证和优化",
			EstimatedDuration:   10,
		},
		dimensions: []models.Dimension{models.DimBusinessModel},
	},
	{
		workshop: models.Recommendation{
			WorkshopID:          WorkshopMVPBuilding,
			Title:               "MVP构建指挥部",
			Description:         "制定最小可行产品开发方案",
			Priority:            PriorityMedium,
			RecommendationLevel: 4,
			Reason:              "创意成熟度高，可进入开发阶段",
			EstimatedDuration:   20,
		},
		levels: []models.MaturityLevel{models.LevelHigh, models.LevelGrayHigh},
	},
	{
		workshop: models.Recommendation{
			WorkshopID:          WorkshopGrowthHacking,
			Title:               "增长黑客作战室",
			Description:         "制定用户增长和推广策略",
			Priority:            PriorityMedium,
			RecommendationLevel: 3,
			Reason:              "创意验证充分，可制定增长策略",
			EstimatedDuration:   15,
		},
		minScore:    growthScoreMin,
		hasMinScore: true,
	},
}

// Recommend returns the workshops that apply, highest recommendation level
// first. Rules with equal levels keep their table order.
func Recommend(a Assessment) []models.Recommendation {
	out := make([]models.Recommendation, 0, len(rules))
	for _, r := range rules {
		rec, ok := r.apply(a)
		if ok {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RecommendationLevel > out[j].RecommendationLevel
	})
	return out
}

func (r rule) apply(a Assessment) (models.Recommendation, bool) {
	rec := r.workshop

	switch {
	case len(r.dimensions) > 0:
		var involved []models.Dimension
		for _, d := range a.WeakDimensions {
			if containsDimension(r.dimensions, d) {
				involved = append(involved, d)
			}
		}
		if len(involved) == 0 {
			return models.Recommendation{}, false
		}
		rec.WeakDimensions = involved
	case len(r.levels) > 0:
		if !containsLevel(r.levels, a.Level) {
			return models.Recommendation{}, false
		}
	case r.hasMinScore:
		if a.TotalScore < r.minScore {
			return models.Recommendation{}, false
		}
	}
	return rec, true
}

func containsDimension(list []models.Dimension, d models.Dimension) bool {
	for _, x := range list {
		if x == d {
			return true
		}
	}
	return false
}

func containsLevel(list []models.MaturityLevel, l models.MaturityLevel) bool {
	for _, x := range list {
		if x == l {
			return true
		}
	}
	return false
}

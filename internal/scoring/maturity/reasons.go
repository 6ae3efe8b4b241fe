// internal/scoring/maturity/reasons.go
package maturity

import (
	"fmt"

	"idea-scoring/internal/models"
)

func machineReason(detail DimensionDetail, valid models.ValidSignals, invalid models.InvalidSignals) string {
	if detail.Relevant == 0 {
		return "讨论中未涉及该维度，暂无可评估内容"
	}

	switch detail.Dimension {
	case models.DimBusinessModel:
		switch {
		case valid.RealSpending > 0:
			return fmt.Sprintf("检测到 %d 处真实付费证据，商业模式可信度高", valid.RealSpending)
		case invalid.FuturePromises > 2:
			return fmt.Sprintf("检测到 %d 处未来承诺，缺少真实付费验证", invalid.FuturePromises)
		default:
			return "未检测到真实付费证据，建议补充用户访谈数据"
		}
	case models.DimCredibility:
		switch {
		case valid.Evidence > 0:
			return fmt.Sprintf("检测到 %d 处可验证证据（截图/数据/链接），可信度高", valid.Evidence)
		case valid.SpecificPast > 2:
			return fmt.Sprintf("检测到 %d 处具体过去案例，有一定可信度", valid.SpecificPast)
		default:
			return "缺少可验证证据，建议提供具体数据或访谈记录"
		}
	case models.DimTargetCustomer:
		if valid.UserIntroductions > 0 {
			return fmt.Sprintf("检测到 %d 处用户介绍，目标客户画像清晰", valid.UserIntroductions)
		}
		return "建议补充5-10个目标用户访谈记录，明确细分人群"
	case models.DimCoreValue:
		if valid.PainPoints > 0 {
			return fmt.Sprintf("检测到 %d 处真实痛点，核心价值明确", valid.PainPoints)
		}
		return "建议挖掘更多用户痛点故事，强化差异化价值"
	case models.DimDemandScenario:
		if valid.SpecificPast > 0 {
			return fmt.Sprintf("检测到 %d 处具体过去场景，需求场景有据可依", valid.SpecificPast)
		}
		return "建议描述用户在真实场景中的具体经历，确认需求频率"
	}
	return "基于专家讨论分析生成"
}

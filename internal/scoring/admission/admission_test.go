// internal/scoring/admission/admission_test.go
package admission

import (
	"strings"
	"testing"
	"time"

	"idea-scoring/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const restaurantIdea = "我们面向一线城市的中小餐厅老板。他们每天要花2小时手工排班，因为人员流动大导致经常出错，这是他们最头疼的问题。" +
	"我们的解决方案是一款智能排班工具，功能包括：1. 自动生成排班表；2. 员工请假与换班流程；3. 与收银系统集成。" +
	"定价采用订阅制，基础版每月99元，高级版每月199元，首月免费试用。"

func TestScore(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		validateOutput func(t *testing.T, r models.AdmissionResult)
	}{
		{
			name: "boilerplate only",
			text: "做一个AI应用",
			validateOutput: func(t *testing.T, r models.AdmissionResult) {
				assert.LessOrEqual(t, r.Score, 40)
				assert.Equal(t, models.VerdictReject, r.Verdict)
				assert.False(t, r.IsWillingToDiscuss)
				assert.Len(t, r.MissingPoints, 4)
				assert.Len(t, r.RequiredInfo, 4)
				assert.Len(t, r.CriticalIssues, 2)
				assert.Empty(t, r.Strengths)
			},
		},
		{
			name: "complete description",
			text: restaurantIdea,
			validateOutput: func(t *testing.T, r models.AdmissionResult) {
				assert.Equal(t, models.AdmissionBreakdown{Problem: 25, TargetUser: 25, Solution: 25, BusinessModel: 25}, r.Breakdown)
				assert.GreaterOrEqual(t, r.Score, 81)
				assert.Equal(t, models.VerdictExcellent, r.Verdict)
				assert.True(t, r.IsWillingToDiscuss)
				assert.Empty(t, r.MissingPoints)
				assert.Empty(t, r.RequiredInfo)
				assert.Empty(t, r.CriticalIssues)
				assert.Len(t, r.Strengths, 4)
			},
		},
		{
			name: "short but specific",
			text: "针对中小企业的财务团队，我们做一个自动对账工具，解决手工对账低效的问题，按年收费。",
			validateOutput: func(t *testing.T, r models.AdmissionResult) {
				assert.Equal(t, 20, r.Breakdown.Problem)
				assert.Equal(t, 20, r.Breakdown.TargetUser)
				assert.Equal(t, 20, r.Breakdown.Solution)
				assert.Equal(t, 15, r.Breakdown.BusinessModel)
				assert.Equal(t, 75, r.Score)
				assert.Equal(t, models.VerdictAcceptable, r.Verdict)
				require.Len(t, r.RequiredInfo, 1)
				assert.Contains(t, r.RequiredInfo[0], "收费")
			},
		},
		{
			name: "missing the problem",
			text: "给学生用的记账工具，帮助他们管理生活费，会员每月10元。",
			validateOutput: func(t *testing.T, r models.AdmissionResult) {
				assert.Equal(t, 0, r.Breakdown.Problem)
				assert.Equal(t, 15, r.Breakdown.TargetUser)
				assert.Equal(t, 55, r.Score)
				assert.Equal(t, models.VerdictNeedsWork, r.Verdict)
				assert.False(t, r.IsWillingToDiscuss)
				assert.Len(t, r.MissingPoints, 1)
			},
		},
		{
			name: "english and case insensitive",
			text: "Freelance designers STRUGGLE to track invoices because clients pay late. Our tool automates reminders and includes a dashboard. PRICING: $9 per month subscription.",
			validateOutput: func(t *testing.T, r models.AdmissionResult) {
				assert.Equal(t, 25, r.Breakdown.Problem)
				assert.Equal(t, 20, r.Breakdown.TargetUser)
				assert.Equal(t, 25, r.Breakdown.Solution)
				assert.Equal(t, 25, r.Breakdown.BusinessModel)
				assert.Equal(t, models.VerdictExcellent, r.Verdict)
			},
		},
		{
			name: "too long",
			text: strings.Repeat(restaurantIdea, 8),
			validateOutput: func(t *testing.T, r models.AdmissionResult) {
				require.Len(t, r.CriticalIssues, 1)
				assert.Contains(t, r.CriticalIssues[0], "过长")
			},
		},
		{
			name: "empty",
			text: "   ",
			validateOutput: func(t *testing.T, r models.AdmissionResult) {
				assert.Zero(t, r.Score)
				assert.Equal(t, models.VerdictReject, r.Verdict)
				assert.NotEmpty(t, r.Feedback)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Score(tt.text)
			assert.Equal(t, r.Breakdown.Total(), r.Score)
			assert.GreaterOrEqual(t, r.Score, 0)
			assert.LessOrEqual(t, r.Score, 100)
			tt.validateOutput(t, r)
		})
	}
}

func TestVerdictFor_Boundaries(t *testing.T) {
	tests := []struct {
		score int
		want  models.Verdict
	}{
		{0, models.VerdictReject},
		{40, models.VerdictReject},
		{41, models.VerdictNeedsWork},
		{60, models.VerdictNeedsWork},
		{61, models.VerdictAcceptable},
		{80, models.VerdictAcceptable},
		{81, models.VerdictExcellent},
		{100, models.VerdictExcellent},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, verdictFor(tt.score), "score=%d", tt.score)
	}
}

func TestGenericOnly(t *testing.T) {
	assert.True(t, genericOnly("做一个ai应用"))
	assert.True(t, genericOnly("我想做一个ai平台"))
	assert.True(t, genericOnly("build an ai app"))
	assert.False(t, genericOnly("build an app for bakers"))
	assert.False(t, genericOnly("做一个帮宠物店记账的小程序"))
}

func TestScore_Fast(t *testing.T) {
	text := strings.Repeat(restaurantIdea, 6)
	start := time.Now()
	for i := 0; i < 20; i++ {
		Score(text)
	}
	assert.Less(t, time.Since(start)/20, 50*time.Millisecond)
}

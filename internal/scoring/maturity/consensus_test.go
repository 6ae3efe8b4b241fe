// internal/scoring/maturity/consensus_test.go
package maturity

import (
	"testing"

	"idea-scoring/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestAggregateConsensus(t *testing.T) {
	tests := []struct {
		name           string
		messages       []models.DiscussionMessage
		bids           []models.BidRecord
		validateOutput func(t *testing.T, c models.ExpertConsensus)
	}{
		{
			name: "mixed stances with a silent bidder",
			messages: []models.DiscussionMessage{
				{AgentID: "a", Content: "这个方向很有前景，我很看好"},
				{AgentID: "b", Content: "风险太大，竞品太多"},
				{AgentID: "c", Content: "我再想想"},
			},
			bids: []models.BidRecord{{AgentID: "a", Amount: 50}, {AgentID: "d", Amount: 100}},
			validateOutput: func(t *testing.T, c models.ExpertConsensus) {
				assert.Equal(t, 4, c.TotalExperts)
				assert.Equal(t, 1, c.SupportCount)
				assert.Equal(t, 1, c.ConcernCount)
				assert.Equal(t, 2, c.NeutralCount)
				assert.Equal(t, models.ConsensusMedium, c.ConsensusLevel)
				assert.ElementsMatch(t, []string{"风险", "竞品太多"}, c.TopConcerns)
				assert.ElementsMatch(t, []string{"有前景", "很看好"}, c.TopPraises)
				assert.Equal(t, 75.0, c.AverageBid)
				assert.Equal(t, 100.0, c.HighestBid)
			},
		},
		{
			name: "unanimous support",
			messages: []models.DiscussionMessage{
				{AgentID: "a", Content: "很看好"},
				{AgentID: "b", Content: "我认可这个方向"},
				{AgentID: "c", Content: "值得投"},
				{AgentID: "a", Content: "靠谱"},
			},
			validateOutput: func(t *testing.T, c models.ExpertConsensus) {
				assert.Equal(t, 3, c.TotalExperts)
				assert.Equal(t, 3, c.SupportCount)
				assert.Equal(t, models.ConsensusHigh, c.ConsensusLevel)
				assert.Zero(t, c.AverageBid)
			},
		},
		{
			name: "no experts",
			validateOutput: func(t *testing.T, c models.ExpertConsensus) {
				assert.Zero(t, c.TotalExperts)
				assert.Equal(t, models.ConsensusLow, c.ConsensusLevel)
				assert.Empty(t, c.TopConcerns)
			},
		},
		{
			name: "negated praise counts as a concern",
			messages: []models.DiscussionMessage{
				{AgentID: "a", Content: "这个方案不靠谱，我不支持，也不认可。"},
				{AgentID: "b", Content: "I do not support this, it is not convincing."},
			},
			validateOutput: func(t *testing.T, c models.ExpertConsensus) {
				assert.Equal(t, 2, c.TotalExperts)
				assert.Zero(t, c.SupportCount)
				assert.Equal(t, 2, c.ConcernCount)
				assert.Empty(t, c.TopPraises)
				assert.Equal(t, models.ConsensusHigh, c.ConsensusLevel)
			},
		},
		{
			name: "plain praise outweighs a negated one",
			messages: []models.DiscussionMessage{
				{AgentID: "a", Content: "之前不认可，现在很看好，也支持"},
				{AgentID: "b", Content: "没有风险，值得投"},
			},
			validateOutput: func(t *testing.T, c models.ExpertConsensus) {
				assert.Equal(t, 2, c.SupportCount)
				assert.Zero(t, c.ConcernCount)
				assert.ElementsMatch(t, []string{"很看好", "支持", "值得投"}, c.TopPraises)
				assert.Empty(t, c.TopConcerns)
			},
		},
		{
			name: "top phrases ordered by frequency",
			messages: []models.DiscussionMessage{
				{AgentID: "a", Content: "风险风险风险"},
				{AgentID: "b", Content: "担心，风险"},
				{AgentID: "c", Content: "不现实"},
			},
			validateOutput: func(t *testing.T, c models.ExpertConsensus) {
				assert.Equal(t, "风险", c.TopConcerns[0])
				assert.Equal(t, 3, c.ConcernCount)
				assert.Equal(t, models.ConsensusHigh, c.ConsensusLevel)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validateOutput(t, AggregateConsensus(ExtractSignals(tt.messages), tt.bids))
		})
	}
}

func TestBidsFromMap_SortedByAgent(t *testing.T) {
	bids := BidsFromMap(map[string]float64{"zed": 3, "amy": 1, "kai": 2})
	assert.Equal(t, []models.BidRecord{
		{AgentID: "amy", Amount: 1},
		{AgentID: "kai", Amount: 2},
		{AgentID: "zed", Amount: 3},
	}, bids)
}

// internal/scoring/maturity/consensus.go
package maturity

import (
	"sort"

	"idea-scoring/internal/models"
	"idea-scoring/internal/scoring/textnorm"
)

const (
	maxTopPhrases = 5

	highConsensusShare   = 0.8
	mediumConsensusShare = 0.5
)

var (
	stanceConcerns = compileStanceTable(genericConcerns, func(t dimensionTable) []string { return t.Concerns }, "")
	stancePraise   = compileStanceTable(genericPraise, func(t dimensionTable) []string { return t.Praise }, FamilyCompliments)
)

// compileStanceTable merges the dimension lists, the generic list and optionally
// one signal family into a single keyword table without duplicates.
func compileStanceTable(generic []string, pick func(dimensionTable) []string, family SignalFamily) []textnorm.Keyword {
	var words []string
	for _, t := range dimensionTables {
		words = append(words, pick(t)...)
	}
	words = append(words, generic...)
	if family != "" {
		for _, t := range signalTables {
			if t.Family == family {
				words = append(words, t.Keywords...)
			}
		}
	}

	seen := make(map[string]bool)
	var out []textnorm.Keyword
	for _, k := range textnorm.Compile(words) {
		if seen[k.Norm] {
			continue
		}
		seen[k.Norm] = true
		out = append(out, k)
	}
	return out
}

type stance int

const (
	stanceNeutral stance = iota
	stanceSupport
	stanceConcern
)

// AggregateConsensus classifies each expert from their own messages and counts
// the most repeated concern and praise phrases. Negated phrases never count as
// praise. Bids never change a stance.
func AggregateConsensus(report *SignalReport, bids []models.BidRecord) models.ExpertConsensus {
	concernHits := make(map[string]int)
	praiseHits := make(map[string]int)
	concernFreq := make(map[string]int)
	praiseFreq := make(map[string]int)

	experts := make(map[string]bool)
	for i := range report.Messages {
		msg := &report.Messages[i]
		if msg.AgentID == "" {
			continue
		}
		experts[msg.AgentID] = true

		for _, k := range stanceConcerns {
			if n, _ := negation.Split(msg.Norm, k.Norm); n > 0 {
				concernHits[msg.AgentID] += n
				concernFreq[k.Text] += n
			}
		}
		// "不靠谱" or "not convincing" is a concern, not praise.
		for _, k := range stancePraise {
			n, negated := negation.Split(msg.Norm, k.Norm)
			concernHits[msg.AgentID] += negated
			if n > 0 {
				praiseHits[msg.AgentID] += n
				praiseFreq[k.Text] += n
			}
		}
	}
	for _, b := range bids {
		if b.AgentID != "" {
			experts[b.AgentID] = true
		}
	}

	result := models.ExpertConsensus{
		TopConcerns: topPhrases(concernFreq, maxTopPhrases),
		TopPraises:  topPhrases(praiseFreq, maxTopPhrases),
	}

	for id := range experts {
		switch classifyStance(concernHits[id], praiseHits[id]) {
		case stanceConcern:
			result.ConcernCount++
		case stanceSupport:
			result.SupportCount++
		default:
			result.NeutralCount++
		}
	}
	result.TotalExperts = len(experts)
	result.ConsensusLevel = consensusLevel(result)
	result.AverageBid, result.HighestBid = bidSummary(bids)
	return result
}

func classifyStance(concerns, praise int) stance {
	switch {
	case concerns > praise:
		return stanceConcern
	case praise > concerns:
		return stanceSupport
	default:
		return stanceNeutral
	}
}

func consensusLevel(c models.ExpertConsensus) models.ConsensusLevel {
	if c.TotalExperts == 0 {
		return models.ConsensusLow
	}
	largest := c.SupportCount
	if c.ConcernCount > largest {
		largest = c.ConcernCount
	}
	if c.NeutralCount > largest {
		largest = c.NeutralCount
	}

	share := float64(largest) / float64(c.TotalExperts)
	switch {
	case share >= highConsensusShare:
		return models.ConsensusHigh
	case share >= mediumConsensusShare:
		return models.ConsensusMedium
	default:
		return models.ConsensusLow
	}
}

func topPhrases(freq map[string]int, limit int) []string {
	phrases := make([]string, 0, len(freq))
	for p := range freq {
		phrases = append(phrases, p)
	}
	sort.Slice(phrases, func(i, j int) bool {
		if freq[phrases[i]] != freq[phrases[j]] {
			return freq[phrases[i]] > freq[phrases[j]]
		}
		return phrases[i] < phrases[j]
	})
	if len(phrases) > limit {
		phrases = phrases[:limit]
	}
	return phrases
}

func bidSummary(bids []models.BidRecord) (avg, highest float64) {
	if len(bids) == 0 {
		return 0, 0
	}
	var sum float64
	highest = bids[0].Amount
	for _, b := range bids {
		sum += b.Amount
		if b.Amount > highest {
			highest = b.Amount
		}
	}
	return round2(sum / float64(len(bids))), highest
}

// BidsFromMap converts an agentId→amount map into records ordered by agent.
func BidsFromMap(bids map[string]float64) []models.BidRecord {
	ids := make([]string, 0, len(bids))
	for id := range bids {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]models.BidRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.BidRecord{AgentID: id, Amount: bids[id]})
	}
	return out
}

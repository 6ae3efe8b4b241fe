package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "case folding", input: "Last Week", expected: "last week"},
		{name: "punctuation becomes space", input: "last-week!!", expected: "last week"},
		{name: "full width folding", input: "ＭＲＲ　增长", expected: "mrr 增长"},
		{name: "chinese punctuation", input: "上周，我们花了3000元/月。", expected: "上周 我们花了3000元 月"},
		{name: "currency symbols kept", input: "$20 per month", expected: "$20 per month"},
		{name: "empty", input: "", expected: ""},
		{name: "only punctuation", input: "。。！", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestMatches_PunctuationTolerant(t *testing.T) {
	table := Compile([]string{"last week", "元/月", "MRR"})
	require.Len(t, table, 3)

	hits := Matches(Normalize("LAST-WEEK we hit 5k mrr, 99元/月"), table)
	require.Len(t, hits, 3)
	assert.Equal(t, "last week", hits[0].Text)
	assert.Equal(t, "元/月", hits[1].Text)
	assert.Equal(t, "MRR", hits[2].Text)
}

func TestFind_WordBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		keyword  string
		expected int
	}{
		{name: "repeated chinese keyword", text: "风险很大，风险！", keyword: "风险", expected: 2},
		{name: "english inside a longer word", text: "a Chicago bakery", keyword: "ago", expected: 0},
		{name: "acronym inside a word", text: "we carry stock", keyword: "ARR", expected: 0},
		{name: "acronym next to chinese", text: "上个月ARR到了10万", keyword: "ARR", expected: 1},
		{name: "plural tail", text: "clients pay late", keyword: "client", expected: 1},
		{name: "past tense tail", text: "a client churned", keyword: "churn", expected: 1},
		{name: "other tails rejected", text: "linkage", keyword: "link", expected: 0},
		{name: "digit prefix", text: "13个月", keyword: "3个月", expected: 0},
		{name: "symbol keyword", text: "$9 per month", keyword: "$", expected: 1},
		{name: "later whole-word match found", text: "chicago two weeks ago", keyword: "ago", expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, Find(Normalize(tt.text), Normalize(tt.keyword)), tt.expected)
		})
	}
}

func TestNegation_Split(t *testing.T) {
	neg := NewNegation([]string{"不", "不是", "not ", "don't "})

	tests := []struct {
		name     string
		text     string
		keyword  string
		affirmed int
		negated  int
	}{
		{name: "chinese marker", text: "这个方案不靠谱", keyword: "靠谱", negated: 1},
		{name: "two character marker", text: "这不是真实需求", keyword: "真实需求", negated: 1},
		{name: "english marker", text: "it is not convincing", keyword: "convincing", negated: 1},
		{name: "contraction marker", text: "I don't support this", keyword: "support", negated: 1},
		{name: "marker must be a whole word", text: "knot convincing", keyword: "convincing", affirmed: 1},
		{name: "mixed occurrences", text: "我不认可，他认可", keyword: "认可", affirmed: 1, negated: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, n := neg.Split(Normalize(tt.text), Normalize(tt.keyword))
			assert.Equal(t, tt.affirmed, a)
			assert.Equal(t, tt.negated, n)
		})
	}
}

func TestNegation_Affirmed(t *testing.T) {
	neg := NewNegation([]string{"不"})
	table := Compile([]string{"靠谱", "支持", "认可"})

	hits := neg.Affirmed(Normalize("不靠谱，但我支持"), table)
	require.Len(t, hits, 1)
	assert.Equal(t, "支持", hits[0].Text)
}

func TestSentences(t *testing.T) {
	got := Sentences("上周我们访谈了10个用户。数据在报告里! Revenue is 3.5k. Done")
	assert.Equal(t, []string{
		"上周我们访谈了10个用户。",
		"数据在报告里!",
		"Revenue is 3.5k.",
		"Done",
	}, got)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "短句", Truncate("  短句  ", 10))
	assert.Equal(t, "一二三…", Truncate("一二三四五六", 4))
	assert.Equal(t, 4, RuneLen(Truncate("一二三四五六", 4)))
}

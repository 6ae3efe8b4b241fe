// internal/scoring/admission/admission.go
package admission

import (
	"fmt"
	"sort"
	"strings"

	"idea-scoring/internal/models"
	"idea-scoring/internal/scoring/textnorm"
)

// Facet sub-scores.
const (
	scoreMissing = 0
	scoreMinimal = 15
	scoreMedium  = 18
	scoreGood    = 20
	scoreStrong  = 25

	mediumLength = 50
	longLength   = 100

	minLength     = 20
	maxLength     = 1000
	genericLength = 50
)

// Verdict thresholds on the summed score.
const (
	needsWorkMin  = 41
	acceptableMin = 61
	excellentMin  = 81
)

type compiledFacet struct {
	facetTable
	primary []textnorm.Keyword
	detail  []textnorm.Keyword
}

var (
	compiledFacets      = compileFacets()
	compiledBoilerplate = compileBoilerplate()
)

func compileFacets() []compiledFacet {
	out := make([]compiledFacet, 0, len(facetTables))
	for _, t := range facetTables {
		out = append(out, compiledFacet{
			facetTable: t,
			primary:    textnorm.Compile(t.Primary),
			detail:     textnorm.Compile(t.Detail),
		})
	}
	return out
}

// compileBoilerplate orders tokens longest first so "做一个" is stripped before "一个".
func compileBoilerplate() []string {
	tokens := textnorm.NormalizeAll(boilerplate)
	sort.SliceStable(tokens, func(i, j int) bool { return len(tokens[i]) > len(tokens[j]) })
	return tokens
}

// Score rates an idea description on four completeness facets. It is pure and
// does no I/O.
func Score(text string) models.AdmissionResult {
	trimmed := strings.TrimSpace(text)
	n := textnorm.RuneLen(trimmed)
	norm := textnorm.Normalize(trimmed)

	result := models.AdmissionResult{
		MissingPoints:  []string{},
		RequiredInfo:   []string{},
		CriticalIssues: []string{},
		Strengths:      []string{},
	}

	for _, f := range compiledFacets {
		s := facetScore(norm, n, f)
		setFacet(&result.Breakdown, f.Facet, s)

		switch {
		case s == scoreMissing:
			result.MissingPoints = append(result.MissingPoints, f.Missing)
			result.RequiredInfo = append(result.RequiredInfo, f.Question)
		case s < scoreGood:
			result.RequiredInfo = append(result.RequiredInfo, f.Question)
		case s == scoreStrong:
			result.Strengths = append(result.Strengths, f.Strength)
		}
	}

	if n < minLength {
		result.CriticalIssues = append(result.CriticalIssues, fmt.Sprintf("描述过短（少于%d字），无法判断想法内容", minLength))
	}
	if n > maxLength {
		result.CriticalIssues = append(result.CriticalIssues, fmt.Sprintf("描述过长（超过%d字），请提炼核心要点", maxLength))
	}
	if n < genericLength && genericOnly(norm) {
		result.CriticalIssues = append(result.CriticalIssues, "描述过于笼统，只有“做一个应用/平台”之类的通用表述")
	}

	result.Score = result.Breakdown.Total()
	result.Verdict = verdictFor(result.Score)
	result.IsWillingToDiscuss = result.Verdict == models.VerdictAcceptable || result.Verdict == models.VerdictExcellent
	result.Feedback = feedbackFor(result.Verdict, result.Score)
	return result
}

func facetScore(norm string, n int, f compiledFacet) int {
	primaryHits := len(textnorm.Matches(norm, f.primary))
	if primaryHits == 0 {
		return scoreMissing
	}
	strong := primaryHits >= 2 || textnorm.ContainsAny(norm, f.detail)

	switch {
	case strong && n >= longLength:
		return scoreStrong
	case strong || n >= longLength:
		return scoreGood
	case n >= mediumLength:
		return scoreMedium
	default:
		return scoreMinimal
	}
}

// genericOnly reports whether nothing is left once boilerplate tokens are removed.
func genericOnly(norm string) bool {
	if norm == "" {
		return true
	}
	rest := norm
	for _, tok := range compiledBoilerplate {
		if isASCIIWord(tok) {
			rest = removeWord(rest, tok)
			continue
		}
		rest = strings.ReplaceAll(rest, tok, " ")
	}
	return strings.TrimSpace(rest) == ""
}

// removeWord drops whole-word occurrences of an ASCII token so "a" does not eat
// letters out of other words.
func removeWord(s, word string) string {
	fields := strings.Fields(s)
	kept := fields[:0]
	for _, f := range fields {
		if f != word {
			kept = append(kept, f)
		}
	}
	joined := strings.Join(kept, " ")
	if strings.Contains(word, " ") {
		joined = strings.ReplaceAll(joined, word, " ")
	}
	return joined
}

func isASCIIWord(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

func setFacet(b *models.AdmissionBreakdown, f Facet, score int) {
	switch f {
	case FacetProblem:
		b.Problem = score
	case FacetTargetUser:
		b.TargetUser = score
	case FacetSolution:
		b.Solution = score
	case FacetBusinessModel:
		b.BusinessModel = score
	}
}

func verdictFor(score int) models.Verdict {
	switch {
	case score >= excellentMin:
		return models.VerdictExcellent
	case score >= acceptableMin:
		return models.VerdictAcceptable
	case score >= needsWorkMin:
		return models.VerdictNeedsWork
	default:
		return models.VerdictReject
	}
}

func feedbackFor(v models.Verdict, score int) string {
	switch v {
	case models.VerdictExcellent:
		return fmt.Sprintf("想法描述完整（%d/100），可以进入专家讨论。", score)
	case models.VerdictAcceptable:
		return fmt.Sprintf("想法基本清晰（%d/100），可以进入专家讨论，补充薄弱部分会更有说服力。", score)
	case models.VerdictNeedsWork:
		return fmt.Sprintf("想法还不够完整（%d/100），请先补充下面列出的信息。", score)
	default:
		return fmt.Sprintf("信息不足（%d/100），缺少关键要素，请补充后重新提交。", score)
	}
}

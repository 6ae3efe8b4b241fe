// internal/models/admission.go
package models

// Verdict is the admission bucket for a raw idea description.
type Verdict string

const (
	VerdictReject     Verdict = "reject"
	VerdictNeedsWork  Verdict = "needs_work"
	VerdictAcceptable Verdict = "acceptable"
	VerdictExcellent  Verdict = "excellent"
)

// AdmissionBreakdown holds the four facet sub-scores, each in {0,15,18,20,25}.
type AdmissionBreakdown struct {
	Problem       int `json:"problem"`
	TargetUser    int `json:"targetUser"`
	Solution      int `json:"solution"`
	BusinessModel int `json:"businessModel"`
}

// Total sums the facet sub-scores.
func (b AdmissionBreakdown) Total() int {
	return b.Problem + b.TargetUser + b.Solution + b.BusinessModel
}

type AdmissionResult struct {
	Score              int                `json:"score"`
	Verdict            Verdict            `json:"verdict"`
	Breakdown          AdmissionBreakdown `json:"breakdown"`
	MissingPoints      []string           `json:"missingPoints"`
	RequiredInfo       []string           `json:"requiredInfo"`
	CriticalIssues     []string           `json:"criticalIssues"`
	Strengths          []string           `json:"strengths"`
	IsWillingToDiscuss bool               `json:"isWillingToDiscuss"`
	Feedback           string             `json:"feedback"`
}

// internal/models/discussion.go
package models

import "time"

type DiscussionMessage struct {
	AgentID   string    `json:"agentId"`
	Content   string    `json:"content"`
	Phase     string    `json:"phase,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

type BidRecord struct {
	AgentID    string   `json:"agentId"`
	Amount     float64  `json:"amount"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// ValidSignals counts concrete, falsifiable statements across a session.
type ValidSignals struct {
	SpecificPast      int `json:"specificPast"`
	RealSpending      int `json:"realSpending"`
	PainPoints        int `json:"painPoints"`
	UserIntroductions int `json:"userIntroductions"`
	Evidence          int `json:"evidence"`
}

// Total returns the number of valid signal hits.
func (v ValidSignals) Total() int {
	return v.SpecificPast + v.RealSpending + v.PainPoints + v.UserIntroductions + v.Evidence
}

// InvalidSignals counts flattering or vague statements across a session.
type InvalidSignals struct {
	Compliments    int `json:"compliments"`
	Generalities   int `json:"generalities"`
	FuturePromises int `json:"futurePromises"`
}

func (v InvalidSignals) Total() int {
	return v.Compliments + v.Generalities + v.FuturePromises
}

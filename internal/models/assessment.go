// internal/models/assessment.go
package models

import "time"

// AssessmentRecord is one persisted maturity assessment. Records are append-only.
type AssessmentRecord struct {
	ID             string              `json:"id"`
	IdeaID         string              `json:"ideaId"`
	UserID         string              `json:"userId"`
	SessionID      string              `json:"sessionId"`
	Result         MaturityScoreResult `json:"result"`
	WorkshopAccess WorkshopAccess      `json:"workshopAccess"`
	CreatedAt      time.Time           `json:"createdAt"`
}

type AdmissionRecord struct {
	ID        string          `json:"id"`
	IdeaID    string          `json:"ideaId,omitempty"`
	UserID    string          `json:"userId,omitempty"`
	Result    AdmissionResult `json:"result"`
	CreatedAt time.Time       `json:"createdAt"`
}

type AssessmentStats struct {
	Total             int                   `json:"total"`
	Unlocked          int                   `json:"unlocked"`
	UnlockRate        float64               `json:"unlockRate"`
	AvgScore          float64               `json:"avgScore"`
	LevelDistribution map[MaturityLevel]int `json:"levelDistribution"`
}

// MaturityRequest is the input of one maturity assessment.
type MaturityRequest struct {
	IdeaID    string              `json:"ideaId"`
	UserID    string              `json:"userId"`
	SessionID string              `json:"sessionId"`
	Messages  []DiscussionMessage `json:"messages"`
	Bids      map[string]float64  `json:"bids"`
}

// MaturityAssessment is what callers get back from an assessment.
type MaturityAssessment struct {
	AssessmentID     string              `json:"assessmentId,omitempty"`
	Result           MaturityScoreResult `json:"result"`
	WorkshopAccess   WorkshopAccess      `json:"workshopAccess"`
	PersistenceError string              `json:"persistenceError,omitempty"`
}

// AdmissionRequest is the input of one admission check.
type AdmissionRequest struct {
	IdeaID string `json:"ideaId,omitempty"`
	UserID string `json:"userId,omitempty"`
	Text   string `json:"text"`
}

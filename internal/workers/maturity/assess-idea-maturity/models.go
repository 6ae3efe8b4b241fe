// internal/workers/maturity/assess-idea-maturity/models.go
package assessideamaturity

import "idea-scoring/internal/models"

type Input = models.MaturityRequest

// Output is completed onto the process instance. The flat fields feed
// gateway conditions; the nested ones carry the full assessment.
type Output struct {
	AssessmentID     string                     `json:"assessmentId,omitempty"`
	TotalScore       float64                    `json:"totalScore"`
	MaturityLevel    models.MaturityLevel       `json:"maturityLevel"`
	WorkshopUnlocked bool                       `json:"workshopUnlocked"`
	Result           models.MaturityScoreResult `json:"maturityResult"`
	WorkshopAccess   models.WorkshopAccess      `json:"workshopAccess"`
	PersistenceError string                     `json:"persistenceError,omitempty"`
}

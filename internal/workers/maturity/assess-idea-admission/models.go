// internal/workers/maturity/assess-idea-admission/models.go
package assessideaadmission

import "idea-scoring/internal/models"

type Input = models.AdmissionRequest

type Output struct {
	AdmissionScore     int                    `json:"admissionScore"`
	AdmissionVerdict   models.Verdict         `json:"admissionVerdict"`
	IsWillingToDiscuss bool                   `json:"isWillingToDiscuss"`
	Admission          models.AdmissionResult `json:"admission"`
}

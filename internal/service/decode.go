// internal/service/decode.go
package service

import (
	"encoding/json"

	"idea-scoring/internal/common/errors"
	"idea-scoring/internal/common/validation"
	"idea-scoring/internal/models"
)

const (
	TaskAdmission = "assess-idea-admission"
	TaskMaturity  = "assess-idea-maturity"
)

// Decoder turns raw job variables or request bodies into typed requests,
// rejecting anything that fails the registered input schema.
type Decoder struct {
	validator *validation.Validator
}

func NewDecoder(v *validation.Validator) *Decoder {
	return &Decoder{validator: v}
}

func (d *Decoder) DecodeAdmission(raw []byte) (*models.AdmissionRequest, error) {
	var req models.AdmissionRequest
	if err := d.decode(TaskAdmission, raw, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (d *Decoder) DecodeMaturity(raw []byte) (*models.MaturityRequest, error) {
	var req models.MaturityRequest
	if err := d.decode(TaskMaturity, raw, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (d *Decoder) decode(taskType string, raw []byte, out interface{}) error {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return errors.NewParseError(err)
	}
	if result := d.validator.ValidateTask(taskType, doc); !result.Valid {
		return errors.NewInputValidationError(result.Error()).
			WithMetadata("fields", result.GetErrorMessages())
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.NewParseError(err)
	}
	return nil
}

// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"idea-scoring/pkg/registry"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Validator checks task inputs against the input schemas of the activity registry.
type Validator struct {
	schemas map[string]*gojsonschema.Schema
}

// NewValidator compiles every input schema in reg once.
func NewValidator(reg *registry.ActivityRegistry) (*Validator, error) {
	v := &Validator{schemas: make(map[string]*gojsonschema.Schema, len(reg.Activities))}
	for _, act := range reg.Activities {
		if len(act.InputSchema) == 0 {
			continue
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(act.InputSchema))
		if err != nil {
			return nil, fmt.Errorf("compile input schema for %s: %w", act.TaskType, err)
		}
		v.schemas[act.TaskType] = schema
	}
	return v, nil
}

// NewDefaultValidator builds a Validator from the embedded registry.
func NewDefaultValidator() (*Validator, error) {
	reg, err := registry.Default()
	if err != nil {
		return nil, err
	}
	return NewValidator(reg)
}

// ValidateTask validates input for taskType. Unknown task types pass.
func (v *Validator) ValidateTask(taskType string, input interface{}) *ValidationResult {
	schema, ok := v.schemas[taskType]
	if !ok {
		return &ValidationResult{Valid: true}
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(input))
	if err != nil {
		return &ValidationResult{Errors: []ValidationError{{
			Field:   "(root)",
			Message: err.Error(),
			Code:    "INVALID_DOCUMENT",
		}}}
	}
	if result.Valid() {
		return &ValidationResult{Valid: true}
	}

	out := &ValidationResult{}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   fieldOf(desc),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return out
}

func fieldOf(desc gojsonschema.ResultError) string {
	field := desc.Field()
	if desc.Type() != "required" {
		return field
	}
	prop, _ := desc.Details()["property"].(string)
	if field == "(root)" || field == "" {
		return prop
	}
	return field + "." + prop
}

func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// Error joins every message; handy as StandardError details.
func (vr *ValidationResult) Error() string {
	return strings.Join(vr.GetErrorMessages(), "; ")
}

func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") {
			return true
		}
	}
	return false
}

var activityNaming = regexp.MustCompile(`^[a-z]+\.[a-z]+\.[a-z]+$`)

// ValidateActivityNaming checks the domain.subdomain.action id convention.
func ValidateActivityNaming(activityID string) error {
	if !activityNaming.MatchString(activityID) {
		return fmt.Errorf("activity ID must follow format: domain.subdomain.action (e.g., idea.maturity.assess)")
	}
	return nil
}

// internal/common/errors/errors.go
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type ErrorCode string

const (
	ErrCodeInputValidationFailed ErrorCode = "INPUT_VALIDATION_FAILED"
	ErrCodeParseError            ErrorCode = "PARSE_ERROR"
	ErrCodeScoringFailed         ErrorCode = "SCORING_FAILED"

	ErrCodeConfigInvalid          ErrorCode = "CONFIG_INVALID"
	ErrCodeConfigNotFound         ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigStoreUnavailable ErrorCode = "CONFIG_STORE_UNAVAILABLE"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeAssessmentNotFound       ErrorCode = "ASSESSMENT_NOT_FOUND"

	ErrCodeIndexFailed ErrorCode = "INDEX_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata attaches a key/value pair and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

func NewInputValidationError(details string) *StandardError {
	return newError(ErrCodeInputValidationFailed, "Input validation failed", details, false)
}

func NewParseError(err error) *StandardError {
	return newError(ErrCodeParseError, "Failed to parse job variables", err.Error(), false)
}

func NewScoringFailedError(details string) *StandardError {
	return newError(ErrCodeScoringFailed, "Scoring did not complete", details, true)
}

func NewConfigInvalidError(details string) *StandardError {
	return newError(ErrCodeConfigInvalid, "Weight configuration is invalid", details, false)
}

func NewConfigNotFoundError(version string) *StandardError {
	return newError(ErrCodeConfigNotFound, "Weight configuration version not found", fmt.Sprintf("version: %s", version), false)
}

func NewConfigStoreUnavailableError(err error) *StandardError {
	return newError(ErrCodeConfigStoreUnavailable, "Weight configuration store unavailable", err.Error(), true)
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err.Error(), true)
}

func NewDatabaseInsertFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseInsertFailed, "Database insert operation failed", err.Error(), true)
}

func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return newError(ErrCodeQueryExecutionFailed, "Database query execution error",
		fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()), true)
}

func NewAssessmentNotFoundError(ideaID string) *StandardError {
	return newError(ErrCodeAssessmentNotFound, "No assessment found", fmt.Sprintf("ideaId: %s", ideaID), false)
}

func NewIndexFailedError(index string, err error) *StandardError {
	return newError(ErrCodeIndexFailed, "Elasticsearch indexing failed",
		fmt.Sprintf("index: %s, error: %s", index, err.Error()), true)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

// AsStandard returns err as a StandardError, wrapping unknown errors as internal.
func AsStandard(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInputValidationFailed:    "INPUT_VALIDATION_FAILED",
	ErrCodeParseError:               "PARSE_ERROR",
	ErrCodeScoringFailed:            "SCORING_FAILED",
	ErrCodeConfigInvalid:            "CONFIG_INVALID",
	ErrCodeConfigNotFound:           "CONFIG_NOT_FOUND",
	ErrCodeConfigStoreUnavailable:   "CONFIG_STORE_UNAVAILABLE",
	ErrCodeDatabaseConnectionFailed: "DATABASE_CONNECTION_FAILED",
	ErrCodeDatabaseInsertFailed:     "DATABASE_INSERT_FAILED",
	ErrCodeQueryExecutionFailed:     "QUERY_EXECUTION_FAILED",
	ErrCodeAssessmentNotFound:       "ASSESSMENT_NOT_FOUND",
	ErrCodeIndexFailed:              "INDEX_FAILED",
}

func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeConfigStoreUnavailable:
		return 3

	case ErrCodeScoringFailed,
		ErrCodeIndexFailed:
		return 2

	default:
		return 0 // Business errors: no retry
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// HTTPStatus maps an error code to the status the API answers with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInputValidationFailed, ErrCodeParseError, ErrCodeConfigInvalid:
		return http.StatusBadRequest
	case ErrCodeAssessmentNotFound, ErrCodeConfigNotFound:
		return http.StatusNotFound
	case ErrCodeConfigStoreUnavailable, ErrCodeDatabaseConnectionFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "CONFIG"):
		return "CONFIG"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY") || strings.Contains(codeStr, "ASSESSMENT"):
		return "DATABASE"
	case strings.Contains(codeStr, "INDEX"):
		return "SEARCH"
	case strings.Contains(codeStr, "SCORING"):
		return "SCORING"
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "PARSE"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}

// internal/common/errors/errors_test.go
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name        string
		err         *StandardError
		wantCode    string
		wantRetries int
	}{
		{name: "validation never retries", err: NewInputValidationError("messages must be an array"), wantCode: "INPUT_VALIDATION_FAILED", wantRetries: 0},
		{name: "insert retries", err: NewDatabaseInsertFailedError(fmt.Errorf("conn reset")), wantCode: "DATABASE_INSERT_FAILED", wantRetries: 3},
		{name: "index retries twice", err: NewIndexFailedError("maturity-assessments", fmt.Errorf("503")), wantCode: "INDEX_FAILED", wantRetries: 2},
		{name: "unknown code falls through", err: &StandardError{Code: "SOMETHING_ELSE", Retryable: true}, wantCode: "SOMETHING_ELSE", wantRetries: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmn := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.wantCode, bpmn.Code)
			assert.Equal(t, tt.wantRetries, bpmn.Retries)

			vars := bpmn.ToErrorVariables()
			assert.Equal(t, tt.wantCode, vars["errorCode"])
			assert.Equal(t, string(tt.err.Code), vars["originalErrorCode"])
		})
	}
}

func TestAsStandard(t *testing.T) {
	orig := NewAssessmentNotFoundError("idea-1")
	wrapped := fmt.Errorf("loading latest: %w", orig)
	assert.Same(t, orig, AsStandard(wrapped))

	other := AsStandard(stderrors.New("boom"))
	assert.Equal(t, ErrCodeInternal, other.Code)
	assert.Equal(t, "boom", other.Details)
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(ErrCodeInputValidationFailed))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(ErrCodeConfigInvalid))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(ErrCodeAssessmentNotFound))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(ErrCodeConfigStoreUnavailable))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(ErrCodeDatabaseInsertFailed))
}

func TestWithMetadata(t *testing.T) {
	err := NewConfigNotFoundError("9.9.9").WithMetadata("caller", "admin")
	assert.Equal(t, "admin", err.Metadata["caller"])
	assert.Equal(t, "CONFIG", GetErrorCategory(err.Code))
}

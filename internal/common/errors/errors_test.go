package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *StandardError
		code     ErrorCode
		status   int
		isClient bool
	}{
		{"validation failed", NewPolicyValidationFailedError("constructionYear: value must be >= 1800"), ErrCodePolicyValidationFailed, http.StatusBadRequest, true},
		{"malformed payload", NewMalformedPayloadError(errors.New("unexpected EOF")), ErrCodeMalformedPayload, http.StatusBadRequest, true},
		{"analysis not found", NewAnalysisNotFoundError("abc-123"), ErrCodeAnalysisNotFound, http.StatusNotFound, true},
		{"storage insert failed", NewStorageInsertFailedError(errors.New("connection refused")), ErrCodeStorageInsertFailed, http.StatusInternalServerError, false},
		{"storage query failed", NewStorageQueryFailedError(errors.New("connection refused")), ErrCodeStorageQueryFailed, http.StatusInternalServerError, false},
		{"internal", NewInternalError(errors.New("boom")), ErrCodeInternal, http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.False(t, tt.err.Timestamp.IsZero())
			assert.Equal(t, tt.status, HTTPStatus(tt.err.Code))
			assert.Equal(t, tt.isClient, IsClientError(tt.err.Code))
		})
	}
}

func TestStandardError_Error(t *testing.T) {
	err := NewAnalysisNotFoundError("abc-123")

	assert.Equal(t, "StandardError[ANALYSIS_NOT_FOUND]: Policy analysis not found", err.Error())
	assert.Contains(t, err.Details, "abc-123")
}

func TestHTTPStatus_UnknownCode(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(ErrorCode("NO_SUCH_CODE")))
}

func TestAsStandardError(t *testing.T) {
	original := NewStorageQueryFailedError(errors.New("timeout"))
	wrapped := fmt.Errorf("handling request: %w", original)

	extracted := AsStandardError(wrapped)
	require.NotNil(t, extracted)
	assert.Equal(t, ErrCodeStorageQueryFailed, extracted.Code)

	converted := AsStandardError(errors.New("plain failure"))
	assert.Equal(t, ErrCodeInternal, converted.Code)
	assert.Equal(t, "plain failure", converted.Details)
}

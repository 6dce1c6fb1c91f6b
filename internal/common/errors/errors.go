// Package errors provides the standardized error taxonomy shared by the
// screening engine, the REST client and the Zeebe workers.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Authentication
	ErrCodeAuthenticationMissing ErrorCode = "AUTHENTICATION_MISSING"

	// Remote API
	ErrCodeAPIRequestFailed  ErrorCode = "API_REQUEST_FAILED"
	ErrCodeMalformedResponse ErrorCode = "MALFORMED_RESPONSE"

	// Validation (raised before any network call)
	ErrCodeValidationFailed         ErrorCode = "VALIDATION_FAILED"
	ErrCodeNoApplicationsSelected   ErrorCode = "NO_APPLICATIONS_SELECTED"
	ErrCodeQuestionValidationFailed ErrorCode = "QUESTION_VALIDATION_FAILED"
	ErrCodeInvalidFilterFormat      ErrorCode = "INVALID_FILTER_FORMAT"
	ErrCodeInvalidStatus            ErrorCode = "INVALID_STATUS"

	// Infrastructure
	ErrCodeDatabaseInsertFailed   ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeQueryExecutionFailed   ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeCacheUnavailable       ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeSearchIndexFailed      ErrorCode = "SEARCH_INDEX_FAILED"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeFixtureLoadFailed      ErrorCode = "FIXTURE_LOAD_FAILED"
	ErrCodeEngineUnavailable      ErrorCode = "ENGINE_UNAVAILABLE"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Sentinels for errors.Is checks; StandardError.Is matches on Code.
var (
	ErrAuthenticationMissing  = &StandardError{Code: ErrCodeAuthenticationMissing}
	ErrAPIRequestFailed       = &StandardError{Code: ErrCodeAPIRequestFailed}
	ErrMalformedResponse      = &StandardError{Code: ErrCodeMalformedResponse}
	ErrValidationFailed       = &StandardError{Code: ErrCodeValidationFailed}
	ErrNoApplicationsSelected = &StandardError{Code: ErrCodeNoApplicationsSelected}
	ErrQuestionValidation     = &StandardError{Code: ErrCodeQuestionValidationFailed}
	ErrInvalidFilterFormat    = &StandardError{Code: ErrCodeInvalidFilterFormat}
	ErrInvalidStatus          = &StandardError{Code: ErrCodeInvalidStatus}
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Is reports whether target is a StandardError with the same code.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithMetadata returns e with key set in its metadata.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
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

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
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

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuthenticationMissingError signals that no bearer token is available and the user must log in.
func NewAuthenticationMissingError(details string) *StandardError {
	return newError(ErrCodeAuthenticationMissing, "Authentication required, please log in", details, false)
}

// NewAPIRequestFailedError wraps a non-2xx response or transport failure.
// 5xx and transport failures (status 0) are retryable.
func NewAPIRequestFailedError(method, path string, status int, details string) *StandardError {
	e := newError(
		ErrCodeAPIRequestFailed,
		fmt.Sprintf("Request %s %s failed", method, path),
		details,
		status == 0 || status >= 500,
	)
	return e.WithMetadata("status", status)
}

// NewMalformedResponseError reports a body that could not be decoded.
func NewMalformedResponseError(path string, err error) *StandardError {
	return newError(ErrCodeMalformedResponse, "Malformed response body", fmt.Sprintf("path: %s, error: %v", path, err), false)
}

// NewValidationError creates a non-retryable input validation error.
func NewValidationError(message, details string) *StandardError {
	return newError(ErrCodeValidationFailed, message, details, false)
}

// NewNoApplicationsSelectedError is raised by bulk actions given an empty selection.
func NewNoApplicationsSelectedError() *StandardError {
	return newError(ErrCodeNoApplicationsSelected, "Please select at least one application", "", false)
}

// NewQuestionValidationError reports schema violations in a screening question payload.
func NewQuestionValidationError(details string) *StandardError {
	return newError(ErrCodeQuestionValidationFailed, "Screening question is invalid", details, false)
}

// NewInvalidFilterFormatError creates a non-retryable filter format error.
func NewInvalidFilterFormatError(details string) *StandardError {
	return newError(ErrCodeInvalidFilterFormat, "Invalid filter format", details, false)
}

// NewInvalidStatusError reports an unknown application status.
func NewInvalidStatusError(status string) *StandardError {
	return newError(ErrCodeInvalidStatus, "Unknown application status", fmt.Sprintf("status: %q", status), false)
}

// NewDatabaseInsertFailedError creates a retryable database insert error.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseInsertFailed, "Database insert operation failed", err.Error(), true)
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return newError(ErrCodeQueryExecutionFailed, "Database query execution error",
		fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()), true)
}

// NewCacheUnavailableError is logged when the question cache cannot be reached.
func NewCacheUnavailableError(err error) *StandardError {
	return newError(ErrCodeCacheUnavailable, "Question cache unavailable", err.Error(), true)
}

// NewSearchIndexFailedError creates a retryable Elasticsearch indexing error.
func NewSearchIndexFailedError(index string, err error) *StandardError {
	return newError(ErrCodeSearchIndexFailed, "Search index operation failed",
		fmt.Sprintf("index: %s, error: %v", index, err), true)
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Notification delivery failed",
		fmt.Sprintf("channel: %s, error: %s", channel, err.Error()), true)
}

// NewFixtureLoadFailedError reports an unreadable fixture data file.
func NewFixtureLoadFailedError(path string, err error) *StandardError {
	return newError(ErrCodeFixtureLoadFailed, "Fixture data could not be loaded",
		fmt.Sprintf("path: %s, error: %v", path, err), false)
}

// NewEngineUnavailableError wraps a failed Zeebe gateway call.
func NewEngineUnavailableError(operation string, err error, retryable bool) *StandardError {
	return newError(ErrCodeEngineUnavailable, "Workflow engine call failed",
		fmt.Sprintf("operation: %s, error: %v", operation, err), retryable)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// GetRetryCount returns the recommended Zeebe retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeAPIRequestFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeSearchIndexFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeEngineUnavailable:
		return 3
	case ErrCodeCacheUnavailable:
		return 1
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      string(stdErr.Code),
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

// ==========================
// 5. Utility Functions
// ==========================

// AsStandard extracts a StandardError from err's chain, wrapping unknown errors as INTERNAL_ERROR.
func AsStandard(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

// Notice renders the user-visible transient message for err.
func Notice(err error) string {
	if err == nil {
		return ""
	}
	stdErr := AsStandard(err)
	switch stdErr.Code {
	case ErrCodeAuthenticationMissing:
		return "Your session has expired. Please log in again."
	case ErrCodeAPIRequestFailed:
		return "The request could not be completed. Please try again."
	case ErrCodeInternal:
		return "Something went wrong."
	default:
		return stdErr.Message
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "AUTHENTICATION"):
		return "AUTH"
	case strings.Contains(codeStr, "API") || strings.Contains(codeStr, "RESPONSE"):
		return "REMOTE"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "ENGINE"):
		return "WORKFLOW"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION") ||
		strings.Contains(codeStr, "SELECTED"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}

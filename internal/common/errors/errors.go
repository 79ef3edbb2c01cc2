// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes. Worker packages
// declare sentinels whose message is exactly one of these codes.
type ErrorCode string

const (
	ErrCodeSubmissionParseFailed      ErrorCode = "SUBMISSION_PARSE_FAILED"
	ErrCodeSubmissionNotFound         ErrorCode = "SUBMISSION_NOT_FOUND"
	ErrCodeSubmissionValidationFailed ErrorCode = "SUBMISSION_VALIDATION_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"

	ErrCodeIndexFailed   ErrorCode = "INDEX_FAILED"
	ErrCodeIndexNotFound ErrorCode = "INDEX_NOT_FOUND"

	ErrCodeSearchQueryFailed ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout     ErrorCode = "SEARCH_TIMEOUT"

	ErrCodeStageGateViolation ErrorCode = "STAGE_GATE_VIOLATION"
	ErrCodeRulesInvalid       ErrorCode = "RULES_INVALID"
	ErrCodeEvaluationFailed   ErrorCode = "EVALUATION_FAILED"

	ErrCodeSuggestionFailed  ErrorCode = "SUGGESTION_FAILED"
	ErrCodeSuggestionTimeout ErrorCode = "SUGGESTION_TIMEOUT"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

type codeSpec struct {
	message string
	retries int
}

// codeSpecs holds the default message and recommended retry count per code.
// Zero retries means a business error that goes straight to the BPMN
// boundary event.
var codeSpecs = map[ErrorCode]codeSpec{
	ErrCodeSubmissionParseFailed:      {"Submission payload could not be parsed", 0},
	ErrCodeSubmissionNotFound:         {"Submission not found", 0},
	ErrCodeSubmissionValidationFailed: {"Submission failed schema validation", 0},
	ErrCodeDatabaseConnectionFailed:   {"Database connection error", 3},
	ErrCodeQueryExecutionFailed:       {"Database query execution error", 3},
	ErrCodeQueryTimeout:               {"Database query timeout", 2},
	ErrCodeDatabaseInsertFailed:       {"Database insert error", 3},
	ErrCodeIndexFailed:                {"Search indexing error", 3},
	ErrCodeIndexNotFound:              {"Search index not found", 0},
	ErrCodeSearchQueryFailed:          {"Search query error", 3},
	ErrCodeSearchTimeout:              {"Search query timeout", 2},
	ErrCodeStageGateViolation:         {"Stage 2 requested for a submission that failed stage 1", 0},
	ErrCodeRulesInvalid:               {"Evaluation rules are invalid", 0},
	ErrCodeEvaluationFailed:           {"Evaluation failed", 1},
	ErrCodeSuggestionFailed:           {"Priority suggestion service error", 2},
	ErrCodeSuggestionTimeout:          {"Priority suggestion service timeout", 1},
	ErrCodeInternal:                   {"Unexpected error", 0},
}

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

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

// New builds a StandardError for code with its default message.
func New(code ErrorCode, details string) *StandardError {
	spec, ok := codeSpecs[code]
	if !ok {
		spec = codeSpecs[ErrCodeInternal]
	}
	return &StandardError{
		Code:      code,
		Message:   spec.message,
		Details:   details,
		Retryable: spec.retries > 0,
		Timestamp: time.Now().UTC(),
	}
}

// FromError normalizes any error into a StandardError. The wrap chain is
// searched for a StandardError or a sentinel whose text is a known code;
// anything else becomes INTERNAL_ERROR.
func FromError(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		code := ErrorCode(e.Error())
		if _, ok := codeSpecs[code]; ok {
			out := New(code, err.Error())
			out.cause = err
			return out
		}
	}
	out := New(ErrCodeInternal, err.Error())
	out.cause = err
	return out
}

// IsKnownCode reports whether code is one of the declared error codes.
func IsKnownCode(code ErrorCode) bool {
	_, ok := codeSpecs[code]
	return ok
}

// GetRetryCount returns the recommended retry count for code.
func GetRetryCount(code ErrorCode) int {
	return codeSpecs[code].retries
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
// BPMN codes are identical to the internal ones.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory groups codes for dashboards and log filtering.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "SUBMISSION"):
		return "SUBMISSION"
	case strings.HasPrefix(codeStr, "INDEX") || strings.HasPrefix(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.HasPrefix(codeStr, "SUGGESTION"):
		return "AI"
	case code == ErrCodeStageGateViolation || code == ErrCodeRulesInvalid || code == ErrCodeEvaluationFailed:
		return "EVALUATION"
	default:
		return "OTHER"
	}
}

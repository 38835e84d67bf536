package models

import (
	"fmt"
	"strings"
)

// RejectionReason identifies why a raw VIN token failed validation
type RejectionReason string

const (
	// RejectionReasonBadLength means the normalized token is not 17 characters
	RejectionReasonBadLength RejectionReason = "bad_length"
	// RejectionReasonIllegalCharacter means the token contains a character
	// outside [A-HJ-NPR-Z0-9] (I, O and Q are never used in VINs)
	RejectionReasonIllegalCharacter RejectionReason = "illegal_character"
)

// ValidationError represents an error that occurred during VIN validation
type ValidationError struct {
	Raw    string
	Reason RejectionReason
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid VIN '%s': %s", e.Raw, e.Reason)
}

// NewValidationError creates a new ValidationError
func NewValidationError(raw string, reason RejectionReason) *ValidationError {
	return &ValidationError{
		Raw:    raw,
		Reason: reason,
	}
}

// LookupKind classifies how an upstream lookup failed
type LookupKind string

const (
	// LookupKindNetwork is a transport failure with no HTTP response
	LookupKindNetwork LookupKind = "network"
	// LookupKindUpstreamStatus is a non-2xx HTTP response
	LookupKindUpstreamStatus LookupKind = "upstream_status"
	// LookupKindMalformedResponse is a response that could not be parsed
	// into the expected shape
	LookupKindMalformedResponse LookupKind = "malformed_response"
)

// LookupError represents a failed call to one of the upstream services.
// Op names the call that failed ("decode", "recall_by_vin", "recall_by_ymm").
type LookupError struct {
	Op         string
	Kind       LookupKind
	StatusCode int
	Message    string
	Err        error
}

func (e *LookupError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s failed (%s): HTTP %d %s", e.Op, e.Kind, e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s failed (%s): %s (caused by: %v)", e.Op, e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed (%s): %s", e.Op, e.Kind, e.Message)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a LookupError for a transport failure
func NewNetworkError(op string, err error) *LookupError {
	return &LookupError{
		Op:      op,
		Kind:    LookupKindNetwork,
		Message: "network error",
		Err:     err,
	}
}

// NewUpstreamStatusError creates a LookupError for a non-2xx response
func NewUpstreamStatusError(op string, statusCode int, body string) *LookupError {
	return &LookupError{
		Op:         op,
		Kind:       LookupKindUpstreamStatus,
		StatusCode: statusCode,
		Message:    body,
	}
}

// NewMalformedResponseError creates a LookupError for an unparseable response
func NewMalformedResponseError(op, message string, err error) *LookupError {
	return &LookupError{
		Op:      op,
		Kind:    LookupKindMalformedResponse,
		Message: message,
		Err:     err,
	}
}

// RecallUnavailableError means the recall state for a VIN is unknown because
// every lookup strategy failed. It is distinct from a successful lookup that
// returned zero recalls.
type RecallUnavailableError struct {
	ByVin           *LookupError
	ByYearMakeModel *LookupError // nil when the fallback was never attempted
}

func (e *RecallUnavailableError) Error() string {
	if e.ByYearMakeModel == nil {
		return fmt.Sprintf("recall lookup unavailable: %v (no year/make/model fallback possible)", e.ByVin)
	}
	return fmt.Sprintf("recall lookup unavailable: %v; fallback: %v", e.ByVin, e.ByYearMakeModel)
}

// maxInvalidExamples bounds how many bad tokens an aggregated batch error names
const maxInvalidExamples = 5

// InvalidTokenError aggregates the batch tokens that failed VIN validation.
// It reports up to maxInvalidExamples examples plus a truncation indicator and
// never blocks processing of the valid tokens.
type InvalidTokenError struct {
	Examples []string
	Total    int
}

func (e *InvalidTokenError) Error() string {
	msg := fmt.Sprintf("%d invalid VIN token(s): %s", e.Total, strings.Join(e.Examples, ", "))
	if e.Total > len(e.Examples) {
		msg += fmt.Sprintf(" (and %d more)", e.Total-len(e.Examples))
	}
	return msg
}

// NewInvalidTokenError creates an InvalidTokenError from the full list of
// rejected tokens, or returns nil if the list is empty
func NewInvalidTokenError(tokens []string) *InvalidTokenError {
	if len(tokens) == 0 {
		return nil
	}
	examples := tokens
	if len(examples) > maxInvalidExamples {
		examples = examples[:maxInvalidExamples]
	}
	return &InvalidTokenError{
		Examples: examples,
		Total:    len(tokens),
	}
}

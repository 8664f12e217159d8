// Package domainerrors provides code-carrying errors for the hackhub core.
//
// Services return these instead of bare errors so the HTTP layer can map
// every failure to a stable status code without string matching. Stores
// return sentinel errors (pkg/platform/sentinel) and services translate
// them into coded errors at the boundary.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies the class of a domain error.
type Code string

const (
	// CodeInvalidTransition marks an application or payment status change
	// that is not in the transition table.
	CodeInvalidTransition Code = "invalid_transition"
	// CodeInvalidScore marks a rating with a criterion score outside [0,10].
	CodeInvalidScore Code = "invalid_score"
	// CodeNotJudgeable marks a rating submitted for a team that is not shortlisted.
	CodeNotJudgeable Code = "team_not_judgeable"
	// CodePaymentNotApplicable marks a payment action on a team that is not shortlisted.
	CodePaymentNotApplicable Code = "payment_not_applicable"
	// CodeDependencyFailure marks a failed or timed-out call to a collaborator
	// (file storage, persistence, event sink). The only retryable class.
	CodeDependencyFailure Code = "dependency_failure"

	CodeBadRequest         Code = "bad_request"
	CodeValidation         Code = "validation_failed"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeForbidden          Code = "forbidden"
	CodeInvariantViolation Code = "invariant_violation"
	CodeInternal           Code = "internal_error"
)

// Error is the concrete domain error. Message is safe to return to callers;
// the wrapped cause is for logs only.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds a domain error with no underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and caller-safe message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is a readability alias for HasCode used at call sites that branch on codes.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf extracts the code from err, defaulting to CodeInternal for
// uncoded errors so transports never leak raw failures.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to its stable HTTP status. Invariant violations
// map to 500: they indicate a guard that should have fired earlier.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeInvalidTransition, CodeNotJudgeable, CodePaymentNotApplicable:
		return http.StatusConflict
	case CodeInvalidScore:
		return http.StatusUnprocessableEntity
	case CodeForbidden:
		return http.StatusForbidden
	case CodeDependencyFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

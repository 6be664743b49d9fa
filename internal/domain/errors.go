package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode classifies a domain error for transport mapping.
type ErrorCode string

const (
	CodeNotFound             ErrorCode = "NOT_FOUND"
	CodeValidation           ErrorCode = "VALIDATION"
	CodeConflict             ErrorCode = "CONFLICT"
	CodeInvalidState         ErrorCode = "INVALID_STATE_TRANSITION"
	CodeInsufficientCoverage ErrorCode = "INSUFFICIENT_INSURANCE_COVERAGE"
	CodeConcurrency          ErrorCode = "CONCURRENCY_CONFLICT"
	CodeForbidden            ErrorCode = "FORBIDDEN"
)

// Error is a typed domain error. Details carries itemized information for
// errors that list unmet requirements (e.g. insurance coverage gaps).
type Error struct {
	Code    ErrorCode
	Message string
	Details []string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Details, "; "))
	}
	return e.Message
}

// NewNotFoundError indicates the named entity does not exist.
func NewNotFoundError(entity, id string) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s %s not found", entity, id)}
}

// NewValidationError indicates malformed or out-of-range input.
func NewValidationError(message string) *Error {
	return &Error{Code: CodeValidation, Message: message}
}

// NewConflictError indicates the request collides with existing state,
// such as an equipment unit already booked for the requested range.
func NewConflictError(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

// NewInvalidStateError indicates an illegal status transition, naming the
// offending (from, to) pair.
func NewInvalidStateError(from, to string) *Error {
	return &Error{
		Code:    CodeInvalidState,
		Message: fmt.Sprintf("invalid state transition from %s to %s", from, to),
	}
}

// NewInsufficientCoverageError indicates the insurance gate failed. The
// missing requirements are carried so callers can render actionable guidance.
func NewInsufficientCoverageError(missing []string) *Error {
	return &Error{
		Code:    CodeInsufficientCoverage,
		Message: "insurance coverage requirements not met",
		Details: missing,
	}
}

// NewConcurrencyError indicates a serialization failure between concurrent
// writers. Callers may retry before surfacing it.
func NewConcurrencyError(message string) *Error {
	return &Error{Code: CodeConcurrency, Message: message}
}

// NewForbiddenError indicates the caller does not own the target resource.
func NewForbiddenError(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message}
}

// CodeOf returns the domain error code, or empty for non-domain errors.
func CodeOf(err error) ErrorCode {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsNotFound reports whether err is a not-found domain error.
func IsNotFound(err error) bool { return CodeOf(err) == CodeNotFound }

// IsConflict reports whether err is a conflict domain error.
func IsConflict(err error) bool { return CodeOf(err) == CodeConflict }

// IsConcurrency reports whether err is a concurrency-conflict domain error.
func IsConcurrency(err error) bool { return CodeOf(err) == CodeConcurrency }

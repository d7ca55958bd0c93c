package svcerr

import (
	"errors"
	"fmt"
)

// Error is a service-boundary failure carrying an HTTP-agnostic status code
// and a stable message. Services return these for every expected failure so
// handlers can translate them uniformly; anything else is a server error.
type Error struct {
	Status  int
	Code    string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches two service errors by code, so sentinels below work with
// errors.Is even after wrapping via WithCause.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

func (e *Error) WithCause(cause error) *Error {
	return &Error{Status: e.Status, Code: e.Code, Message: e.Message, cause: cause}
}

// WithMessage replaces the message verbatim. Use WithMessagef when the
// message needs formatting; this variant is safe for text that may itself
// contain printf verbs, such as upstream model output.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{Status: e.Status, Code: e.Code, Message: msg, cause: e.cause}
}

func (e *Error) WithMessagef(format string, args ...any) *Error {
	return &Error{Status: e.Status, Code: e.Code, Message: fmt.Sprintf(format, args...), cause: e.cause}
}

func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

var (
	ErrUserNotFound    = New(404, "user_not_found", "user not found")
	ErrProfileNotFound = New(404, "fitness_profile_not_found", "fitness profile not found")
	ErrPlanNotFound    = New(404, "workout_plan_not_found", "workout plan not found")
	ErrWorkoutNotFound = New(404, "workout_not_found", "no workout found")

	// Upstream model transport failures (network, auth, rate limit, timeout).
	// Retryable by the caller as a whole operation.
	ErrUpstream = New(502, "upstream_error", "workout generation service unavailable")

	// ErrNoJSON: the model replied but no JSON object could be located.
	ErrNoJSON = New(502, "no_json_object", "no JSON object found in model output")
	// ErrBadJSON: a JSON object was located but does not parse.
	ErrBadJSON = New(502, "malformed_json", "malformed JSON in model output")

	// ErrContract: the response parsed but violates the declared plan schema
	// (missing keys, wrong counts, duplicate dates or week numbers).
	ErrContract = New(502, "contract_violation", "model output violates the plan contract")

	ErrUnauthorized = New(401, "unauthorized", "unauthorized")
	ErrInvalidInput = New(400, "invalid_input", "invalid input")

	ErrInternal = New(500, "internal_error", "internal server error")
)

// Status returns the HTTP-agnostic status for any error, defaulting to 500
// for errors that did not come from the service layer.
func Status(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 500
}

// Code returns the stable machine code for an error, or "internal_error".
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return "internal_error"
}

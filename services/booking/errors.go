package booking

import (
	"errors"
	"fmt"

	"glowbook/models"
)

// Error is a coded domain error. Codes are stable and safe to surface to
// callers; none of them is transient, so callers never retry blindly (the one
// exception is SlotUnavailable, where re-querying availability is sensible).
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches any *Error with the same code, so sentinels below work with
// errors.Is regardless of the message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

const (
	CodeSlotUnavailable         = "SLOT_UNAVAILABLE"
	CodeInvalidTransition       = "INVALID_TRANSITION"
	CodeRescheduleLimitExceeded = "RESCHEDULE_LIMIT_EXCEEDED"
	CodeOutsideRescheduleWindow = "OUTSIDE_RESCHEDULE_WINDOW"
	CodeRequestAlreadyPending   = "REQUEST_ALREADY_PENDING"
	CodeNotFound                = "NOT_FOUND"
	CodeInvalidPolicyConfig     = "INVALID_POLICY_CONFIG"
	CodeInvalidInput            = "INVALID_INPUT"
)

// Sentinels for errors.Is checks.
var (
	ErrSlotUnavailable         = &Error{Code: CodeSlotUnavailable, Message: "requested slot is no longer available"}
	ErrInvalidTransition       = &Error{Code: CodeInvalidTransition, Message: "invalid booking state transition"}
	ErrRescheduleLimitExceeded = &Error{Code: CodeRescheduleLimitExceeded, Message: "reschedule limit reached"}
	ErrOutsideRescheduleWindow = &Error{Code: CodeOutsideRescheduleWindow, Message: "too close to the appointment to reschedule"}
	ErrRequestAlreadyPending   = &Error{Code: CodeRequestAlreadyPending, Message: "a reschedule request is already pending"}
	ErrNotFound                = &Error{Code: CodeNotFound, Message: "resource not found"}
	ErrInvalidPolicyConfig     = &Error{Code: CodeInvalidPolicyConfig, Message: "invalid policy configuration"}
)

// NewSlotUnavailable builds a SlotUnavailable error for a concrete interval.
func NewSlotUnavailable(date, hhmm string) *Error {
	return &Error{
		Code:    CodeSlotUnavailable,
		Message: fmt.Sprintf("slot %s %s is no longer available", date, hhmm),
	}
}

// NewInvalidTransition reports the current state and the attempted transition.
func NewInvalidTransition(current models.BookingStatus, attempted string) *Error {
	return &Error{
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("cannot %s a booking in state %s", attempted, current),
	}
}

// NewNotFound reports a missing entity by kind and id.
func NewNotFound(kind, id string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %s not found", kind, id),
	}
}

// NewInvalidInput flags a malformed request field.
func NewInvalidInput(msg string) *Error {
	return &Error{Code: CodeInvalidInput, Message: msg}
}

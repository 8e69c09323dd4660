package domain

import (
	"context"
	"errors"
	"fmt"
)

// ErrorCode is a stable identifier returned to callers in every error response.
type ErrorCode string

const (
	CodeUnauthorized         ErrorCode = "Unauthorized"
	CodeForbidden            ErrorCode = "Forbidden"
	CodeNotFound             ErrorCode = "NotFound"
	CodeUnknownConsultant    ErrorCode = "UnknownConsultant"
	CodeInvalidInput         ErrorCode = "InvalidInput"
	CodeInvalidTimezone      ErrorCode = "InvalidTimezone"
	CodeInvalidDuration      ErrorCode = "InvalidDuration"
	CodeInvalidTransition    ErrorCode = "InvalidTransition"
	CodePriceOutOfBand       ErrorCode = "PriceOutOfBand"
	CodeTemplateMismatch     ErrorCode = "TemplateMismatch"
	CodeNotPriced            ErrorCode = "NotPriced"
	CodeOutsideAvailability  ErrorCode = "OutsideAvailability"
	CodeBlocked              ErrorCode = "Blocked"
	CodeConflict             ErrorCode = "Conflict"
	CodeAmbiguousLocalTime   ErrorCode = "AmbiguousLocalTime"
	CodeNonexistentLocalTime ErrorCode = "NonexistentLocalTime"
	CodeDeadlineExceeded     ErrorCode = "DeadlineExceeded"
	CodeInternal             ErrorCode = "Internal"
)

// Error is a domain error kind with a human-readable default message.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any domain error of the same kind, so a package-specific
// error such as "booking not found" still satisfies errors.Is(err, ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// NewError creates a kind-specific error with its own message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

var (
	ErrUnauthorized         = &Error{Code: CodeUnauthorized, Message: "authentication required"}
	ErrForbidden            = &Error{Code: CodeForbidden, Message: "access denied"}
	ErrNotFound             = &Error{Code: CodeNotFound, Message: "resource not found"}
	ErrUnknownConsultant    = &Error{Code: CodeUnknownConsultant, Message: "consultant not found"}
	ErrInvalidInput         = &Error{Code: CodeInvalidInput, Message: "invalid input"}
	ErrInvalidTimezone      = &Error{Code: CodeInvalidTimezone, Message: "unknown IANA timezone"}
	ErrInvalidDuration      = &Error{Code: CodeInvalidDuration, Message: "duration must be a multiple of 15 minutes between 15 and 240"}
	ErrInvalidTransition    = &Error{Code: CodeInvalidTransition, Message: "booking status does not allow this action"}
	ErrPriceOutOfBand       = &Error{Code: CodePriceOutOfBand, Message: "price is outside the allowed band"}
	ErrTemplateMismatch     = &Error{Code: CodeTemplateMismatch, Message: "duration option does not belong to the service template"}
	ErrNotPriced            = &Error{Code: CodeNotPriced, Message: "service is not priced for this duration"}
	ErrOutsideAvailability  = &Error{Code: CodeOutsideAvailability, Message: "requested time is outside the consultant's availability"}
	ErrBlocked              = &Error{Code: CodeBlocked, Message: "requested time is blocked by the consultant"}
	ErrConflict             = &Error{Code: CodeConflict, Message: "requested time conflicts with another booking"}
	ErrAmbiguousLocalTime   = &Error{Code: CodeAmbiguousLocalTime, Message: "local time is ambiguous"}
	ErrNonexistentLocalTime = &Error{Code: CodeNonexistentLocalTime, Message: "local time does not exist"}
	ErrDeadlineExceeded     = &Error{Code: CodeDeadlineExceeded, Message: "request deadline exceeded"}
	ErrInternal             = &Error{Code: CodeInternal, Message: "internal error"}
)

// CodeOf returns the stable code of err. Unknown errors are Internal.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return CodeDeadlineExceeded
	}
	return CodeInternal
}

// MessageOf returns the user-facing message of err.
// Internal errors never leak their details.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) && de.Code != CodeInternal {
		return de.Message
	}
	if CodeOf(err) == CodeDeadlineExceeded {
		return ErrDeadlineExceeded.Message
	}
	return ErrInternal.Message
}

// ContextError возвращает DeadlineExceeded, если контекст уже завершен
func ContextError(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrDeadlineExceeded, err)
	}
	return nil
}

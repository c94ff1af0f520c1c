// Package apierr defines the error kinds the core surfaces to callers.
//
// The HTTP layer in internal/api translates a Kind into a status code, but
// the core itself never imports net/http.
package apierr

import "fmt"

// Kind identifies the broad category of a core-raised error.
type Kind string

const (
	KindInvalidArgument    Kind = "invalid_argument"
	KindNotFound           Kind = "not_found"
	KindConflict           Kind = "conflict"
	KindPayloadTooLarge    Kind = "payload_too_large"
	KindResourceExhausted  Kind = "resource_exhausted"
	KindFailedPrecondition Kind = "failed_precondition"
	KindRequestTimeout     Kind = "request_timeout"
	KindInternal           Kind = "internal"
)

// Error is the typed error returned across core package boundaries.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func newErr(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func InvalidArgument(message string) *Error    { return newErr(KindInvalidArgument, message) }
func NotFound(message string) *Error           { return newErr(KindNotFound, message) }
func Conflict(message string) *Error           { return newErr(KindConflict, message) }
func PayloadTooLarge(message string) *Error    { return newErr(KindPayloadTooLarge, message) }
func ResourceExhausted(message string) *Error  { return newErr(KindResourceExhausted, message) }
func FailedPrecondition(message string) *Error { return newErr(KindFailedPrecondition, message) }
func RequestTimeout(message string) *Error     { return newErr(KindRequestTimeout, message) }

func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, cause: cause}
}

// Wrap attaches a kind to an underlying error, preserving it for errors.Is/As.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

package apperr

import "fmt"

// Kind classifies an error for the HTTP layer.
type Kind string

const (
	KindValidation Kind = "validation_error"
	KindDomain     Kind = "domain_error"
	KindPolicy     Kind = "policy_error"
	KindInternal   Kind = "internal_error"
)

// Error is the application error carried from the formula, quiz and guard
// packages up to the HTTP handlers.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error with the same code, so package-level sentinels
// can be compared with errors.Is regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// Validation reports a missing or malformed request field.
func Validation(code, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

// Domain reports input that is well-formed but mathematically unusable.
func Domain(code, message string) *Error {
	return &Error{Kind: KindDomain, Code: code, Message: message}
}

// Policy reports a request rejected by the guard.
func Policy(code, message string) *Error {
	return &Error{Kind: KindPolicy, Code: code, Message: message}
}

// Internal wraps an unexpected failure.
func Internal(err error, message string) *Error {
	return &Error{Kind: KindInternal, Code: "internal_error", Message: message, Err: err}
}

// Headline returns the short title used in the "error" field of responses.
func (k Kind) Headline() string {
	switch k {
	case KindValidation:
		return "Invalid input"
	case KindDomain:
		return "Invalid computation"
	case KindPolicy:
		return "Request denied"
	default:
		return "Internal server error"
	}
}

package rest

import "fmt"

// ErrorType represents the category of hosting API failure.
type ErrorType int

const (
	ErrTypeAuthentication ErrorType = iota
	ErrTypeRateLimit
	ErrTypeServiceUnavailable
	ErrTypeInvalidRequest
	ErrTypeNotFound
	ErrTypeTimeout
	ErrTypeUnknown
)

// String returns a human-readable description of the error type.
func (e ErrorType) String() string {
	switch e {
	case ErrTypeAuthentication:
		return "authentication error"
	case ErrTypeRateLimit:
		return "rate limit exceeded"
	case ErrTypeServiceUnavailable:
		return "service unavailable"
	case ErrTypeInvalidRequest:
		return "invalid request"
	case ErrTypeNotFound:
		return "not found"
	case ErrTypeTimeout:
		return "timeout"
	default:
		return "unknown error"
	}
}

// Error represents a hosting API error with retry context. All network and
// authorization failures from the adapter layer surface as this one type;
// the engine itself never raises it.
type Error struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Retryable  bool
	Host       string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s (status: %d)", e.Host, e.Type.String(), e.Message, e.StatusCode)
}

// Is implements error equality checking for errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// IsRetryable returns true if the error is retryable.
func (e *Error) IsRetryable() bool {
	return e.Retryable
}

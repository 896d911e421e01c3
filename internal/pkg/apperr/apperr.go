package apperr

import "errors"

// Kind classifies an error independently of its user-facing message, so
// callers branch on kind instead of comparing localized strings.
type Kind int

const (
	Internal Kind = iota
	Validation
	Forbidden
	NotFound
	Conflict
	Upstream
)

// Error carries a kind plus the Arabic user-facing message. Err (optional)
// keeps the underlying cause for logs; it is never sent to clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a cause to a kinded error.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// KindOf returns the kind of err, or Internal when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// StatusCode maps a kind to the HTTP status the envelope is sent with.
func StatusCode(err error) int {
	switch KindOf(err) {
	case Validation:
		return 400
	case Forbidden:
		return 403
	case NotFound:
		return 404
	case Conflict:
		return 409
	case Upstream:
		return 502
	default:
		return 500
	}
}

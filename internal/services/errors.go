package services

import (
	"errors"

	"github.com/franciscosanchezn/docky-api/internal/models"
)

// Kind classifies a service failure. Controllers map kinds to status codes.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuth
	KindForbidden
	KindConflict
	KindNotFound
	KindDeadlineExpired
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindDeadlineExpired:
		return "deadline_expired"
	default:
		return "internal"
	}
}

// Error is returned by every service operation that fails.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrForbidden) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Message == "" && t.Kind == e.Kind
}

// Kind sentinels for errors.Is
var (
	ErrValidation      = &Error{Kind: KindValidation}
	ErrAuth            = &Error{Kind: KindAuth}
	ErrForbidden       = &Error{Kind: KindForbidden}
	ErrConflict        = &Error{Kind: KindConflict}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrDeadlineExpired = &Error{Kind: KindDeadlineExpired}
	ErrInternal        = &Error{Kind: KindInternal}
)

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Code: models.ErrValidationFailed, Message: message}
}

func AuthFailed(message string) *Error {
	return &Error{Kind: KindAuth, Code: models.ErrUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Code: models.ErrForbidden, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Code: models.ErrConflict, Message: message}
}

func NotFound(code, message string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

func DeadlineExpired(message string) *Error {
	return &Error{Kind: KindDeadlineExpired, Code: models.ErrDeadlinePassed, Message: message}
}

// Internal hides err behind a generic message. The cause stays available for logging.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Code: models.ErrInternalServer, Message: "Internal server error", Err: err}
}

// KindOf reports the kind of err. Anything that is not a *Error is internal.
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindInternal
}

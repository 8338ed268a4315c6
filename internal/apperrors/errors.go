package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is a closed set of failure kinds the service may report.
// The kind name is part of the wire format: error bodies are rendered
// as '{"message": "<Kind>: <detail>"}'.
type Kind string

const (
	KindBadRequest           Kind = "BadRequest"
	KindValidationError      Kind = "ValidationError"
	KindPasswordsDontMatch   Kind = "PasswordsDontMatch"
	KindUserAlreadyExists    Kind = "UserAlreadyExists"
	KindUserIsNotActivated   Kind = "UserIsNotActivated"
	KindRecordNotFound       Kind = "RecordNotFound"
	KindRefreshTokenNotFound Kind = "RefreshTokenNotFound"
	KindTokenInvalid         Kind = "TokenInvalid"
	KindTokenExpired         Kind = "TokenExpired"
	KindUnauthorized         Kind = "Unauthorized"
	KindForbidden            Kind = "Forbidden"
	KindInternal             Kind = "InternalServerError"
)

// HTTPStatus maps the kind to a response status code
func (k Kind) HTTPStatus() int {
	switch k {
	case KindBadRequest, KindValidationError, KindPasswordsDontMatch,
		KindUserAlreadyExists, KindTokenInvalid, KindTokenExpired:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindUserIsNotActivated, KindForbidden:
		return http.StatusForbidden
	case KindRecordNotFound, KindRefreshTokenNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is the only error type handlers and services raise on purpose.
// The outermost handler stage classifies it by Kind, everything else
// becomes KindInternal.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, detail string) error {
	return &Error{Kind: kind, Detail: detail}
}

func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, detail string, err error) error {
	return &Error{Kind: kind, Detail: detail, Err: err}
}

// KindOf returns the kind of err or KindInternal for unclassified errors
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Package apperr defines the gateway error taxonomy. Every failure that
// reaches an HTTP response is one of these kinds; anything unclassified
// is treated as an upstream failure.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	Validation      Kind = "ValidationError"
	Authentication  Kind = "AuthenticationError"
	NotFound        Kind = "NotFoundError"
	UpstreamTimeout Kind = "UpstreamTimeoutError"
	Upstream        Kind = "UpstreamError"
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Message) }

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from err, defaulting to Upstream for
// unclassified failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Upstream
}

// MessageOf extracts the taxonomy message, falling back to err.Error().
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

func (k Kind) HTTPStatus() int {
	switch k {
	case Validation:
		return http.StatusBadRequest
	case Authentication:
		return http.StatusUnauthorized
	case NotFound:
		return http.StatusNotFound
	case UpstreamTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

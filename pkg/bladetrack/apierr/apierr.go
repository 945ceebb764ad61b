// Package apierr defines the error kinds returned by the API and their
// mapping onto HTTP responses.
package apierr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Kind is the machine-readable category of an error
type Kind string

const (
	KindUnauthenticated Kind = "unauthenticated"
	KindNoOrganization  Kind = "no_organization"
	KindForbidden       Kind = "forbidden"
	KindBadRequest      Kind = "bad_request"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindRateLimited     Kind = "rate_limited"
	KindInternal        Kind = "internal"
)

// Status returns the HTTP status code for the kind
func (k Kind) Status() int {
	switch k {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindNoOrganization, KindForbidden:
		return http.StatusForbidden
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is an error with a kind and a message safe to show to the caller.
// Err carries the underlying cause for logs and is never sent to clients.
type Error struct {
	Kind    Kind
	Code    string // Optional finer-grained reason, e.g. "replace_reason_required"
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Response is the JSON body of an error response
type Response struct {
	Error string `json:"error"`
	Kind  Kind   `json:"kind"`
	Code  string `json:"code,omitempty"`
}

func Unauthenticated(msg string) *Error { return &Error{Kind: KindUnauthenticated, Message: msg} }
func NoOrganization(msg string) *Error  { return &Error{Kind: KindNoOrganization, Message: msg} }
func Forbidden(msg string) *Error       { return &Error{Kind: KindForbidden, Message: msg} }
func BadRequest(msg string) *Error      { return &Error{Kind: KindBadRequest, Message: msg} }
func NotFound(msg string) *Error        { return &Error{Kind: KindNotFound, Message: msg} }
func Conflict(msg string) *Error        { return &Error{Kind: KindConflict, Message: msg} }
func RateLimited(msg string) *Error     { return &Error{Kind: KindRateLimited, Message: msg} }

// Internal wraps a datastore or other unexpected failure
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// WithCode returns a copy of e carrying code
func (e *Error) WithCode(code string) *Error {
	cp := *e
	cp.Code = code
	return &cp
}

// KindOf returns the kind of err, or KindInternal if err is not an *Error
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindInternal
}

// Is reports whether err is an *Error of the given kind
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Respond writes err as a JSON error response. Errors that are not *Error are
// reported as internal without leaking their text.
func Respond(c *gin.Context, err error) {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		apiErr = Internal("Internal error", err)
	}

	if apiErr.Kind == KindInternal {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("request failed")
	}

	c.JSON(apiErr.Kind.Status(), Response{Error: apiErr.Message, Kind: apiErr.Kind, Code: apiErr.Code})
}

// Abort writes err like Respond and stops the handler chain
func Abort(c *gin.Context, err error) {
	Respond(c, err)
	c.Abort()
}

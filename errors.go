package tollgate

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is returned when an object does not exist in the backing store.
var ErrNotFound = errors.New("not found")

// Kind classifies a gateway failure. Each kind maps to exactly one HTTP
// status, so handlers translate errors mechanically instead of probing for
// duck-typed status fields.
type Kind int

const (
	// KindAuth covers missing, invalid, or expired tokens and credential
	// mismatches.
	KindAuth Kind = iota
	// KindBadRequest covers missing required parameters and malformed
	// multipart arguments.
	KindBadRequest
	// KindNotFound covers absent objects.
	KindNotFound
	// KindRangeNotSatisfiable covers unparseable or inconsistent ranges when
	// a Range header was present.
	KindRangeNotSatisfiable
	// KindUpstream covers backing-store rejections; the upstream status is
	// carried through.
	KindUpstream
)

// Error is the gateway's tagged error type.
type Error struct {
	Kind    Kind
	Message string
	// Code overrides the kind's default status. Only upstream failures set
	// it, to surface whatever the backing store reported.
	Code int
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status returns the HTTP status this error maps to.
func (e *Error) Status() int {
	if e.Code != 0 {
		return e.Code
	}
	switch e.Kind {
	case KindAuth:
		return http.StatusUnauthorized
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindRangeNotSatisfiable:
		return http.StatusRequestedRangeNotSatisfiable
	default:
		return http.StatusBadGateway
	}
}

// AuthError reports a failed token or credential check.
func AuthError(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

// BadRequest reports a missing or malformed request parameter.
func BadRequest(message string) *Error {
	return &Error{Kind: KindBadRequest, Message: message}
}

// NotFoundError reports an absent object.
func NotFoundError(key string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("object %q not found", key), Err: ErrNotFound}
}

// RangeError reports an unsatisfiable byte range.
func RangeError(message string) *Error {
	return &Error{Kind: KindRangeNotSatisfiable, Message: message}
}

// UpstreamError wraps a backing-store failure, preserving the status the
// store reported when one is known (0 means unknown).
func UpstreamError(status int, err error) *Error {
	return &Error{Kind: KindUpstream, Message: "backing store request failed", Code: status, Err: err}
}

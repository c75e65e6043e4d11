// Package apperr turns failures from the API client into a single tagged
// error value that pages can render without inspecting transport details.
package apperr

import (
	"fmt"
	"net/http"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindOffline
	KindTimeout
	KindNetwork
	KindValidation
	KindHTTP
)

func (k Kind) String() string {
	switch k {
	case KindOffline:
		return "offline"
	case KindTimeout:
		return "timeout"
	case KindNetwork:
		return "network"
	case KindValidation:
		return "validation"
	case KindHTTP:
		return "http"
	default:
		return "unknown"
	}
}

// HTTPError is returned by the API client for every non-2xx response.
type HTTPError struct {
	Status int
	Method string
	Path   string
	Body   []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.Status)
}

// NetworkError wraps a transport failure where no response was received.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out: %v", e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the classified form of any failure. Message is safe to show to
// the user as is.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus is the status a page should answer with for this error.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindOffline, KindNetwork:
		return http.StatusServiceUnavailable
	case KindTimeout:
		return http.StatusGatewayTimeout
	case KindValidation:
		if e.Status != 0 {
			return e.Status
		}
		return http.StatusUnprocessableEntity
	case KindHTTP:
		return e.Status
	default:
		return http.StatusInternalServerError
	}
}

// NewValidation builds a validation error whose message is the first field
// error formatted as "Field: message".
func NewValidation(fields []FieldError) *Error {
	message := MsgGeneric
	if len(fields) > 0 {
		message = fmt.Sprintf("%s: %s", fields[0].Field, fields[0].Message)
	}

	return &Error{
		Kind:    KindValidation,
		Status:  http.StatusUnprocessableEntity,
		Message: message,
		Fields:  fields,
	}
}

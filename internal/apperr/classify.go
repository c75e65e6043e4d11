package apperr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"
)

const (
	MsgOffline        = "You appear to be offline. Please check your internet connection."
	MsgTimeout        = "The request timed out. Please try again."
	MsgNetwork        = "Unable to reach the server. Please check your connection and try again."
	MsgSessionExpired = "Your session has expired. Please log in again."
	MsgForbidden      = "You don't have permission to perform this action."
	MsgNotFound       = "The requested resource was not found."
	MsgServer         = "A server error occurred. Please try again later."
	MsgGeneric        = "Something went wrong. Please try again."
	MsgInvalidLogin   = "Invalid email or password. Please try again."
	MsgAlreadyExists  = "This item already exists. Please use a different value."
	MsgUnexpected     = "An unexpected error occurred. Please try again."
)

type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

type validationItem struct {
	Loc []interface{} `json:"loc"`
	Msg string        `json:"msg"`
}

// Classify maps any error onto the tagged Error variant. online is the
// current connectivity signal and takes precedence over everything else.
func Classify(err error, online bool) *Error {
	if err == nil {
		return nil
	}

	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	if !online {
		return &Error{Kind: KindOffline, Message: MsgOffline, Err: err}
	}

	var timeoutErr *TimeoutError
	if errors.As(err, &timeoutErr) || errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Message: MsgTimeout, Err: err}
	}

	var networkErr *NetworkError
	if errors.As(err, &networkErr) {
		return &Error{Kind: KindNetwork, Message: MsgNetwork, Err: err}
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return classifyHTTP(httpErr)
	}

	return &Error{Kind: KindUnknown, Message: MsgUnexpected, Err: err}
}

// Message is Classify for callers that only need the user-facing text.
func Message(err error, online bool) string {
	if c := Classify(err, online); c != nil {
		return c.Message
	}
	return ""
}

// IsRetryable reports whether repeating the request could succeed:
// network and timeout failures, and statuses 408, 429 and 5xx.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var classified *Error
	if errors.As(err, &classified) {
		switch classified.Kind {
		case KindNetwork, KindTimeout, KindOffline:
			return true
		case KindHTTP, KindValidation:
			return retryableStatus(classified.Status)
		}
	}

	var networkErr *NetworkError
	var timeoutErr *TimeoutError
	if errors.As(err, &networkErr) || errors.As(err, &timeoutErr) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return retryableStatus(httpErr.Status)
	}

	return false
}

func retryableStatus(status int) bool {
	return status == http.StatusRequestTimeout ||
		status == http.StatusTooManyRequests ||
		status >= http.StatusInternalServerError
}

// StatusMessage is the fallback text when the response body is unusable.
func StatusMessage(status int) string {
	switch {
	case status == http.StatusUnauthorized:
		return MsgSessionExpired
	case status == http.StatusForbidden:
		return MsgForbidden
	case status == http.StatusNotFound:
		return MsgNotFound
	case status == http.StatusRequestTimeout:
		return MsgTimeout
	case status >= http.StatusInternalServerError:
		return MsgServer
	default:
		return MsgGeneric
	}
}

func classifyHTTP(httpErr *HTTPError) *Error {
	fallback := &Error{
		Kind:    KindHTTP,
		Status:  httpErr.Status,
		Message: StatusMessage(httpErr.Status),
		Err:     httpErr,
	}

	var body errorBody
	if err := json.Unmarshal(httpErr.Body, &body); err != nil {
		return fallback
	}

	if len(body.Detail) > 0 {
		var items []validationItem
		if err := json.Unmarshal(body.Detail, &items); err == nil && len(items) > 0 {
			fields := make([]FieldError, 0, len(items))
			for _, item := range items {
				fields = append(fields, FieldError{Field: fieldName(item.Loc), Message: item.Msg})
			}
			validation := NewValidation(fields)
			validation.Status = httpErr.Status
			validation.Err = httpErr
			return validation
		}

		var detail string
		if err := json.Unmarshal(body.Detail, &detail); err == nil && detail != "" {
			fallback.Message = friendlyDetail(detail)
			return fallback
		}
	}

	if body.Message != "" {
		fallback.Message = friendlyDetail(body.Message)
	}

	return fallback
}

func friendlyDetail(detail string) string {
	lower := strings.ToLower(detail)
	switch {
	case strings.Contains(lower, "invalid credentials"),
		strings.Contains(lower, "incorrect email or password"),
		strings.Contains(lower, "incorrect password"):
		return MsgInvalidLogin
	case strings.Contains(lower, "not found"):
		return MsgNotFound
	case strings.Contains(lower, "already exists"):
		return MsgAlreadyExists
	default:
		return detail
	}
}

// fieldName takes the innermost location element, e.g. ["body","email"] -> "Email".
func fieldName(loc []interface{}) string {
	if len(loc) == 0 {
		return "Field"
	}
	return FieldLabel(fmt.Sprint(loc[len(loc)-1]))
}

// FieldLabel turns a wire field name into a label: "hint_level" -> "Hint level".
func FieldLabel(name string) string {
	runes := []rune(strings.ReplaceAll(name, "_", " "))
	if len(runes) == 0 {
		return "Field"
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Kind classifies a failure independently of the transport.
type Kind string

const (
	KindNetwork      Kind = "network"
	KindValidation   Kind = "validation"
	KindUnauthorized Kind = "unauthorized"
	KindNotFound     Kind = "not_found"
	KindRateLimited  Kind = "rate_limited"
	KindServer       Kind = "server"
	KindLocal        Kind = "local"
	KindDecode       Kind = "decode"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
)

// Error is the failure type returned by HTTPClient and the services on top of
// it. Detail is the text meant for the user; it is empty when the failure
// carries nothing better than a generic fallback.
type Error struct {
	Kind   Kind
	Status int
	Detail string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Detail != "":
		return e.Detail
	case e.Err != nil:
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s error: status %d", e.Kind, e.Status)
	default:
		return string(e.Kind) + " error"
	}
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Kind == KindUnauthorized
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrValidation:
		return e.Kind == KindValidation || e.Kind == KindLocal
	case ErrUnavailable:
		if e.Kind == KindNetwork {
			return true
		}
		return e.Status == http.StatusBadGateway ||
			e.Status == http.StatusServiceUnavailable ||
			e.Status == http.StatusGatewayTimeout
	}
	return false
}

// LocalError reports a precondition that failed before any request was made.
func LocalError(detail string) *Error {
	return &Error{Kind: KindLocal, Detail: detail}
}

// Message returns the user-facing text for err: the backend or local detail
// when there is one, fallback otherwise.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Detail != "" {
		return e.Detail
	}
	return fallback
}

// KindOf returns the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindUnauthorized
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status >= 500:
		return KindServer
	default:
		return KindValidation
	}
}

var detailPolicy = bluemonday.StrictPolicy()

// newStatusError builds an *Error for a non-2xx response, pulling the
// detail out of the body. Both {"detail": "..."} and validation arrays
// {"detail": [{"msg": "..."}]} are understood, as is {"message": "..."}.
func newStatusError(status int, body []byte) *Error {
	return &Error{
		Kind:   kindForStatus(status),
		Status: status,
		Detail: extractDetail(body),
	}
}

func extractDetail(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	if len(payload.Detail) > 0 {
		var s string
		if err := json.Unmarshal(payload.Detail, &s); err == nil {
			return sanitize(s)
		}

		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(payload.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if m := sanitize(it.Msg); m != "" {
					msgs = append(msgs, m)
				}
			}
			return strings.Join(msgs, "; ")
		}
	}

	return sanitize(payload.Message)
}

// sanitize strips markup from server-provided text so it can be printed
// as-is.
func sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(detailPolicy.Sanitize(s)))
}

// Sanitize is the exported form of the detail cleaner, used for other
// server-provided strings shown to the user.
func Sanitize(s string) string {
	return sanitize(s)
}

package llm

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a provider failure
type ErrorKind int

const (
	KindFailed ErrorKind = iota
	KindUnauthorized
	KindRateLimited
	KindUnavailable
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindRateLimited:
		return "rate_limited"
	case KindUnavailable:
		return "unavailable"
	default:
		return "failed"
	}
}

// ErrEmptyResponse is returned when the provider answers without any content
var ErrEmptyResponse = errors.New("empty response from model")

// APIError is a failure reported by the provider's API
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s: %s", e.Provider, msg)
}

func (e *APIError) Unwrap() error { return e.Err }

// Kind maps the status code: 401 invalid key, 429 rate limited, 5xx unavailable
func (e *APIError) Kind() ErrorKind {
	return KindForStatus(e.StatusCode)
}

// KindForStatus classifies an HTTP status code
func KindForStatus(code int) ErrorKind {
	switch {
	case code == http.StatusUnauthorized:
		return KindUnauthorized
	case code == http.StatusTooManyRequests:
		return KindRateLimited
	case code >= http.StatusInternalServerError:
		return KindUnavailable
	default:
		return KindFailed
	}
}

// Classify returns the kind of err, KindFailed for anything that is not an APIError
func Classify(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind()
	}
	return KindFailed
}

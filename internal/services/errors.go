package services

import (
	"errors"
	"strings"

	"github.com/ajramos/mailassist/internal/llm"
)

// User-facing service errors. Their messages are shown as-is.
var (
	// Acquisition and input errors
	ErrNoText  = errors.New("No text available to process. Please select some text or compose an email.")
	ErrNoInput = errors.New("Please enter a description of what you need.")
	ErrBusy    = errors.New("A request is already being processed.")

	// Privacy errors
	ErrPrivacyBlocked = errors.New("Cannot process text containing sensitive information.")

	// Configuration errors
	ErrNotConfigured = errors.New("OpenAI API key not configured. Please add your API key in settings.")

	// Model API errors
	ErrInvalidAPIKey      = errors.New("Invalid API key. Please check your OpenAI API key in settings.")
	ErrRateLimited        = errors.New("Rate limit exceeded. Please try again in a moment.")
	ErrServiceUnavailable = errors.New("OpenAI service unavailable. Please try again later.")

	// Quick action errors
	ErrUnknownAction  = errors.New("Unknown quick action.")
	ErrActionDisabled = errors.New("This action needs an email or a thread selected in Mail.")
)

// userErrors are checked in order by UserMessage
var userErrors = []error{
	ErrNoText, ErrNoInput, ErrBusy, ErrPrivacyBlocked, ErrNotConfigured,
	ErrInvalidAPIKey, ErrRateLimited, ErrServiceUnavailable,
	ErrUnknownAction, ErrActionDisabled,
}

// ProcessingError is a model failure that has no more specific category
type ProcessingError struct {
	Err error
}

func (e *ProcessingError) Error() string {
	msg := "unknown error"
	var apiErr *llm.APIError
	switch {
	case errors.As(e.Err, &apiErr) && apiErr.Message != "":
		msg = apiErr.Message
	case e.Err != nil:
		msg = e.Err.Error()
	}
	return "AI processing failed: " + msg
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// classifyProviderError maps a provider failure onto the user-facing taxonomy.
// The original error stays reachable through errors.As.
func classifyProviderError(err error) error {
	var sentinel error
	switch llm.Classify(err) {
	case llm.KindUnauthorized:
		sentinel = ErrInvalidAPIKey
	case llm.KindRateLimited:
		sentinel = ErrRateLimited
	case llm.KindUnavailable:
		sentinel = ErrServiceUnavailable
	default:
		return &ProcessingError{Err: err}
	}
	return &classifiedError{kind: sentinel, err: err}
}

type classifiedError struct {
	kind error
	err  error
}

func (e *classifiedError) Error() string   { return e.kind.Error() }
func (e *classifiedError) Unwrap() []error { return []error{e.kind, e.err} }

// UserMessage returns a single line describing err for display
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	for _, known := range userErrors {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	var pe *ProcessingError
	if errors.As(err, &pe) {
		return firstLine(pe.Error())
	}
	return firstLine(err.Error())
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}

package models

import "fmt"

// Phases tag accumulated scrape errors by the stage that produced them.
const (
	PhaseFetch       = "fetch"
	PhaseParse       = "parse"
	PhaseRender      = "render"
	PhaseInteraction = "interaction"
)

// maxErrorMessageLen bounds ErrorItem messages to cap payload size.
const maxErrorMessageLen = 200

// ErrorItem is a non-fatal, phase-tagged error accumulated into a
// ScrapeResult.
type ErrorItem struct {
	Message string `json:"message"`
	Phase   string `json:"phase"`
}

// NewErrorItem builds a phase-tagged error item, truncating the message to
// the bounded length on a rune boundary so the payload stays valid UTF-8.
func NewErrorItem(phase, message string) ErrorItem {
	if r := []rune(message); len(r) > maxErrorMessageLen {
		message = string(r[:maxErrorMessageLen])
	}
	return ErrorItem{Message: message, Phase: phase}
}

// Error codes used in API responses and internal error handling.
const (
	ErrCodeNavigation   = "NAVIGATION_FAILED"
	ErrCodeBrowserCrash = "BROWSER_CRASH"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ScrapeError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type ScrapeError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// NewScrapeError creates a new ScrapeError.
func NewScrapeError(code, message string, err error) *ScrapeError {
	return &ScrapeError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *ScrapeError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}

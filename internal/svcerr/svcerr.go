// Package svcerr defines the error kind taxonomy the pipeline surfaces to
// its callers. Handlers map these to HTTP status with errors.As, never by
// matching error strings.
package svcerr

import (
	"errors"
	"fmt"
)

// Kind enumerates the taxonomy. Sentinel errors below carry one of these.
type Kind string

const (
	KindInvalidURL            Kind = "invalid_url"
	KindUnsupportedVideoType  Kind = "unsupported_video_type"
	KindUnsupportedLanguage   Kind = "unsupported_language"
	KindDurationExceeded      Kind = "duration_exceeded"
	KindMetadataUnavailable   Kind = "metadata_unavailable"
	KindInsufficientCredits   Kind = "insufficient_credits"
	KindTranscriptionFailed   Kind = "transcription_failed"
	KindLLMSynthesisFailed    Kind = "llm_synthesis_failed"
	KindNotFound              Kind = "not_found"
	KindDependencyFailure     Kind = "dependency_failure"
	KindInvalidArgument       Kind = "invalid_argument"
)

// Error is a typed, wrapped error carrying a taxonomy Kind plus an HTTP
// status for the handler layer. Grounded on the teacher's apierr.Error.
type Error struct {
	Kind   Kind
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Err.Error())
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, status int, err error) *Error {
	return &Error{Kind: kind, Status: status, Err: err}
}

func InvalidURL(err error) *Error           { return New(KindInvalidURL, 400, err) }
func UnsupportedVideoType(err error) *Error { return New(KindUnsupportedVideoType, 400, err) }
func UnsupportedLanguage(err error) *Error  { return New(KindUnsupportedLanguage, 400, err) }
func DurationExceeded(err error) *Error     { return New(KindDurationExceeded, 400, err) }
func MetadataUnavailable(err error) *Error  { return New(KindMetadataUnavailable, 500, err) }
func TranscriptionFailed(err error) *Error  { return New(KindTranscriptionFailed, 500, err) }
func LLMSynthesisFailed(err error) *Error   { return New(KindLLMSynthesisFailed, 500, err) }
func NotFound(err error) *Error             { return New(KindNotFound, 404, err) }
func DependencyFailure(err error) *Error    { return New(KindDependencyFailure, 502, err) }
func InvalidArgument(err error) *Error      { return New(KindInvalidArgument, 400, err) }

// InsufficientCreditsError carries the structured {required, available} pair
// the HTTP surface echoes verbatim in a 402 body (spec.md §6, §7).
type InsufficientCreditsError struct {
	Required  int
	Available int
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits: required=%d available=%d", e.Required, e.Available)
}

func NewInsufficientCredits(required, available int) error {
	return New(KindInsufficientCredits, 402, &InsufficientCreditsError{Required: required, Available: available})
}

// AsInsufficientCredits unwraps an error chain looking for the structured
// credits payload, returning ok=false if the error is not of this kind.
func AsInsufficientCredits(err error) (*InsufficientCreditsError, bool) {
	var ic *InsufficientCreditsError
	if errors.As(err, &ic) {
		return ic, true
	}
	return nil, false
}

// StatusOf maps any error to an HTTP status code, defaulting to 500 for
// errors outside the taxonomy.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	if errors.Is(err, ErrNotFound) {
		return 404
	}
	return 500
}

// Sentinel errors for simple identity checks, grounded on the teacher's
// internal/pkg/errors package.
var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Package apperr classifies failures of the summarize pipeline and maps them
// to HTTP responses.
package apperr

import (
	"errors"
	"net/http"
)

// Kind identifies where in the pipeline a failure happened.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindFetch
	KindModel
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindFetch:
		return "upstream_fetch"
	case KindModel:
		return "upstream_model"
	default:
		return "internal"
	}
}

// Fixed client-facing messages
const (
	MsgURLRequired      = "URL is required"
	MsgURLNotString     = "URL must be a string"
	MsgInvalidBody      = "Invalid request body"
	MsgFetchFailed      = "Failed to fetch reviews from the page"
	MsgModelUnavailable = "Summarization service unavailable"
	MsgInternal         = "Internal server error"
	MsgMethodNotAllowed = "Method not allowed"
)

// Error is a classified pipeline failure.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation returns a validation failure with a fixed message.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Fetch wraps a scrape failure.
func Fetch(err error) *Error {
	return &Error{Kind: KindFetch, Message: MsgFetchFailed, Err: err}
}

// Model wraps a summarization failure.
func Model(err error) *Error {
	return &Error{Kind: KindModel, Message: MsgModelUnavailable, Err: err}
}

// KindOf returns the kind of err, or KindInternal when err is unclassified.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Status returns the HTTP status code and detail message for err.
// In legacy mode every non-validation failure becomes 500 with the raw
// error text.
func Status(err error, legacy bool) (int, string) {
	var appErr *Error
	if !errors.As(err, &appErr) {
		if legacy {
			return http.StatusInternalServerError, err.Error()
		}
		return http.StatusInternalServerError, MsgInternal
	}

	if appErr.Kind == KindValidation {
		return http.StatusUnprocessableEntity, appErr.Message
	}

	if legacy {
		return http.StatusInternalServerError, appErr.Error()
	}

	switch appErr.Kind {
	case KindFetch:
		return http.StatusBadGateway, appErr.Message
	case KindModel:
		return http.StatusServiceUnavailable, appErr.Message
	default:
		return http.StatusInternalServerError, MsgInternal
	}
}

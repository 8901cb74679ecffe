package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	CodeUpstreamFetch = "UPSTREAM_FETCH_ERROR"
	CodeNotFound      = "NOT_FOUND"
	CodeValidation    = "VALIDATION_ERROR"
	CodeCache         = "CACHE_ERROR"
)

type AppError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// UpstreamError reports that a page on the scraped site could not be fetched,
// either because the transport failed or the status was not 200.
type UpstreamError struct {
	*AppError
	URL    string
	Status int
}

func NewUpstreamError(message, url string, status int, cause error) *UpstreamError {
	return &UpstreamError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeUpstreamFetch,
			StatusCode: http.StatusInternalServerError,
			Context: map[string]any{
				"url":    url,
				"status": status,
			},
			Cause: cause,
		},
		URL:    url,
		Status: status,
	}
}

type NotFoundError struct {
	*AppError
	Query string
}

func NewNotFoundError(message, query string) *NotFoundError {
	return &NotFoundError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeNotFound,
			StatusCode: http.StatusNotFound,
			Context: map[string]any{
				"query": query,
			},
		},
		Query: query,
	}
}

type ValidationError struct {
	*AppError
	Field string
	Value interface{}
}

func NewValidationError(message, field string, value interface{}) *ValidationError {
	return &ValidationError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeValidation,
			StatusCode: http.StatusBadRequest,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

type CacheError struct {
	*AppError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeCache,
			StatusCode: http.StatusInternalServerError,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

// AsAppError returns the AppError embedded in err, if any.
func AsAppError(err error) (*AppError, bool) {
	if err == nil {
		return nil, false
	}

	var upstream *UpstreamError
	if stderrors.As(err, &upstream) {
		return upstream.AppError, true
	}
	var notFound *NotFoundError
	if stderrors.As(err, &notFound) {
		return notFound.AppError, true
	}
	var validation *ValidationError
	if stderrors.As(err, &validation) {
		return validation.AppError, true
	}
	var cacheErr *CacheError
	if stderrors.As(err, &cacheErr) {
		return cacheErr.AppError, true
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// StatusCode maps err to an HTTP status. Unknown errors are 500.
func StatusCode(err error) int {
	if appErr, ok := AsAppError(err); ok && appErr.StatusCode != 0 {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return stderrors.As(err, &notFound)
}

func IsUpstream(err error) bool {
	var upstream *UpstreamError
	return stderrors.As(err, &upstream)
}

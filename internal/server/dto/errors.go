// Package dto defines API request/response types and error handling.
//
// This package is the API contract layer:
//   - Request types with path struct tags for parameter binding
//   - Response types whose JSON field names are the wire format
//   - Structured error types with HTTP status codes and error codes
//
// Error handling follows a structured pattern:
//   - ErrorCode provides machine-readable error classification for logs
//   - APIError wraps errors with HTTP status codes
//   - Constructor functions (NotFound, BadRequest, etc.) create common errors
//
// Error bodies only ever use the keys "error", "message" and "detail".
package dto

import (
	"fmt"
	"net/http"
	"strconv"
)

// ErrorCode defines specific error types for the API.
type ErrorCode string

const (
	// ErrorCodeValidationFailed is returned when input data fails validation.
	ErrorCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	// ErrorCodeInvalidFormat is returned when a path parameter has an invalid format.
	ErrorCodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	// ErrorCodeInvalidBody is returned when the request body is not valid JSON.
	ErrorCodeInvalidBody ErrorCode = "INVALID_BODY"
	// ErrorCodePayloadTooLarge is returned when the request body exceeds the limit.
	ErrorCodePayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"

	// ErrorCodeNotFound is returned when a resource is not found.
	ErrorCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrorCodeRouteNotFound is returned when no route matches the request.
	ErrorCodeRouteNotFound ErrorCode = "ROUTE_NOT_FOUND"

	// ErrorCodeRateLimitExceeded is returned when the client is throttled.
	ErrorCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"

	// ErrorCodeInternal is returned when an unexpected server error occurs.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// ErrorResponse is the API error body.
type ErrorResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// ErrorWithStatus is an error that includes an HTTP status code and error code.
type ErrorWithStatus interface {
	Error() string
	StatusCode() int
	Code() ErrorCode
	Response(exposeDetail bool) ErrorResponse
}

// APIError is a concrete error type with status code and optional wrapped
// error.
type APIError struct {
	statusCode int
	code       ErrorCode
	message    string
	asMessage  bool
	wrappedErr error
}

// NewAPIError creates a new APIError with the given status code and message.
func NewAPIError(statusCode int, code ErrorCode, message string) *APIError {
	return &APIError{
		statusCode: statusCode,
		code:       code,
		message:    message,
	}
}

// AsMessage renders the error text under the "message" key instead of
// "error".
func (e *APIError) AsMessage() *APIError {
	e.asMessage = true
	return e
}

// Wrap wraps an underlying error.
func (e *APIError) Wrap(err error) *APIError {
	e.wrappedErr = err
	return e
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.wrappedErr != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrappedErr)
	}
	return e.message
}

// StatusCode returns the HTTP status code.
func (e *APIError) StatusCode() int {
	return e.statusCode
}

// Code returns the error code.
func (e *APIError) Code() ErrorCode {
	return e.code
}

// Unwrap returns the wrapped error if any.
func (e *APIError) Unwrap() error {
	return e.wrappedErr
}

// Response returns the JSON body for the error. The wrapped error is only
// included as "detail" when exposeDetail is true.
func (e *APIError) Response(exposeDetail bool) ErrorResponse {
	var r ErrorResponse
	if e.asMessage {
		r.Message = e.message
	} else {
		r.Error = e.message
	}
	if exposeDetail && e.wrappedErr != nil {
		r.Detail = e.wrappedErr.Error()
	}
	return r
}

// Predefined error constructors for common cases

// NotFound creates a 404 error rendered as {"message": "not found"}.
func NotFound() *APIError {
	return NewAPIError(http.StatusNotFound, ErrorCodeNotFound, "not found").AsMessage()
}

// NoSuchID creates a 404 error for deleting an unknown id.
func NoSuchID() *APIError {
	return NewAPIError(http.StatusNotFound, ErrorCodeNotFound, "no such id")
}

// RouteNotFound creates a 404 error for unmatched routes.
func RouteNotFound() *APIError {
	return NewAPIError(http.StatusNotFound, ErrorCodeRouteNotFound, "route not found")
}

// BadRequest creates a 400 Bad Request error.
func BadRequest(message string) *APIError {
	return NewAPIError(http.StatusBadRequest, ErrorCodeValidationFailed, message)
}

// InvalidPathParam creates a 400 error for an unparsable path parameter.
func InvalidPathParam(name string) *APIError {
	return NewAPIError(http.StatusBadRequest, ErrorCodeInvalidFormat, "invalid "+name)
}

// InvalidBody creates a 400 error for a body that is not valid JSON.
func InvalidBody() *APIError {
	return NewAPIError(http.StatusBadRequest, ErrorCodeInvalidBody, "invalid request body")
}

// PayloadTooLarge creates a 413 error.
func PayloadTooLarge(limit int64) *APIError {
	return NewAPIError(http.StatusRequestEntityTooLarge, ErrorCodePayloadTooLarge, "request body exceeds "+strconv.FormatInt(limit, 10)+" bytes")
}

// RateLimitExceeded creates a 429 error. The Retry-After header is written by
// the rate limiter's response writer.
func RateLimitExceeded() *APIError {
	return NewAPIError(http.StatusTooManyRequests, ErrorCodeRateLimitExceeded, "rate limit exceeded")
}

// Internal returns a 500 Internal Server Error.
func Internal() *APIError {
	return NewAPIError(http.StatusInternalServerError, ErrorCodeInternal, "internal server error")
}

// InternalWithError creates a 500 error wrapping an underlying error.
func InternalWithError(err error) *APIError {
	return Internal().Wrap(err)
}

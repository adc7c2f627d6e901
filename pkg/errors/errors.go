package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeNotFound         = "NOT_FOUND"
	CodeValidation       = "VALIDATION_ERROR"
	CodeConflict         = "CONFLICT"
	CodeInternal         = "INTERNAL_ERROR"
	CodeBadRequest       = "BAD_REQUEST"
	CodeTimeout          = "TIMEOUT"
	CodeUnavailable      = "SERVICE_UNAVAILABLE"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeRateLimited      = "RATE_LIMITED"
	CodeUnsupportedMedia = "UNSUPPORTED_MEDIA_TYPE"
	CodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
)

var statusByCode = map[string]int{
	CodeNotFound:         http.StatusNotFound,
	CodeValidation:       http.StatusUnprocessableEntity,
	CodeConflict:         http.StatusConflict,
	CodeInternal:         http.StatusInternalServerError,
	CodeBadRequest:       http.StatusBadRequest,
	CodeTimeout:          http.StatusGatewayTimeout,
	CodeUnavailable:      http.StatusServiceUnavailable,
	CodeInvalidInput:     http.StatusBadRequest,
	CodeRateLimited:      http.StatusTooManyRequests,
	CodeUnsupportedMedia: http.StatusUnsupportedMediaType,
	CodePayloadTooLarge:  http.StatusRequestEntityTooLarge,
}

// StatusOf returns the HTTP status for code; unknown codes are server errors.
func StatusOf(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// AppError is the error every service returns to its handlers. Code selects
// the HTTP status; Err keeps the cause for logs and errors.Is and is never
// rendered to clients.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

// ErrorResponse is the body written for a failed request.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Code + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) StatusCode() int {
	return e.HTTPStatus
}

// Response is the client-facing view of e. Internal errors hide their details.
func (e *AppError) Response() ErrorResponse {
	resp := ErrorResponse{Error: e.Message, Code: e.Code}
	if e.Code != CodeInternal {
		resp.Details = e.Details
	}
	return resp
}

func (e *AppError) ToJSON() []byte {
	data, _ := json.Marshal(e.Response())
	return data
}

func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

func Wrap(err error, code, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus, Err: err}
}

func withCode(code, message string) *AppError {
	return New(code, message, StatusOf(code))
}

func NotFound(resource string) *AppError {
	return withCode(CodeNotFound, resource+" not found")
}

func NotFoundWithID(resource, id string) *AppError {
	return NotFound(resource).WithDetails(map[string]any{
		"resource": resource,
		"id":       id,
	})
}

func Validation(message string, details map[string]any) *AppError {
	return withCode(CodeValidation, message).WithDetails(details)
}

func InvalidInput(message string) *AppError {
	return withCode(CodeInvalidInput, message)
}

// InvalidValue reports a rejected field together with the offending value.
// cause is usually a domain sentinel so callers can match it with errors.Is.
func InvalidValue(field string, value any, cause error) *AppError {
	msg := fmt.Sprintf("invalid %s: %v", field, value)
	if cause != nil {
		msg = fmt.Sprintf("invalid %s %v: %s", field, value, cause.Error())
	}
	e := withCode(CodeInvalidInput, msg).WithDetails(map[string]any{
		"field": field,
		"value": value,
	})
	e.Err = cause
	return e
}

func Conflict(message string) *AppError {
	return withCode(CodeConflict, message)
}

func Internal(message string, err error) *AppError {
	e := withCode(CodeInternal, message)
	e.Err = err
	return e
}

func Timeout(message string) *AppError {
	return withCode(CodeTimeout, message)
}

func Unavailable(service string) *AppError {
	return withCode(CodeUnavailable, service+" is temporarily unavailable")
}

func RateLimited(message string) *AppError {
	return withCode(CodeRateLimited, message)
}

func UnsupportedMedia(message string) *AppError {
	return withCode(CodeUnsupportedMedia, message)
}

func PayloadTooLarge(message string) *AppError {
	return withCode(CodePayloadTooLarge, message)
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("An unexpected error occurred", err)
}

// HasCode reports whether err is an AppError carrying the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSentinel = errors.New("capacity must be at least 1")

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			appErr:   &AppError{Code: CodeNotFound, Message: "Room not found"},
			expected: "NOT_FOUND: Room not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "Failed to create booking",
				Err:     errors.New("connection reset"),
			},
			expected: "INTERNAL_ERROR: Failed to create booking (caused by: connection reset)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestWrap_UnwrapsToCause(t *testing.T) {
	cause := errors.New("write conflict")
	wrapped := Wrap(cause, CodeInternal, "transaction failed", http.StatusInternalServerError)

	assert.Same(t, cause, errors.Unwrap(wrapped))
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, http.StatusInternalServerError, wrapped.StatusCode())
}

func TestConstructors_StatusAndCode(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"not found", NotFound("Booking"), CodeNotFound, http.StatusNotFound},
		{"not found with id", NotFoundWithID("Room", "r-1"), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("bad room", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("bad id"), CodeInvalidInput, http.StatusBadRequest},
		{"invalid value", InvalidValue("capacity", 0, errSentinel), CodeInvalidInput, http.StatusBadRequest},
		{"conflict", Conflict("overlap"), CodeConflict, http.StatusConflict},
		{"internal", Internal("boom", nil), CodeInternal, http.StatusInternalServerError},
		{"timeout", Timeout("lock wait"), CodeTimeout, http.StatusGatewayTimeout},
		{"unavailable", Unavailable("MongoDB"), CodeUnavailable, http.StatusServiceUnavailable},
		{"rate limited", RateLimited("slow down"), CodeRateLimited, http.StatusTooManyRequests},
		{"payload too large", PayloadTooLarge("too big"), CodePayloadTooLarge, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
		})
	}
}

func TestNotFoundWithID_Details(t *testing.T) {
	err := NotFoundWithID("Booking", "b-42")

	assert.Equal(t, "Booking not found", err.Message)
	assert.Equal(t, "Booking", err.Details["resource"])
	assert.Equal(t, "b-42", err.Details["id"])
}

func TestInvalidValue_CarriesFieldValueAndCause(t *testing.T) {
	err := InvalidValue("location", "AA", errSentinel)

	assert.Equal(t, "location", err.Details["field"])
	assert.Equal(t, "AA", err.Details["value"])
	assert.ErrorIs(t, err, errSentinel)
	assert.Contains(t, err.Message, "AA")
}

func TestAsAppError(t *testing.T) {
	appErr := NotFound("Room")
	assert.Same(t, appErr, AsAppError(appErr))

	wrapped := fmt.Errorf("handler: %w", appErr)
	assert.Same(t, appErr, AsAppError(wrapped))
	assert.True(t, IsAppError(wrapped))

	plain := errors.New("plain")
	converted := AsAppError(plain)
	assert.Equal(t, CodeInternal, converted.Code)
	assert.Same(t, plain, converted.Err)
	assert.False(t, IsAppError(plain))
}

func TestHasCode(t *testing.T) {
	assert.True(t, HasCode(Conflict("x"), CodeConflict))
	assert.False(t, HasCode(Conflict("x"), CodeNotFound))
	assert.False(t, HasCode(errors.New("x"), CodeConflict))
}

func TestAppError_ToJSON(t *testing.T) {
	err := NotFoundWithID("Room", "r-7")

	data := string(err.ToJSON())
	require.NotEmpty(t, data)
	assert.Contains(t, data, `"code":"NOT_FOUND"`)
	assert.Contains(t, data, `"id":"r-7"`)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusTooManyRequests, StatusOf(CodeRateLimited))
	assert.Equal(t, http.StatusUnsupportedMediaType, StatusOf(CodeUnsupportedMedia))
	assert.Equal(t, http.StatusInternalServerError, StatusOf("SOMETHING_NEW"))
}

func TestResponse_InternalHidesDetails(t *testing.T) {
	err := Internal("Failed to create booking", errors.New("socket closed"))
	err.Details = map[string]any{"collection": "Bookings"}

	resp := err.Response()
	assert.Equal(t, "Failed to create booking", resp.Error)
	assert.Nil(t, resp.Details)
	assert.NotContains(t, string(err.ToJSON()), "socket closed")
}

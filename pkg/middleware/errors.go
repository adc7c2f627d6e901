package middleware

import (
	"net/http"

	apperrors "salas/pkg/errors"
)

// writeAppError renders err in the body shape the handlers use.
func writeAppError(w http.ResponseWriter, err *apperrors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.HTTPStatus)
	_, _ = w.Write(err.ToJSON())
}

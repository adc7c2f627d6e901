package middleware

import (
	"net/http"

	apperrors "salas/pkg/errors"
)

// MaxRequestSize caps the request body. Declared lengths over the cap are
// refused up front; chunked bodies fail on read and the JSON decoder then
// reports an invalid body.
func MaxRequestSize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				writeAppError(w, apperrors.PayloadTooLarge("Request body too large"))
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

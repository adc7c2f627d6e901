package middleware

import (
	"mime"
	"net/http"

	apperrors "salas/pkg/errors"
	"salas/pkg/logger"
)

const jsonMediaType = "application/json"

// ContentTypeValidation rejects request bodies that are not JSON. Only
// methods that carry a room or booking payload are checked.
func ContentTypeValidation(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch:
			default:
				next.ServeHTTP(w, r)
				return
			}

			mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err == nil && mediaType == jsonMediaType {
				next.ServeHTTP(w, r)
				return
			}

			log.Warn("Rejected request body media type",
				"request_id", GetRequestID(r.Context()),
				"content_type", r.Header.Get("Content-Type"),
				"route", r.Method+" "+r.URL.Path,
			)
			writeAppError(w, apperrors.UnsupportedMedia("Content-Type must be "+jsonMediaType))
		})
	}
}

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "salas/pkg/errors"
	"salas/pkg/logger"
)

// DecodeJSON reads the request body into dst. A body cut off by
// MaxRequestSize is reported as too large, anything else unreadable as a
// bad request.
func DecodeJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperrors.PayloadTooLarge("Request body too large")
	}
	return apperrors.Wrap(err, apperrors.CodeBadRequest, "Invalid request body", http.StatusBadRequest)
}

// Responder writes handler responses and logs the writes that fail, tagged
// with the handler name and the operation being served.
type Responder struct {
	log     *logger.Logger
	handler string
}

func NewResponder(log *logger.Logger, handler string) Responder {
	return Responder{log: log, handler: handler}
}

func (rs Responder) Error(w http.ResponseWriter, op string, err error) {
	rs.check(op, "WriteError", WriteError(w, err))
}

func (rs Responder) OK(w http.ResponseWriter, op string, data any) {
	rs.check(op, "WriteSuccess", WriteSuccess(w, data))
}

func (rs Responder) Created(w http.ResponseWriter, op string, data any) {
	rs.check(op, "WriteCreated", WriteCreated(w, data))
}

func (rs Responder) Paginated(w http.ResponseWriter, op string, data any, total int64, limit int, offset int64) {
	rs.check(op, "WritePaginated", WritePaginated(w, data, total, limit, offset))
}

func (rs Responder) check(op, write string, err error) {
	if err != nil {
		rs.log.Error("Failed to write response", "handler", rs.handler, "operation", op, "write", write, "error", err)
	}
}

package kafka

import (
	"context"
	"errors"
	"net"

	"github.com/segmentio/kafka-go"
)

var (
	ErrClosed         = errors.New("kafka client is closed")
	ErrInvalidMessage = errors.New("invalid message")
	ErrEmptyKey       = errors.New("message key cannot be empty")
	ErrEmptyValue     = errors.New("message value cannot be empty")
)

// classifiedError carries a handler's explicit verdict on retrying.
type classifiedError struct {
	msg   string
	err   error
	retry bool
}

func (e *classifiedError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *classifiedError) Unwrap() error {
	return e.err
}

// Permanent marks err as not worth retrying, e.g. an undecodable payload.
func Permanent(msg string, err error) error {
	return &classifiedError{msg: msg, err: err}
}

// Transient marks err as worth retrying, e.g. a downstream store that timed out.
func Transient(msg string, err error) error {
	return &classifiedError{msg: msg, err: err, retry: true}
}

// Retryable reports whether handling the same message again could succeed.
// An explicit Permanent or Transient verdict wins. Otherwise temporary broker
// errors, network errors and deadlines are retryable and anything else is not,
// so a poison message cannot loop forever.
func Retryable(err error) bool {
	if err == nil {
		return false
	}

	var ce *classifiedError
	if errors.As(err, &ce) {
		return ce.retry
	}

	var brokerErr kafka.Error
	if errors.As(err, &brokerErr) {
		return brokerErr.Temporary()
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return errors.Is(err, context.DeadlineExceeded)
}

package kafka

import "context"

// Handler processes one message. Producers end their chain in a broker write;
// consumers end it in the application handler, and a nil return commits.
type Handler func(ctx context.Context, msg Message) error

// Middleware decorates a Handler the way HTTP middleware decorates an http.Handler.
type Middleware func(next Handler) Handler

// chain wraps h so that mws[0] runs first.
func chain(h Handler, mws []Middleware) Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

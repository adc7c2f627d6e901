package contracts

import "github.com/julienschmidt/httprouter"

// Handler mounts one resource's routes. Room and booking handlers share a
// single router so nested paths such as /rooms/id/:id/bookings resolve.
type Handler interface {
	RegisterRoutes(router *httprouter.Router)
}

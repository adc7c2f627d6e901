package handler

import (
	"net/http"
	"time"

	"salas/internal/bookings/service"
	apperrors "salas/pkg/errors"
	httputil "salas/pkg/http"
	"salas/pkg/logger"
	"salas/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// CreateBookingRequest carries timestamps as text so both RFC3339 and
// "dd-MM-yyyy HH:mm" are accepted.
type CreateBookingRequest struct {
	Organizer string `json:"organizer"`
	RoomID    string `json:"room_id"`
	Start     string `json:"start"`
	End       string `json:"end"`
}

type UpdateBookingRequest struct {
	Organizer *string `json:"organizer,omitempty"`
	RoomID    *string `json:"room_id,omitempty"`
	Start     *string `json:"start,omitempty"`
	End       *string `json:"end,omitempty"`
}

type AvailabilityResponse struct {
	Available bool           `json:"available"`
	Conflict  *model.Booking `json:"conflict,omitempty"`
}

type BookingHandler struct {
	service service.BookingService
	respond httputil.Responder
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		respond: httputil.NewResponder(log, "BookingHandler"),
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", h.GetAll)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.PATCH("/api/v1/bookings/id/:id", h.Update)
	router.DELETE("/api/v1/bookings/id/:id", h.Delete)
	router.GET("/api/v1/rooms/id/:id/bookings", h.ListForRoom)
	router.GET("/api/v1/rooms/id/:id/availability", h.Availability)
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req CreateBookingRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.respond.Error(w, "Create", err)
		return
	}
	booking, err := req.toBooking()
	if err == nil {
		err = h.service.Create(r.Context(), booking)
	}
	if err != nil {
		h.respond.Error(w, "Create", err)
		return
	}
	h.respond.Created(w, "Create", booking)
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.respond.Error(w, "GetByID", err)
		return
	}
	h.respond.OK(w, "GetByID", booking)
}

func (h *BookingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.respond.Error(w, "GetAll", err)
		return
	}
	bookings, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.respond.Error(w, "GetAll", err)
		return
	}
	h.respond.Paginated(w, "GetAll", bookings, total, limit, offset)
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req UpdateBookingRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.respond.Error(w, "Update", err)
		return
	}
	updates, err := req.toUpdate()
	if err != nil {
		h.respond.Error(w, "Update", err)
		return
	}
	booking, err := h.service.Update(r.Context(), ps.ByName("id"), updates)
	if err != nil {
		h.respond.Error(w, "Update", err)
		return
	}
	h.respond.OK(w, "Update", booking)
}

// Delete answers with the removed booking.
func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.Delete(r.Context(), ps.ByName("id"))
	if err != nil {
		h.respond.Error(w, "Delete", err)
		return
	}
	h.respond.OK(w, "Delete", booking)
}

// ListForRoom serves GET /api/v1/rooms/id/:id/bookings. With start and end
// query parameters only the bookings overlapping that range are returned.
func (h *BookingHandler) ListForRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomID := ps.ByName("id")
	start, end, ranged, err := httputil.ExtractTimeRange(r)
	if err != nil {
		h.respond.Error(w, "ListForRoom", err)
		return
	}

	var bookings []*model.Booking
	if ranged {
		bookings, err = h.service.ListForRoomInRange(r.Context(), roomID, model.NewInterval(start, end))
	} else {
		bookings, err = h.service.ListForRoom(r.Context(), roomID)
	}
	if err != nil {
		h.respond.Error(w, "ListForRoom", err)
		return
	}
	h.respond.OK(w, "ListForRoom", bookings)
}

func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	start, end, ok, err := httputil.ExtractTimeRange(r)
	if err == nil && !ok {
		err = apperrors.InvalidInput("both 'start' and 'end' query parameters are required")
	}
	if err != nil {
		h.respond.Error(w, "Availability", err)
		return
	}

	existing, err := h.service.CheckAvailability(r.Context(), ps.ByName("id"), model.NewInterval(start, end))
	if err != nil {
		h.respond.Error(w, "Availability", err)
		return
	}
	h.respond.OK(w, "Availability", AvailabilityResponse{Available: existing == nil, Conflict: existing})
}

func (req CreateBookingRequest) toBooking() (*model.Booking, error) {
	start, err := httputil.ParseTime("start", req.Start)
	if err != nil {
		return nil, err
	}
	end, err := httputil.ParseTime("end", req.End)
	if err != nil {
		return nil, err
	}
	return &model.Booking{
		Organizer: req.Organizer,
		RoomID:    req.RoomID,
		Interval:  model.NewInterval(start, end),
	}, nil
}

func (req UpdateBookingRequest) toUpdate() (*model.BookingUpdate, error) {
	updates := &model.BookingUpdate{
		Organizer: req.Organizer,
		RoomID:    req.RoomID,
	}
	var err error
	if updates.Start, err = parseOptionalTime("start", req.Start); err != nil {
		return nil, err
	}
	if updates.End, err = parseOptionalTime("end", req.End); err != nil {
		return nil, err
	}
	return updates, nil
}

func parseOptionalTime(field string, value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	t, err := httputil.ParseTime(field, *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

package handler

import (
	"net/http"

	"salas/internal/rooms/service"
	httputil "salas/pkg/http"
	"salas/pkg/logger"
	"salas/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type RoomHandler struct {
	service service.RoomService
	respond httputil.Responder
}

func NewRoomHandler(service service.RoomService, log *logger.Logger) *RoomHandler {
	return &RoomHandler{
		service: service,
		respond: httputil.NewResponder(log, "RoomHandler"),
	}
}

func (h *RoomHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/rooms", h.Create)
	router.GET("/api/v1/rooms", h.GetAll)
	router.GET("/api/v1/rooms/id/:id", h.GetByID)
	router.PATCH("/api/v1/rooms/id/:id", h.Update)
	router.DELETE("/api/v1/rooms/id/:id", h.Delete)
}

func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var room model.Room
	if err := httputil.DecodeJSON(r, &room); err != nil {
		h.respond.Error(w, "Create", err)
		return
	}
	if err := h.service.Create(r.Context(), &room); err != nil {
		h.respond.Error(w, "Create", err)
		return
	}
	h.respond.Created(w, "Create", room)
}

func (h *RoomHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	room, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.respond.Error(w, "GetByID", err)
		return
	}
	h.respond.OK(w, "GetByID", room)
}

// GetAll lists rooms page by page, or every room with a matching name when
// the name query parameter is present.
func (h *RoomHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	if query.Has("name") {
		rooms, err := h.service.FindByName(r.Context(), query.Get("name"))
		if err != nil {
			h.respond.Error(w, "FindByName", err)
			return
		}
		h.respond.OK(w, "FindByName", rooms)
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.respond.Error(w, "GetAll", err)
		return
	}
	rooms, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.respond.Error(w, "GetAll", err)
		return
	}
	h.respond.Paginated(w, "GetAll", rooms, total, limit, offset)
}

func (h *RoomHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.RoomUpdate
	if err := httputil.DecodeJSON(r, &updates); err != nil {
		h.respond.Error(w, "Update", err)
		return
	}
	room, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		h.respond.Error(w, "Update", err)
		return
	}
	h.respond.OK(w, "Update", room)
}

// Delete answers with the removed room; its bookings are removed with it.
func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	room, err := h.service.Delete(r.Context(), ps.ByName("id"))
	if err != nil {
		h.respond.Error(w, "Delete", err)
		return
	}
	h.respond.OK(w, "Delete", room)
}

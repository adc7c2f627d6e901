package sanitizer

import (
	"strings"

	"salas/pkg/model"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var locationPipeline = Pipeline{
	strings.TrimSpace,
	strings.ToUpper,
}

func SanitizeLocation(location string) string {
	return locationPipeline.Apply(location)
}

func SanitizeRoom(room *model.Room) {
	if room == nil {
		return
	}
	room.Name = NormalizeName(room.Name)
	room.Location = SanitizeLocation(room.Location)
}

func SanitizeRoomUpdate(update *model.RoomUpdate) {
	if update == nil {
		return
	}
	if update.Name != nil {
		name := NormalizeName(*update.Name)
		update.Name = &name
	}
	if update.Location != nil {
		location := SanitizeLocation(*update.Location)
		update.Location = &location
	}
}

func SanitizeBooking(booking *model.Booking) {
	if booking == nil {
		return
	}
	booking.Organizer = NormalizeOrganizer(booking.Organizer)
	booking.RoomID = strings.TrimSpace(booking.RoomID)
}

func SanitizeBookingUpdate(update *model.BookingUpdate) {
	if update == nil {
		return
	}
	if update.Organizer != nil {
		organizer := NormalizeOrganizer(*update.Organizer)
		update.Organizer = &organizer
	}
	if update.RoomID != nil {
		roomID := strings.TrimSpace(*update.RoomID)
		update.RoomID = &roomID
	}
}

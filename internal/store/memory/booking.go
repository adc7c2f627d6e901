package memory

import (
	"context"
	"time"

	bookingserrors "salas/internal/bookings/errors"
	roomserrors "salas/internal/rooms/errors"
	mongotx "salas/pkg/db/mongo"
	"salas/pkg/model"

	"github.com/google/uuid"
)

type BookingRepository struct {
	store *Store
}

func (r *BookingRepository) Create(_ context.Context, booking *model.Booking) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[booking.RoomID]
	if !ok {
		return roomserrors.ErrNotFound
	}

	booking.ID = uuid.NewString()
	booking.CreatedAt = time.Now().UTC()

	s.bookings[booking.ID] = booking.Clone()
	s.bookingOrder = append(s.bookingOrder, booking.ID)
	room.BookingIDs = append(room.BookingIDs, booking.ID)
	return nil
}

func (r *BookingRepository) FindByID(_ context.Context, id string) (*model.Booking, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	booking, ok := s.bookings[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	return booking.Clone(), nil
}

func (r *BookingRepository) FindAll(_ context.Context, limit int, offset int64) ([]*model.Booking, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := page(s.bookingOrder, limit, offset)
	bookings := make([]*model.Booking, 0, len(ids))
	for _, id := range ids {
		bookings = append(bookings, s.bookings[id].Clone())
	}
	return bookings, nil
}

func (r *BookingRepository) Count(_ context.Context) (int64, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.bookings)), nil
}

func (r *BookingRepository) FindByRoom(_ context.Context, roomID string) ([]*model.Booking, error) {
	return r.collect(roomID, func(*model.Booking) bool { return true }), nil
}

func (r *BookingRepository) FindByRoomInRange(_ context.Context, roomID string, interval model.Interval) ([]*model.Booking, error) {
	return r.collect(roomID, func(b *model.Booking) bool {
		return model.Overlaps(b.Interval, interval)
	}), nil
}

func (r *BookingRepository) collect(roomID string, keep func(*model.Booking) bool) []*model.Booking {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	bookings := []*model.Booking{}
	room, ok := s.rooms[roomID]
	if !ok {
		return bookings
	}
	for _, id := range room.BookingIDs {
		if b, ok := s.bookings[id]; ok && keep(b) {
			bookings = append(bookings, b.Clone())
		}
	}
	return bookings
}

// Update replaces the booking. When its room changed the id moves from the
// old room's index to the end of the new one's.
func (r *BookingRepository) Update(_ context.Context, booking *model.Booking, _ string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.bookings[booking.ID]
	if !ok {
		return bookingserrors.ErrNotFound
	}

	if booking.RoomID != stored.RoomID {
		newRoom, ok := s.rooms[booking.RoomID]
		if !ok {
			return roomserrors.ErrNotFound
		}
		if oldRoom, ok := s.rooms[stored.RoomID]; ok {
			oldRoom.BookingIDs = remove(oldRoom.BookingIDs, booking.ID)
		}
		newRoom.BookingIDs = append(newRoom.BookingIDs, booking.ID)
	}

	updated := booking.Clone()
	updated.CreatedAt = stored.CreatedAt
	s.bookings[booking.ID] = updated
	return nil
}

func (r *BookingRepository) Delete(_ context.Context, id string) (*model.Booking, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	booking, ok := s.bookings[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}

	delete(s.bookings, id)
	s.bookingOrder = remove(s.bookingOrder, id)
	if room, ok := s.rooms[booking.RoomID]; ok {
		room.BookingIDs = remove(room.BookingIDs, id)
	}
	return booking, nil
}

func (r *BookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.store.ExecuteTransaction(ctx, fn)
}

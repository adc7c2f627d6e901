package memory

import (
	"context"
	"time"

	roomserrors "salas/internal/rooms/errors"
	mongotx "salas/pkg/db/mongo"
	"salas/pkg/model"
	"salas/pkg/sanitizer"

	"github.com/google/uuid"
)

type RoomRepository struct {
	store *Store
}

func (r *RoomRepository) Create(_ context.Context, room *model.Room) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	room.ID = uuid.NewString()
	room.CreatedAt = time.Now().UTC()
	room.BookingIDs = []string{}

	s.rooms[room.ID] = room.Clone()
	s.roomOrder = append(s.roomOrder, room.ID)
	return nil
}

func (r *RoomRepository) FindByID(_ context.Context, id string) (*model.Room, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[id]
	if !ok {
		return nil, roomserrors.ErrNotFound
	}
	return room.Clone(), nil
}

func (r *RoomRepository) FindAll(_ context.Context, limit int, offset int64) ([]*model.Room, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := page(s.roomOrder, limit, offset)
	rooms := make([]*model.Room, 0, len(ids))
	for _, id := range ids {
		rooms = append(rooms, s.rooms[id].Clone())
	}
	return rooms, nil
}

func (r *RoomRepository) FindByName(_ context.Context, name string) ([]*model.Room, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := sanitizer.NormalizeNameForComparison(name)
	rooms := []*model.Room{}
	for _, id := range s.roomOrder {
		room := s.rooms[id]
		if sanitizer.NormalizeNameForComparison(room.Name) == key {
			rooms = append(rooms, room.Clone())
		}
	}
	return rooms, nil
}

func (r *RoomRepository) Count(_ context.Context) (int64, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.rooms)), nil
}

func (r *RoomRepository) Update(_ context.Context, id string, room *model.Room) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.rooms[id]
	if !ok {
		return roomserrors.ErrNotFound
	}
	stored.Name = room.Name
	stored.Capacity = room.Capacity
	stored.Location = room.Location
	return nil
}

// Delete removes the room record only. Callers cascade its bookings first.
func (r *RoomRepository) Delete(_ context.Context, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[id]; !ok {
		return roomserrors.ErrNotFound
	}
	delete(s.rooms, id)
	s.roomOrder = remove(s.roomOrder, id)
	return nil
}

func (r *RoomRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.store.ExecuteTransaction(ctx, fn)
}

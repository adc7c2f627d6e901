// Package memory is the in-process backend: a Room Registry and a Booking
// Store sharing one lock, so writes that touch a booking and its room's
// index are atomic. Reads return copies.
package memory

import (
	"context"
	"slices"
	"sync"

	mongotx "salas/pkg/db/mongo"
	"salas/pkg/model"
)

type Store struct {
	mu           sync.RWMutex
	rooms        map[string]*model.Room
	roomOrder    []string
	bookings     map[string]*model.Booking
	bookingOrder []string
	tx           mongotx.DirectTransactionManager
}

func New() *Store {
	return &Store{
		rooms:    make(map[string]*model.Room),
		bookings: make(map[string]*model.Booking),
	}
}

func (s *Store) Rooms() *RoomRepository {
	return &RoomRepository{store: s}
}

func (s *Store) Bookings() *BookingRepository {
	return &BookingRepository{store: s}
}

func (s *Store) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return s.tx.ExecuteTransaction(ctx, fn)
}

func page[T any](items []T, limit int, offset int64) []T {
	if offset >= int64(len(items)) {
		return items[:0]
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func remove(ids []string, id string) []string {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(ids, i, i+1)
	}
	return ids
}

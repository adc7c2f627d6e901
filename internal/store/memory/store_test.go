package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	bookingserrors "salas/internal/bookings/errors"
	bookingsrepo "salas/internal/bookings/repository"
	roomserrors "salas/internal/rooms/errors"
	roomsrepo "salas/internal/rooms/repository"
	"salas/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ roomsrepo.RoomRepository       = (*RoomRepository)(nil)
	_ bookingsrepo.BookingRepository = (*BookingRepository)(nil)
)

var base = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time { return base.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }

func newRoom(t *testing.T, s *Store, name string) *model.Room {
	t.Helper()
	room := &model.Room{Name: name, Capacity: 4, Location: "A1"}
	require.NoError(t, s.Rooms().Create(context.Background(), room))
	return room
}

func newBooking(t *testing.T, s *Store, roomID string, start, end time.Time) *model.Booking {
	t.Helper()
	b := &model.Booking{Organizer: "Alice", RoomID: roomID, Interval: model.Interval{Start: start, End: end}}
	require.NoError(t, s.Bookings().Create(context.Background(), b))
	return b
}

func TestRooms_CreateFindCopy(t *testing.T) {
	s := New()
	room := newRoom(t, s, "Board Room")
	require.NotEmpty(t, room.ID)

	got, err := s.Rooms().FindByID(context.Background(), room.ID)
	require.NoError(t, err)
	assert.Equal(t, "Board Room", got.Name)

	got.Name = "mutated"
	got.BookingIDs = append(got.BookingIDs, "x")
	again, _ := s.Rooms().FindByID(context.Background(), room.ID)
	assert.Equal(t, "Board Room", again.Name, "reads are copies")
	assert.Empty(t, again.BookingIDs)

	_, err = s.Rooms().FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, roomserrors.ErrNotFound)
}

func TestRooms_FindAllPaginatesInCreationOrder(t *testing.T) {
	s := New()
	for i := 0; i < 5; i++ {
		newRoom(t, s, fmt.Sprintf("Room %d", i))
	}

	rooms, err := s.Rooms().FindAll(context.Background(), 2, 1)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "Room 1", rooms[0].Name)
	assert.Equal(t, "Room 2", rooms[1].Name)

	rooms, err = s.Rooms().FindAll(context.Background(), 10, 10)
	require.NoError(t, err)
	assert.Empty(t, rooms)

	count, _ := s.Rooms().Count(context.Background())
	assert.Equal(t, int64(5), count)
}

func TestRooms_FindByNameIgnoresCaseAndSpacing(t *testing.T) {
	s := New()
	newRoom(t, s, "Board Room")
	newRoom(t, s, "Annex")

	rooms, err := s.Rooms().FindByName(context.Background(), "  board   ROOM ")
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "Board Room", rooms[0].Name)

	rooms, _ = s.Rooms().FindByName(context.Background(), "Nope")
	assert.Empty(t, rooms)
}

func TestRooms_UpdateKeepsIndex(t *testing.T) {
	s := New()
	room := newRoom(t, s, "Old")
	b := newBooking(t, s, room.ID, at(9, 0), at(10, 0))

	require.NoError(t, s.Rooms().Update(context.Background(), room.ID, &model.Room{Name: "New", Capacity: 9, Location: "B2"}))

	got, _ := s.Rooms().FindByID(context.Background(), room.ID)
	assert.Equal(t, "New", got.Name)
	assert.Equal(t, 9, got.Capacity)
	assert.Equal(t, []string{b.ID}, got.BookingIDs)

	assert.ErrorIs(t, s.Rooms().Update(context.Background(), "missing", got), roomserrors.ErrNotFound)
}

func TestRooms_Delete(t *testing.T) {
	s := New()
	room := newRoom(t, s, "Gone")

	require.NoError(t, s.Rooms().Delete(context.Background(), room.ID))
	assert.ErrorIs(t, s.Rooms().Delete(context.Background(), room.ID), roomserrors.ErrNotFound)
	count, _ := s.Rooms().Count(context.Background())
	assert.Zero(t, count)
}

func TestBookings_CreateIndexesOnRoomInOrder(t *testing.T) {
	s := New()
	room := newRoom(t, s, "R")
	b1 := newBooking(t, s, room.ID, at(20, 20), at(21, 21))
	b2 := newBooking(t, s, room.ID, at(17, 20), at(18, 22))

	got, _ := s.Rooms().FindByID(context.Background(), room.ID)
	assert.Equal(t, []string{b1.ID, b2.ID}, got.BookingIDs)

	list, err := s.Bookings().FindByRoom(context.Background(), room.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b1.ID, list[0].ID, "stored order, not time order")
	assert.Equal(t, b2.ID, list[1].ID)
}

func TestBookings_CreateUnknownRoom(t *testing.T) {
	s := New()
	err := s.Bookings().Create(context.Background(), &model.Booking{RoomID: "missing"})
	assert.ErrorIs(t, err, roomserrors.ErrNotFound)

	count, _ := s.Bookings().Count(context.Background())
	assert.Zero(t, count)
}

func TestBookings_FindByRoomUnknownRoomIsEmpty(t *testing.T) {
	list, err := New().Bookings().FindByRoom(context.Background(), "missing")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestBookings_FindByRoomInRangeInclusive(t *testing.T) {
	s := New()
	room := newRoom(t, s, "R")
	morning := newBooking(t, s, room.ID, at(9, 0), at(10, 0))
	newBooking(t, s, room.ID, at(12, 0), at(13, 0))
	evening := newBooking(t, s, room.ID, at(18, 0), at(19, 0))

	list, err := s.Bookings().FindByRoomInRange(context.Background(), room.ID, model.Interval{Start: at(10, 0), End: at(11, 0)})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, morning.ID, list[0].ID, "touching end is included")

	list, _ = s.Bookings().FindByRoomInRange(context.Background(), room.ID, model.Interval{Start: at(17, 0), End: at(18, 0)})
	require.Len(t, list, 1)
	assert.Equal(t, evening.ID, list[0].ID)
}

func TestBookings_UpdateMovesBetweenRooms(t *testing.T) {
	s := New()
	r1 := newRoom(t, s, "R1")
	r2 := newRoom(t, s, "R2")
	b := newBooking(t, s, r1.ID, at(9, 0), at(10, 0))
	created := b.CreatedAt

	moved := b.Clone()
	moved.RoomID = r2.ID
	moved.CreatedAt = time.Time{}
	require.NoError(t, s.Bookings().Update(context.Background(), moved, r1.ID))

	old, _ := s.Rooms().FindByID(context.Background(), r1.ID)
	assert.Empty(t, old.BookingIDs)
	target, _ := s.Rooms().FindByID(context.Background(), r2.ID)
	assert.Equal(t, []string{b.ID}, target.BookingIDs)

	got, _ := s.Bookings().FindByID(context.Background(), b.ID)
	assert.Equal(t, r2.ID, got.RoomID)
	assert.Equal(t, created, got.CreatedAt)
}

func TestBookings_UpdateToUnknownRoomChangesNothing(t *testing.T) {
	s := New()
	r1 := newRoom(t, s, "R1")
	b := newBooking(t, s, r1.ID, at(9, 0), at(10, 0))

	moved := b.Clone()
	moved.RoomID = "missing"
	moved.Organizer = "Mallory"
	assert.ErrorIs(t, s.Bookings().Update(context.Background(), moved, r1.ID), roomserrors.ErrNotFound)

	got, _ := s.Bookings().FindByID(context.Background(), b.ID)
	assert.Equal(t, "Alice", got.Organizer)
	room, _ := s.Rooms().FindByID(context.Background(), r1.ID)
	assert.Equal(t, []string{b.ID}, room.BookingIDs)
}

func TestBookings_Delete(t *testing.T) {
	s := New()
	room := newRoom(t, s, "R")
	b := newBooking(t, s, room.ID, at(9, 0), at(10, 0))

	removed, err := s.Bookings().Delete(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, removed.ID)

	got, _ := s.Rooms().FindByID(context.Background(), room.ID)
	assert.Empty(t, got.BookingIDs)

	_, err = s.Bookings().Delete(context.Background(), b.ID)
	assert.ErrorIs(t, err, bookingserrors.ErrNotFound)
}

func TestStore_ConcurrentCreatesKeepIndexConsistent(t *testing.T) {
	s := New()
	room := newRoom(t, s, "R")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b := &model.Booking{Organizer: "x", RoomID: room.ID, Interval: model.Interval{Start: at(i, 0), End: at(i, 30)}}
			assert.NoError(t, s.Bookings().Create(context.Background(), b))
		}(i)
	}
	wg.Wait()

	got, _ := s.Rooms().FindByID(context.Background(), room.ID)
	assert.Len(t, got.BookingIDs, 50)
	count, _ := s.Bookings().Count(context.Background())
	assert.Equal(t, int64(50), count)
}

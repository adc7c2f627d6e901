package service

import (
	"context"
	"errors"
	"slices"
	"sync"

	bookingserrors "salas/internal/bookings/errors"
	roomserrors "salas/internal/rooms/errors"
	"salas/internal/rooms/repository"
	"salas/internal/rooms/validator"
	"salas/pkg/config"
	apperrors "salas/pkg/errors"
	"salas/pkg/events"
	"salas/pkg/lock"
	"salas/pkg/model"
	"salas/pkg/sanitizer"
	"salas/pkg/validation"
)

type RoomService interface {
	Create(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id string) (*model.Room, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Room, int64, error)
	FindByName(ctx context.Context, name string) ([]*model.Room, error)
	Update(ctx context.Context, id string, updates *model.RoomUpdate) (*model.Room, error)
	Delete(ctx context.Context, id string) (*model.Room, error)
}

// RoomBookings is the slice of the booking store the room cascade needs.
// Delete removes a single booking together with its room index entry.
type RoomBookings interface {
	FindByRoom(ctx context.Context, roomID string) ([]*model.Booking, error)
	Delete(ctx context.Context, id string) (*model.Booking, error)
}

type roomService struct {
	repo      repository.RoomRepository
	bookings  RoomBookings
	locker    lock.Locker
	validator *validator.RoomValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewRoomService(
	repo repository.RoomRepository,
	bookings RoomBookings,
	locker lock.Locker,
	validator *validator.RoomValidator,
	publisher events.Publisher,
	cfg *config.Config,
) RoomService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &roomService{
		repo:      repo,
		bookings:  bookings,
		locker:    locker,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *roomService) Create(ctx context.Context, room *model.Room) error {
	sanitizer.SanitizeRoom(room)

	if err := checkCapacity(room.Capacity); err != nil {
		s.cfg.Log.Warn("Room capacity rejected", "name", room.Name, "capacity", room.Capacity)
		return err
	}
	if err := checkLocation(room.Location); err != nil {
		s.cfg.Log.Warn("Room location rejected", "name", room.Name, "location", room.Location)
		return err
	}
	if err := s.validator.Validate(room); err != nil {
		s.cfg.Log.Warn("Room validation failed",
			"name", room.Name,
			"error", err,
		)
		return apperrors.Validation("Room validation failed", validation.DetailsOf(err))
	}

	if err := s.repo.Create(ctx, room); err != nil {
		s.cfg.Log.Error("Failed to create room",
			"name", room.Name,
			"error", err,
		)
		return apperrors.Internal("Failed to create room", err)
	}

	s.cfg.Log.Info("Room created successfully",
		"id", room.ID,
		"name", room.Name,
		"capacity", room.Capacity,
		"location", room.Location,
	)
	events.Emit(ctx, s.publisher, s.cfg.Log, events.RoomCreated, room.ID, room.ID, room)
	return nil
}

func (s *roomService) GetByID(ctx context.Context, id string) (*model.Room, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}

	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRoomError(err, id, "Failed to retrieve room")
	}
	return room, nil
}

func (s *roomService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Room, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var rooms []*model.Room
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.Count(ctx)
		if err != nil {
			s.cfg.Log.Error("Failed to count rooms", "error", err)
			errCount = apperrors.Internal("Failed to count rooms", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		rooms, err = s.repo.FindAll(ctx, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to get all rooms",
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to retrieve rooms", err)
		}
	}()
	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return rooms, count, nil
}

// FindByName matches names case-insensitively after whitespace is
// normalized. Several rooms may share a name.
func (s *roomService) FindByName(ctx context.Context, name string) ([]*model.Room, error) {
	name = sanitizer.NormalizeName(name)
	if name == "" {
		return nil, apperrors.InvalidInput("Room name cannot be empty")
	}

	rooms, err := s.repo.FindByName(ctx, name)
	if err != nil {
		s.cfg.Log.Error("Failed to find rooms by name",
			"name", name,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve rooms by name", err)
	}

	s.cfg.Log.Debug("Rooms found by name", "name", name, "count", len(rooms))
	return rooms, nil
}

// Update revalidates each field it touches. The booking index is left as is.
func (s *roomService) Update(ctx context.Context, id string, updates *model.RoomUpdate) (*model.Room, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}
	if updates == nil {
		return nil, apperrors.InvalidInput("Update body cannot be empty")
	}

	sanitizer.SanitizeRoomUpdate(updates)
	if updates.Capacity != nil {
		if err := checkCapacity(*updates.Capacity); err != nil {
			return nil, err
		}
	}
	if updates.Location != nil {
		if err := checkLocation(*updates.Location); err != nil {
			return nil, err
		}
	}
	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Room update validation failed",
			"id", id,
			"error", err,
		)
		return nil, apperrors.Validation("Room validation failed", validation.DetailsOf(err))
	}

	unlock, err := s.lockRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var updated *model.Room
	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return s.mapRoomError(err, id, "Failed to check room existence")
		}

		merged := mergeRoomUpdates(existing, updates)
		if err := s.repo.Update(txCtx, id, merged); err != nil {
			return s.mapRoomError(err, id, "Failed to update room")
		}
		updated = merged
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update room",
			"id", id,
			"error", err,
		)
		return nil, err
	}

	s.cfg.Log.Info("Room updated successfully",
		"id", id,
		"name", updated.Name,
	)
	events.Emit(ctx, s.publisher, s.cfg.Log, events.RoomUpdated, id, id, updated)
	return updated, nil
}

// Delete removes every booking in the room's index, then the room itself.
// Index entries whose booking is already gone are skipped.
func (s *roomService) Delete(ctx context.Context, id string) (*model.Room, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}

	unlock, err := s.lockRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var room *model.Room
	var removed []*model.Booking
	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		removed = removed[:0]

		var err error
		room, err = s.repo.FindByID(txCtx, id)
		if err != nil {
			return s.mapRoomError(err, id, "Failed to check room existence")
		}

		bookingIDs, err := s.cascadeIDs(txCtx, room)
		if err != nil {
			return err
		}
		for _, bookingID := range bookingIDs {
			booking, err := s.bookings.Delete(txCtx, bookingID)
			if err != nil {
				if errors.Is(err, bookingserrors.ErrNotFound) {
					s.cfg.Log.Debug("Indexed booking already removed", "room_id", id, "booking_id", bookingID)
					continue
				}
				return apperrors.Internal("Failed to delete room bookings", err)
			}
			removed = append(removed, booking)
		}

		if err := s.repo.Delete(txCtx, id); err != nil {
			return s.mapRoomError(err, id, "Failed to delete room")
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to delete room",
			"id", id,
			"error", err,
		)
		return nil, err
	}

	s.cfg.Log.Info("Room deleted successfully",
		"id", id,
		"bookings_removed", len(removed),
	)
	for _, booking := range removed {
		events.Emit(ctx, s.publisher, s.cfg.Log, events.BookingDeleted, id, booking.ID, booking)
	}
	events.Emit(ctx, s.publisher, s.cfg.Log, events.RoomDeleted, id, id, room)

	return room, nil
}

// cascadeIDs lists every booking to remove with room: its index first, then
// rows that still point at the room but never made it into the index.
func (s *roomService) cascadeIDs(ctx context.Context, room *model.Room) ([]string, error) {
	ids := slices.Clone(room.BookingIDs)
	rows, err := s.bookings.FindByRoom(ctx, room.ID)
	if err != nil {
		return nil, apperrors.Internal("Failed to list room bookings", err)
	}
	for _, booking := range rows {
		if !slices.Contains(ids, booking.ID) {
			s.cfg.Log.Warn("Booking missing from room index", "room_id", room.ID, "booking_id", booking.ID)
			ids = append(ids, booking.ID)
		}
	}
	return ids, nil
}

func (s *roomService) lockRoom(ctx context.Context, id string) (func(), error) {
	unlock, err := s.locker.Lock(ctx, lock.RoomKey(id))
	if err != nil {
		s.cfg.Log.Warn("Failed to acquire room lock", "id", id, "error", err)
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			appErr := apperrors.Timeout("Timed out waiting for the room to become available for changes")
			appErr.Err = err
			return nil, appErr
		}
		return nil, apperrors.Internal("Failed to acquire room lock", err)
	}
	return unlock, nil
}

func (s *roomService) mapRoomError(err error, id, internalMsg string) error {
	switch {
	case errors.Is(err, roomserrors.ErrNotFound):
		appErr := apperrors.NotFoundWithID("Room", id)
		appErr.Err = roomserrors.ErrNotFound
		return appErr
	case errors.Is(err, roomserrors.ErrInvalidID):
		appErr := apperrors.InvalidInput("Invalid room ID format")
		appErr.Err = err
		return appErr
	}
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Internal(internalMsg, err)
}

func checkCapacity(capacity int) error {
	if !model.IsValidCapacity(capacity) {
		return apperrors.InvalidValue("capacity", capacity, roomserrors.ErrInvalidCapacity)
	}
	return nil
}

func checkLocation(location string) error {
	if !model.IsValidLocation(location) {
		return apperrors.InvalidValue("location", location, roomserrors.ErrInvalidLocation)
	}
	return nil
}

func mergeRoomUpdates(existing *model.Room, updates *model.RoomUpdate) *model.Room {
	merged := existing.Clone()

	if updates.Name != nil {
		merged.Name = *updates.Name
	}
	if updates.Capacity != nil {
		merged.Capacity = *updates.Capacity
	}
	if updates.Location != nil {
		merged.Location = *updates.Location
	}

	return merged
}

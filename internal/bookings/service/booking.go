package service

import (
	"context"
	"errors"
	"sync"

	"salas/internal/bookings/conflict"
	bookingserrors "salas/internal/bookings/errors"
	"salas/internal/bookings/repository"
	"salas/internal/bookings/validator"
	roomserrors "salas/internal/rooms/errors"
	"salas/pkg/config"
	apperrors "salas/pkg/errors"
	"salas/pkg/events"
	"salas/pkg/lock"
	"salas/pkg/model"
	"salas/pkg/sanitizer"
	"salas/pkg/validation"
)

// maxMoveRetries bounds how often Update re-locks after finding that the
// booking changed rooms between its first read and the lock.
const maxMoveRetries = 3

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	Update(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, error)
	Delete(ctx context.Context, id string) (*model.Booking, error)
	ListForRoom(ctx context.Context, roomID string) ([]*model.Booking, error)
	ListForRoomInRange(ctx context.Context, roomID string, interval model.Interval) ([]*model.Booking, error)
	// CheckAvailability returns the booking that blocks interval in roomID,
	// or nil when the room is free.
	CheckAvailability(ctx context.Context, roomID string, interval model.Interval) (*model.Booking, error)
}

// RoomFinder resolves room ids. Both room repositories satisfy it.
type RoomFinder interface {
	FindByID(ctx context.Context, id string) (*model.Room, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	rooms     RoomFinder
	resolver  *conflict.Resolver
	locker    lock.Locker
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	rooms RoomFinder,
	locker lock.Locker,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &bookingService{
		repo:      repo,
		rooms:     rooms,
		resolver:  conflict.NewResolver(repo),
		locker:    locker,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Create checks, in order, that the room exists, that the interval is
// valid and that nothing in the room overlaps it, then stores the booking
// and indexes it on the room. booking.ID is set on success.
func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	sanitizer.SanitizeBooking(booking)
	if err := s.validate(booking); err != nil {
		return err
	}

	unlock, err := s.lockRooms(ctx, booking.RoomID)
	if err != nil {
		return err
	}
	defer unlock()

	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if err := s.ensureRoom(txCtx, booking.RoomID); err != nil {
			return err
		}
		if !booking.Interval.IsValid() {
			return invalidInterval(booking.Interval)
		}
		if err := s.checkConflict(txCtx, booking.RoomID, booking.Interval, ""); err != nil {
			return err
		}
		if err := s.repo.Create(txCtx, booking); err != nil {
			if errors.Is(err, roomserrors.ErrNotFound) {
				return roomNotFound(booking.RoomID)
			}
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.logFailure("Failed to create booking", err, "room_id", booking.RoomID)
		return err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"room_id", booking.RoomID,
		"start", booking.Start,
		"end", booking.End,
	)
	events.Emit(ctx, s.publisher, s.cfg.Log, events.BookingCreated, booking.RoomID, booking.ID, booking)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	return s.findBooking(ctx, id)
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// Update applies a partial change. Unset fields keep their current value.
// The target room must exist, the result must not overlap any other
// booking in that room and the interval must be valid; on any failure
// nothing is written. Both the current and the target room stay locked for
// the whole check-then-write.
func (s *bookingService) Update(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if updates == nil {
		return nil, apperrors.InvalidInput("Update body cannot be empty")
	}

	sanitizer.SanitizeBookingUpdate(updates)
	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Booking update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", validation.DetailsOf(err))
	}

	for attempt := 0; attempt < maxMoveRetries; attempt++ {
		current, err := s.findBooking(ctx, id)
		if err != nil {
			return nil, err
		}

		targetRoomID := current.RoomID
		if updates.RoomID != nil {
			targetRoomID = *updates.RoomID
		}

		unlock, err := s.lockRooms(ctx, current.RoomID, targetRoomID)
		if err != nil {
			return nil, err
		}
		updated, moved, err := s.applyUpdate(ctx, id, current.RoomID, updates)
		unlock()

		if moved {
			s.cfg.Log.Debug("Booking moved while waiting for lock, retrying", "id", id, "attempt", attempt+1)
			continue
		}
		if err != nil {
			s.logFailure("Failed to update booking", err, "id", id)
			return nil, err
		}

		s.cfg.Log.Info("Booking updated successfully",
			"id", id,
			"room_id", updated.RoomID,
			"previous_room_id", current.RoomID,
		)
		events.Emit(ctx, s.publisher, s.cfg.Log, events.BookingUpdated, updated.RoomID, updated.ID, updated)
		return updated, nil
	}

	return nil, apperrors.Conflict("Booking is being modified concurrently, please retry")
}

// applyUpdate runs under the room locks. moved reports that the booking no
// longer lives in lockedRoomID, so the locks held are the wrong ones.
func (s *bookingService) applyUpdate(ctx context.Context, id, lockedRoomID string, updates *model.BookingUpdate) (*model.Booking, bool, error) {
	var updated *model.Booking
	var moved bool

	err := s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.findBooking(txCtx, id)
		if err != nil {
			return err
		}
		if existing.RoomID != lockedRoomID {
			moved = true
			return nil
		}

		merged := mergeBookingUpdates(existing, updates)

		if merged.RoomID != existing.RoomID {
			if err := s.ensureRoom(txCtx, merged.RoomID); err != nil {
				return err
			}
		}
		if err := s.checkConflict(txCtx, merged.RoomID, merged.Interval, id); err != nil {
			return err
		}
		if !merged.Interval.IsValid() {
			return invalidInterval(merged.Interval)
		}

		if err := s.repo.Update(txCtx, merged, existing.RoomID); err != nil {
			switch {
			case errors.Is(err, bookingserrors.ErrNotFound):
				return bookingNotFound(id)
			case errors.Is(err, roomserrors.ErrNotFound):
				return roomNotFound(merged.RoomID)
			}
			return apperrors.Internal("Failed to update booking", err)
		}
		updated = merged
		return nil
	})
	if err != nil || moved {
		return nil, moved, err
	}
	return updated, false, nil
}

// Delete removes the booking and its entry in the room index and returns
// what was removed. Unknown ids are reported, not ignored.
func (s *bookingService) Delete(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	var removed *model.Booking
	err := s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		var err error
		removed, err = s.repo.Delete(txCtx, id)
		if err != nil {
			return s.mapBookingError(err, id, "Failed to delete booking")
		}
		return nil
	})
	if err != nil {
		s.logFailure("Failed to delete booking", err, "id", id)
		return nil, err
	}

	s.cfg.Log.Info("Booking deleted successfully", "id", id, "room_id", removed.RoomID)
	events.Emit(ctx, s.publisher, s.cfg.Log, events.BookingDeleted, removed.RoomID, removed.ID, removed)
	return removed, nil
}

// ListForRoom does not check that the room exists; an unknown room simply
// has no bookings.
func (s *bookingService) ListForRoom(ctx context.Context, roomID string) ([]*model.Booking, error) {
	if roomID == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}

	bookings, err := s.repo.FindByRoom(ctx, roomID)
	if err != nil {
		s.cfg.Log.Error("Failed to list room bookings", "room_id", roomID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	s.cfg.Log.Debug("Room bookings listed", "room_id", roomID, "count", len(bookings))
	return bookings, nil
}

// ListForRoomInRange returns the room's bookings that overlap interval,
// touching endpoints included. A zero-length interval is a point query.
func (s *bookingService) ListForRoomInRange(ctx context.Context, roomID string, interval model.Interval) ([]*model.Booking, error) {
	if roomID == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}
	if interval.Start.After(interval.End) {
		return nil, invalidInterval(interval)
	}

	bookings, err := s.repo.FindByRoomInRange(ctx, roomID, interval)
	if err != nil {
		s.cfg.Log.Error("Failed to search room bookings",
			"room_id", roomID,
			"start", interval.Start,
			"end", interval.End,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to search bookings", err)
	}

	s.cfg.Log.Debug("Room booking search completed",
		"room_id", roomID,
		"start", interval.Start,
		"end", interval.End,
		"count", len(bookings),
	)
	return bookings, nil
}

func (s *bookingService) CheckAvailability(ctx context.Context, roomID string, interval model.Interval) (*model.Booking, error) {
	if err := s.ensureRoom(ctx, roomID); err != nil {
		return nil, err
	}
	if !interval.IsValid() {
		return nil, invalidInterval(interval)
	}

	existing, err := s.resolver.FindConflict(ctx, roomID, interval, "")
	if err != nil {
		return nil, apperrors.Internal("Failed to check availability", err)
	}
	return existing, nil
}

// --- Helpers ---

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", validation.DetailsOf(err))
	}
	return nil
}

func (s *bookingService) lockRooms(ctx context.Context, roomIDs ...string) (func(), error) {
	keys := make([]string, 0, len(roomIDs))
	for _, id := range roomIDs {
		keys = append(keys, lock.RoomKey(id))
	}

	unlock, err := s.locker.Lock(ctx, keys...)
	if err != nil {
		s.cfg.Log.Warn("Failed to acquire room lock", "rooms", roomIDs, "error", err)
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			appErr := apperrors.Timeout("Timed out waiting for the room to become available for changes")
			appErr.Err = err
			return nil, appErr
		}
		return nil, apperrors.Internal("Failed to acquire room lock", err)
	}
	return unlock, nil
}

func (s *bookingService) ensureRoom(ctx context.Context, roomID string) error {
	if _, err := s.rooms.FindByID(ctx, roomID); err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) || errors.Is(err, roomserrors.ErrInvalidID) {
			return roomNotFound(roomID)
		}
		return apperrors.Internal("Failed to resolve room", err)
	}
	return nil
}

func (s *bookingService) checkConflict(ctx context.Context, roomID string, candidate model.Interval, excludeID string) error {
	existing, err := s.resolver.FindConflict(ctx, roomID, candidate, excludeID)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}
	if existing == nil {
		return nil
	}

	conflictErr := &bookingserrors.ConflictError{
		RoomID:    roomID,
		Attempted: candidate,
		Existing:  existing.Interval,
		BookingID: existing.ID,
	}
	appErr := apperrors.Conflict(conflictErr.Error()).WithDetails(conflictErr.Details())
	appErr.Err = conflictErr
	return appErr
}

func (s *bookingService) findBooking(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapBookingError(err, id, "Failed to retrieve booking")
	}
	return booking, nil
}

func (s *bookingService) mapBookingError(err error, id, internalMsg string) error {
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound):
		return bookingNotFound(id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		appErr := apperrors.InvalidInput("Invalid booking ID format")
		appErr.Err = err
		return appErr
	}
	return apperrors.Internal(internalMsg, err)
}

func (s *bookingService) logFailure(msg string, err error, args ...any) {
	args = append(args, "error", err)
	if apperrors.HasCode(err, apperrors.CodeInternal) || !apperrors.IsAppError(err) {
		s.cfg.Log.Error(msg, args...)
		return
	}
	s.cfg.Log.Warn(msg, args...)
}

func mergeBookingUpdates(existing *model.Booking, updates *model.BookingUpdate) *model.Booking {
	merged := existing.Clone()

	if updates.Organizer != nil {
		merged.Organizer = *updates.Organizer
	}
	if updates.Start != nil {
		merged.Start = *updates.Start
	}
	if updates.End != nil {
		merged.End = *updates.End
	}
	if updates.RoomID != nil {
		merged.RoomID = *updates.RoomID
	}

	return merged
}

func bookingNotFound(id string) error {
	appErr := apperrors.NotFoundWithID("Booking", id)
	appErr.Err = bookingserrors.ErrNotFound
	return appErr
}

func roomNotFound(id string) error {
	appErr := apperrors.NotFoundWithID("Room", id)
	appErr.Err = roomserrors.ErrNotFound
	return appErr
}

func invalidInterval(interval model.Interval) error {
	return apperrors.InvalidValue("interval", interval.RFC3339(), bookingserrors.ErrInvalidTimeRange)
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	bookingserrors "salas/internal/bookings/errors"
	roomserrors "salas/internal/rooms/errors"
	roomsrepo "salas/internal/rooms/repository"
	"salas/pkg/config"
	mongotx "salas/pkg/db/mongo"
	"salas/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Bookings"
)

// BookingRepository stores bookings and keeps each room's booking index in
// step with them. Create, Update and Delete touch both the booking and the
// room index; run them inside ExecuteTransaction.
type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error)
	Count(ctx context.Context) (int64, error)
	// FindByRoom returns the room's bookings in stored order: the order of
	// the room's booking index. An unknown room yields an empty list.
	FindByRoom(ctx context.Context, roomID string) ([]*model.Booking, error)
	FindByRoomInRange(ctx context.Context, roomID string, interval model.Interval) ([]*model.Booking, error)
	Update(ctx context.Context, booking *model.Booking, previousRoomID string) error
	Delete(ctx context.Context, id string) (*model.Booking, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	rooms      *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		rooms:      db.Collection(roomsrepo.CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}
	return oid, nil
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	roomOID, err := roomsrepo.ObjectID(booking.RoomID)
	if err != nil {
		return err
	}

	booking.ID = ""
	booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}

	return r.pushToRoom(ctx, roomOID, booking.ID)
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var booking model.Booking
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	return r.find(ctx, bson.M{}, opts)
}

func (r *mongoBookingRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func (r *mongoBookingRepository) FindByRoom(ctx context.Context, roomID string) ([]*model.Booking, error) {
	return r.findForRoom(ctx, roomID, bson.M{"room_id": roomID})
}

// FindByRoomInRange uses the same inclusive overlap rule as conflict
// detection: a booking touching either end of interval is included.
func (r *mongoBookingRepository) FindByRoomInRange(ctx context.Context, roomID string, interval model.Interval) ([]*model.Booking, error) {
	return r.findForRoom(ctx, roomID, bson.M{
		"room_id": roomID,
		"start":   bson.M{"$lte": interval.End},
		"end":     bson.M{"$gte": interval.Start},
	})
}

func (r *mongoBookingRepository) findForRoom(ctx context.Context, roomID string, filter bson.M) ([]*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	index, err := r.roomIndex(ctx, roomID)
	if err != nil {
		return nil, err
	}

	bookings, err := r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}

	position := make(map[string]int, len(index))
	for i, id := range index {
		position[id] = i
	}
	// Bookings missing from the index (none, unless the index was edited by
	// hand) keep _id order after the indexed ones.
	slices.SortStableFunc(bookings, func(a, b *model.Booking) int {
		pa, okA := position[a.ID]
		pb, okB := position[b.ID]
		switch {
		case okA && okB:
			return pa - pb
		case okA:
			return -1
		case okB:
			return 1
		default:
			return 0
		}
	})
	return bookings, nil
}

func (r *mongoBookingRepository) roomIndex(ctx context.Context, roomID string) ([]string, error) {
	roomOID, err := primitive.ObjectIDFromHex(roomID)
	if err != nil {
		return nil, nil
	}

	var room struct {
		BookingIDs []string `bson:"booking_ids"`
	}
	opts := options.FindOne().SetProjection(bson.M{"booking_ids": 1})
	if err := r.rooms.FindOne(ctx, bson.M{"_id": roomOID}, opts).Decode(&room); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read room booking index: %w", err)
	}
	return room.BookingIDs, nil
}

func (r *mongoBookingRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Booking, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []*model.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepository) Update(ctx context.Context, booking *model.Booking, previousRoomID string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(booking.ID)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"organizer": booking.Organizer,
		"start":     booking.Start,
		"end":       booking.End,
		"room_id":   booking.RoomID,
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if result.MatchedCount == 0 {
		return bookingserrors.ErrNotFound
	}

	if previousRoomID == booking.RoomID {
		return nil
	}

	newRoomOID, err := roomsrepo.ObjectID(booking.RoomID)
	if err != nil {
		return err
	}
	if err := r.pullFromRoom(ctx, previousRoomID, booking.ID); err != nil {
		return err
	}
	return r.pushToRoom(ctx, newRoomOID, booking.ID)
}

func (r *mongoBookingRepository) Delete(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var removed model.Booking
	if err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&removed); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete booking: %w", err)
	}

	if err := r.pullFromRoom(ctx, removed.RoomID, removed.ID); err != nil {
		return nil, err
	}
	return &removed, nil
}

func (r *mongoBookingRepository) pushToRoom(ctx context.Context, roomOID primitive.ObjectID, bookingID string) error {
	result, err := r.rooms.UpdateOne(ctx,
		bson.M{"_id": roomOID},
		bson.M{"$push": bson.M{"booking_ids": bookingID}},
	)
	if err != nil {
		return fmt.Errorf("failed to index booking on room: %w", err)
	}
	if result.MatchedCount == 0 {
		return roomserrors.ErrNotFound
	}
	return nil
}

// pullFromRoom tolerates a missing room: the index goes away with it.
func (r *mongoBookingRepository) pullFromRoom(ctx context.Context, roomID, bookingID string) error {
	roomOID, err := primitive.ObjectIDFromHex(roomID)
	if err != nil {
		return nil
	}
	if _, err := r.rooms.UpdateOne(ctx,
		bson.M{"_id": roomOID},
		bson.M{"$pull": bson.M{"booking_ids": bookingID}},
	); err != nil {
		return fmt.Errorf("failed to unindex booking from room: %w", err)
	}
	return nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

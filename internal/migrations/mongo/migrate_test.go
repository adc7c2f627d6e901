package mongo

import (
	"testing"

	"salas/internal/migrations/mongo/validators"
	bookingsrepo "salas/internal/bookings/repository"
	roomsrepo "salas/internal/rooms/repository"
	"salas/pkg/lock"
	"salas/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestCollections_MatchRepositories(t *testing.T) {
	names := map[string]bool{}
	for _, def := range Collections() {
		names[def.Name] = true
		assert.NotEmpty(t, def.Indexes, def.Name)
		assert.Contains(t, def.Validator, "$jsonSchema", def.Name)
	}

	assert.True(t, names[roomsrepo.CollectionName])
	assert.True(t, names[bookingsrepo.CollectionName])
	assert.True(t, names[lock.CollectionName])
}

func TestRoomLocksIndex_IsTTL(t *testing.T) {
	require.Len(t, RoomLocksIndexes, 1)
	opts := RoomLocksIndexes[0].Options
	require.NotNil(t, opts)
	require.NotNil(t, opts.ExpireAfterSeconds)
	assert.Equal(t, int32(0), *opts.ExpireAfterSeconds)
}

func TestValidators_RequireStoredFields(t *testing.T) {
	requiredOf := func(v bson.M) []string {
		return v["$jsonSchema"].(bson.M)["required"].([]string)
	}

	booking, err := bson.Marshal(&model.Booking{Organizer: "Alice", RoomID: "r"})
	require.NoError(t, err)
	for _, field := range requiredOf(validators.BookingValidator) {
		_, lookupErr := bson.Raw(booking).LookupErr(field)
		assert.NoError(t, lookupErr, "booking document lacks %q", field)
	}

	room, err := bson.Marshal(&model.Room{Name: "Blue", Capacity: 1, Location: "A1", BookingIDs: []string{}})
	require.NoError(t, err)
	for _, field := range requiredOf(validators.RoomValidator) {
		_, lookupErr := bson.Raw(room).LookupErr(field)
		assert.NoError(t, lookupErr, "room document lacks %q", field)
	}
}

// Package validators holds the $jsonSchema validators applied to each
// collection at migration time.
package validators

import "go.mongodb.org/mongo-driver/bson"

// RoomValidator mirrors model.Room. Location is one letter and one digit.
var RoomValidator = schema(
	[]string{"name", "capacity", "location", "booking_ids", "created_at"},
	bson.M{
		"_id":      objectID(),
		"name":     boundedString(1, 100),
		"capacity": bson.M{"bsonType": []string{"int", "long"}, "minimum": 1},
		"location": bson.M{"bsonType": "string", "pattern": `^\p{L}\p{Nd}$`},
		"booking_ids": bson.M{
			"bsonType":    "array",
			"uniqueItems": true,
			"items":       bson.M{"bsonType": "string"},
		},
		"created_at": date(),
	},
)

// BookingValidator mirrors model.Booking. It cannot express start < end;
// the service enforces that.
var BookingValidator = schema(
	[]string{"organizer", "room_id", "start", "end", "created_at"},
	bson.M{
		"_id":        objectID(),
		"organizer":  boundedString(1, 100),
		"room_id":    boundedString(24, 24),
		"start":      date(),
		"end":        date(),
		"created_at": date(),
	},
)

// RoomLockValidator keys lock documents by room id rather than ObjectID.
var RoomLockValidator = schema(
	[]string{"_id", "owner", "expires_at"},
	bson.M{
		"_id":        bson.M{"bsonType": "string"},
		"owner":      bson.M{"bsonType": "string"},
		"expires_at": date(),
		"created_at": date(),
	},
)

func schema(required []string, properties bson.M) bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType":             "object",
			"required":             required,
			"additionalProperties": true,
			"properties":           properties,
		},
	}
}

func objectID() bson.M {
	return bson.M{"bsonType": "objectId"}
}

func date() bson.M {
	return bson.M{"bsonType": "date"}
}

func boundedString(minLen, maxLen int) bson.M {
	return bson.M{"bsonType": "string", "minLength": minLen, "maxLength": maxLen}
}

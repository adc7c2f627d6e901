package validator

import (
	"errors"
	"strings"
	"testing"

	"salas/pkg/logger"
	"salas/pkg/model"
	"salas/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

func TestRoomValidator_Validate(t *testing.T) {
	v := NewRoomValidator(logger.Discard())

	tests := []struct {
		name      string
		room      model.Room
		wantField string
	}{
		{name: "valid", room: model.Room{Name: "Board Room", Capacity: 8, Location: "A1"}},
		{name: "valid non latin letter", room: model.Room{Name: "Sala", Capacity: 1, Location: "Ñ3"}},
		{name: "missing name", room: model.Room{Capacity: 8, Location: "A1"}, wantField: "name"},
		{name: "name too long", room: model.Room{Name: strings.Repeat("x", 101), Capacity: 8, Location: "A1"}, wantField: "name"},
		{name: "zero capacity", room: model.Room{Name: "R", Capacity: 0, Location: "A1"}, wantField: "capacity"},
		{name: "two letters", room: model.Room{Name: "R", Capacity: 2, Location: "AA"}, wantField: "location"},
		{name: "digit first", room: model.Room{Name: "R", Capacity: 2, Location: "1A"}, wantField: "location"},
		{name: "too long location", room: model.Room{Name: "R", Capacity: 2, Location: "A12"}, wantField: "location"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.room)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var verrs validation.Errors
			require.True(t, errors.As(err, &verrs))
			require.NotEmpty(t, verrs)
			assert.Equal(t, tt.wantField, verrs[0].Field)
		})
	}
}

func TestRoomValidator_ValidateUpdate(t *testing.T) {
	v := NewRoomValidator(logger.Discard())

	assert.NoError(t, v.ValidateUpdate(&model.RoomUpdate{}))
	assert.NoError(t, v.ValidateUpdate(&model.RoomUpdate{Capacity: intPtr(3), Location: strPtr("B2")}))
	assert.Error(t, v.ValidateUpdate(&model.RoomUpdate{Capacity: intPtr(0)}))
	assert.Error(t, v.ValidateUpdate(&model.RoomUpdate{Location: strPtr("B22")}))
	assert.Error(t, v.ValidateUpdate(&model.RoomUpdate{Name: strPtr("")}))
}

func TestRoomValidator_LocationMessage(t *testing.T) {
	err := NewRoomValidator(logger.Discard()).Validate(&model.Room{Name: "R", Capacity: 2, Location: "AA"})

	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "location must be one letter followed by one digit (e.g., A1)", verrs[0].Message)
}

package sanitizer

import (
	"testing"

	"salas/pkg/model"

	"github.com/stretchr/testify/assert"
)

func TestCollapseWhitespace(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trim spaces", input: "  Board Room  ", want: "Board Room"},
		{name: "multiple spaces between words", input: "Board    Room", want: "Board Room"},
		{name: "tabs and newlines", input: "Board\t\nRoom", want: "Board Room"},
		{name: "empty string", input: "", want: ""},
		{name: "only whitespace", input: "   \t\n  ", want: ""},
		{name: "preserve special characters", input: " Café & Co™ ", want: "Café & Co™"},
		{name: "non latin", input: " Sala  Reunión ", want: "Sala Reunión"},
		{name: "control characters dropped", input: "Board\x00 Room\x07", want: "Board Room"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CollapseWhitespace(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, CollapseWhitespace(got), "must be idempotent")
		})
	}
}

func TestNormalizeNameForComparison(t *testing.T) {
	assert.Equal(t, "board room", NormalizeNameForComparison("  BOARD   Room "))
	assert.Equal(t, NormalizeNameForComparison("Board Room"), NormalizeNameForComparison("board  room"))
}

func TestNormalizeOrganizer(t *testing.T) {
	assert.Equal(t, "Alice Smith", NormalizeOrganizer(" Alice \t Smith"))
}

func TestSanitizeRoom_CollapsesWhitespace(t *testing.T) {
	room := &model.Room{Name: "  Board \t  Room ", Location: " b2 "}
	SanitizeRoom(room)

	assert.Equal(t, "Board Room", room.Name)
	assert.Equal(t, "B2", room.Location)
}

func TestSanitizeBookingUpdate_LeavesAbsentFieldsNil(t *testing.T) {
	organizer := "  Bob "
	update := &model.BookingUpdate{Organizer: &organizer}
	SanitizeBookingUpdate(update)

	assert.Equal(t, "Bob", *update.Organizer)
	assert.Nil(t, update.RoomID)
	assert.Equal(t, "  Bob ", organizer, "caller's string is not mutated")
}

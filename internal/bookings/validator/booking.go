package validator

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"salas/pkg/logger"
	"salas/pkg/model"
	"salas/pkg/validation"

	"github.com/go-playground/validator/v10"
)

const maxOrganizerLength = 100

type BookingValidator struct {
	*validation.Validator
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validation.New(log)
	v.Register("organizer", validateOrganizer, func(fe validator.FieldError) string {
		return fmt.Sprintf("%s must be 1 to %d printable characters", fe.Field(), maxOrganizerLength)
	})
	return &BookingValidator{Validator: v}
}

// validateOrganizer accepts 1 to 100 printable characters that are not all blank.
func validateOrganizer(fl validator.FieldLevel) bool {
	organizer := fl.Field().String()
	if strings.TrimSpace(organizer) == "" || utf8.RuneCountInString(organizer) > maxOrganizerLength {
		return false
	}
	return strings.IndexFunc(organizer, func(r rune) bool { return !unicode.IsPrint(r) }) < 0
}

// Validate checks the fields the caller supplies. The interval is checked by
// the service, where its position in the create and update flows matters.
func (v *BookingValidator) Validate(booking *model.Booking) error {
	return v.StructExcept(booking, "Interval")
}

func (v *BookingValidator) ValidateUpdate(update *model.BookingUpdate) error {
	return v.Struct(update)
}

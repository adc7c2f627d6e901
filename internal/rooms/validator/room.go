package validator

import (
	"salas/pkg/logger"
	"salas/pkg/model"
	"salas/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type RoomValidator struct {
	*validation.Validator
}

func NewRoomValidator(log *logger.Logger) *RoomValidator {
	v := validation.New(log)
	v.Register("room_location",
		func(fl validator.FieldLevel) bool { return model.IsValidLocation(fl.Field().String()) },
		func(fe validator.FieldError) string {
			return fe.Field() + " must be one letter followed by one digit (e.g., A1)"
		},
	)
	return &RoomValidator{Validator: v}
}

func (v *RoomValidator) Validate(room *model.Room) error {
	return v.Struct(room)
}

func (v *RoomValidator) ValidateUpdate(update *model.RoomUpdate) error {
	return v.Struct(update)
}

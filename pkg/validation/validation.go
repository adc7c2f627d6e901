// Package validation wraps go-playground/validator so room and booking
// validators report failures the same way: one FieldError per rejected
// field, named by its JSON key.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"salas/pkg/logger"

	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

type Errors []FieldError

func (e Errors) Error() string {
	if len(e) == 0 {
		return ""
	}
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Error()
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(e), strings.Join(parts, "; "))
}

// Details maps each rejected field to its message, for error responses.
func (e Errors) Details() map[string]any {
	fields := make(map[string]any, len(e))
	for _, fe := range e {
		fields[fe.Field] = fe.Message
	}
	return map[string]any{"fields": fields}
}

// MessageFunc renders the message for a failed rule.
type MessageFunc func(fe validator.FieldError) string

var defaultMessages = map[string]MessageFunc{
	"required": func(fe validator.FieldError) string { return fe.Field() + " is required" },
	"min":      func(fe validator.FieldError) string { return fe.Field() + " must be at least " + fe.Param() },
	"max":      func(fe validator.FieldError) string { return fe.Field() + " must be at most " + fe.Param() },
}

type Validator struct {
	validate *validator.Validate
	messages map[string]MessageFunc
	log      *logger.Logger
}

func New(log *logger.Logger) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)

	messages := make(map[string]MessageFunc, len(defaultMessages))
	for tag, fn := range defaultMessages {
		messages[tag] = fn
	}
	return &Validator{validate: v, messages: messages, log: log}
}

func jsonName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// Register adds a custom rule under tag. A rule that cannot be registered is
// a programming error and stops the process.
func (v *Validator) Register(tag string, fn validator.Func, message MessageFunc) {
	if err := v.validate.RegisterValidation(tag, fn); err != nil {
		v.log.Fatal("Failed to register validation rule", "tag", tag, "error", err)
	}
	if message != nil {
		v.messages[tag] = message
	}
}

func (v *Validator) Struct(s any) error {
	return v.translate(v.validate.Struct(s))
}

// StructExcept validates s without the named Go fields.
func (v *Validator) StructExcept(s any, fields ...string) error {
	return v.translate(v.validate.StructExcept(s, fields...))
}

func (v *Validator) translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		msg := fe.Error()
		if render, ok := v.messages[fe.Tag()]; ok {
			msg = render(fe)
		}
		out = append(out, FieldError{Field: fe.Field(), Message: msg})
	}
	return out
}

// DetailsOf returns the response details for a validation failure.
func DetailsOf(err error) map[string]any {
	var verrs Errors
	if errors.As(err, &verrs) {
		return verrs.Details()
	}
	return map[string]any{"error": err.Error()}
}

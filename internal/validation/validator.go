package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/templui/goalkeeper/internal/model"
)

var (
	validate *validator.Validate
	once     sync.Once
)

var customTags = map[string]validator.Func{
	"password": func(fl validator.FieldLevel) bool {
		return ValidatePassword(fl.Field().String()) == nil
	},
	"unit": func(fl validator.FieldLevel) bool {
		return model.Unit(fl.Field().String()).Valid()
	},
	"sex": func(fl validator.FieldLevel) bool {
		return model.Sex(fl.Field().String()).Valid()
	},
	"notblank": func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	},
}

// Init registers the custom tags. Safe to call more than once. It panics if a tag
// cannot be registered, since every tagged struct would otherwise fail at runtime.
func Init() {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		mustRegister(v, customTags)
		validate = v
	})
}

func mustRegister(v *validator.Validate, tags map[string]validator.Func) {
	for tag, fn := range tags {
		err := v.RegisterValidation(tag, fn)
		if err != nil {
			panic(fmt.Sprintf("validation: failed to register %q: %v", tag, err))
		}
	}
}

// Struct validates v against its `validate` tags and flattens the failures into one
// readable error.
func Struct(v any) error {
	Init()

	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return &Error{Fields: msgs}
}

// Error lists the fields that failed validation.
type Error struct {
	Fields []string
}

func (e *Error) Error() string {
	return strings.Join(e.Fields, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "email":
		return "invalid email address format"
	case "password":
		return ValidatePassword(fmt.Sprint(fe.Value())).Error()
	case "unit":
		return fmt.Sprintf("unknown unit %q", fe.Value())
	case "sex":
		return "sex must be male or female"
	case "max":
		return fmt.Sprintf("%s is too long (max %s)", field, fe.Param())
	case "min", "gte", "gt":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte", "lt":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

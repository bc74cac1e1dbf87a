package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator"
)

// New returns a validator with rolodex's custom rules registered.
// Field errors are reported under the field's json name e.g. 'first_name'.
func New() *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	err := RegisterValidators(validate)
	if err != nil {
		panic(err)
	}

	return validate
}

func RegisterValidators(validate *validator.Validate) error {
	return validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		// if whitespace in password return false
		err := validate.Var(fl.Field().String(), "contains= ")
		if err == nil {
			return false
		}
		return len(fl.Field().String()) > 0
	})
}

// FieldErrors maps validation errors to a message per field
func FieldErrors(err error) map[string]string {
	fieldErrors := map[string]string{}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return fieldErrors
	}

	for _, fieldError := range validationErrors {
		if _, exists := fieldErrors[fieldError.Field()]; exists {
			continue
		}
		fieldErrors[fieldError.Field()] = message(fieldError)
	}

	return fieldErrors
}

func message(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return "Enter a value"
	case "email":
		return "Enter a valid email address"
	case "password":
		return "Enter a password without spaces"
	case "min":
		return "Enter a number greater than or equal to " + fieldError.Param()
	default:
		return "Enter a valid value"
	}
}

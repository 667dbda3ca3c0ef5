package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	phoneRegex = regexp.MustCompile(`^[0-9]{9}$`)
	dniRegex   = regexp.MustCompile(`^[1-9][0-9]{7}$`)
)

const (
	PhoneMessage = "El número de teléfono debe tener 9 dígitos."
	DNIMessage   = "El DNI debe tener 8 dígitos y no debe empezar por 0."
)

// ValidPhone reports whether s is exactly nine digits.
func ValidPhone(s string) bool {
	return phoneRegex.MatchString(s)
}

// ValidDNI reports whether s is eight digits with a non-zero leading digit.
func ValidDNI(s string) bool {
	return dniRegex.MatchString(s)
}

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return ValidPhone(fl.Field().String())
	})
	v.RegisterValidation("dni", func(fl validator.FieldLevel) bool {
		return ValidDNI(fl.Field().String())
	})

	return &CustomValidator{
		validator: v,
	}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// Var validates a single value against a tag expression such as "phone" or
// "datetime=2006-01-02".
func (cv *CustomValidator) Var(value interface{}, tag string) error {
	return cv.validator.Var(value, tag)
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required":
				errors[field] = field + " is required"
			case "email":
				errors[field] = field + " must be a valid email address"
			case "min":
				errors[field] = field + " must be at least " + e.Param() + " characters"
			case "max":
				errors[field] = field + " must be at most " + e.Param() + " characters"
			case "oneof":
				errors[field] = field + " must be one of " + e.Param()
			case "phone":
				errors[field] = PhoneMessage
			case "dni":
				errors[field] = DNIMessage
			default:
				errors[field] = field + " is invalid"
			}
		}
	}

	return errors
}

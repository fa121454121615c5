package customer

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var phonePattern = regexp.MustCompile(`^\+?[\d\-\(\)\s]+$`)

// ValidPhone reports whether phone has an optional leading '+' followed only
// by digits, dashes, parentheses and spaces.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return ValidPhone(fl.Field().String())
	})
	return v
}

// validationError maps the first failing field of in onto a domain error.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	switch fe.Field() {
	case "Phone":
		return ErrInvalidPhone
	case "Email":
		if fe.Tag() == "required" {
			return ErrEmailRequired
		}
		return ErrInvalidEmail
	case "Name":
		if fe.Tag() == "required" {
			return ErrNameRequired
		}
		return ErrNameTooLong
	default:
		return err
	}
}

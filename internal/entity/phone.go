package entity

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const PhoneField = "phone"

// an optional leading plus followed by 10 to 15 digits, nothing else
var phoneRegexp = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their json name so errors read "phone" instead of "Phone"
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation(PhoneField, func(fl validator.FieldLevel) bool {
		return phoneRegexp.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("err when registering phone validation: %s", err.Error()))
	}
	return v
}

// MissingFieldError is returned when a mandatory field is absent or empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	if e.Field == PhoneField {
		return "Please provide your phone number"
	}
	return fmt.Sprintf("Please provide your %s", e.Field)
}

// FormatValidationError is returned when a field is present but malformed.
// Value is the rejected input, unchanged.
type FormatValidationError struct {
	Field string
	Value string
}

func (e *FormatValidationError) Error() string {
	if e.Field == PhoneField {
		return fmt.Sprintf("%s is not a valid phone number!", e.Value)
	}
	return fmt.Sprintf("%s is not a valid %s!", e.Value, e.Field)
}

// IsValidationError reports whether err was caused by caller input.
func IsValidationError(err error) bool {
	var missing *MissingFieldError
	var format *FormatValidationError
	return errors.As(err, &missing) || errors.As(err, &format)
}

// ValidatePhone returns phone unchanged if it is a valid phone number.
// An empty value yields *MissingFieldError, a malformed one *FormatValidationError.
func ValidatePhone(phone string) (string, error) {
	if err := translate(validate.Var(phone, "required,"+PhoneField), PhoneField); err != nil {
		return "", err
	}
	return phone, nil
}

// translate turns the first validator failure into one of the typed errors.
// field names the value when the validator has none, as for Var.
func translate(err error, field string) error {
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return fmt.Errorf("err when validating: %w", err)
	}
	fe := ve[0]
	if fe.Field() != "" {
		field = fe.Field()
	}
	if fe.Tag() == "required" {
		return &MissingFieldError{Field: field}
	}
	return &FormatValidationError{Field: field, Value: fmt.Sprint(fe.Value())}
}

package validator

import (
	"reflect"
	"strings"

	"hospital-management-api/internal/domain/entity"

	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields under the names clients send them with.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := entity.ParseAppointmentDate(fl.Field().String())
		return err == nil
	})
	v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := entity.NormalizeAppointmentTime(fl.Field().String())
		return err == nil
	})

	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// FormatValidationErrors turns validator errors into a field to message map.
// Nested fields keep their path, e.g. "schedule[0].start_time".
func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors
	}

	for _, e := range validationErrors {
		field := fieldPath(e.Namespace())
		label := e.Field()
		switch e.Tag() {
		case "required":
			errors[field] = label + " is required"
		case "email":
			errors[field] = label + " must be a valid email address"
		case "min":
			errors[field] = label + " must be at least " + e.Param() + " characters"
		case "max":
			errors[field] = label + " must be at most " + e.Param() + " characters"
		case "gte":
			errors[field] = label + " must be greater than or equal to " + e.Param()
		case "lte":
			errors[field] = label + " must be less than or equal to " + e.Param()
		case "oneof":
			errors[field] = label + " must be one of: " + e.Param()
		case "isodate":
			errors[field] = label + " must be a date in YYYY-MM-DD format"
		case "clock":
			errors[field] = label + " must be a time in HH:MM format"
		default:
			errors[field] = label + " is invalid"
		}
	}

	return errors
}

// fieldPath drops the struct type prefix from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

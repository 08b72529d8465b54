package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"forkify/internal/recipe"
)

// Validator wraps the validator instance
type Validator struct {
	validate *validator.Validate
}

var (
	validatorOnce sync.Once
	validate      *Validator
)

// GetValidator returns the shared validator with the custom rules registered.
func GetValidator() *Validator {
	validatorOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(fieldName)
		_ = v.RegisterValidation("direction", validateDirection)
		validate = &Validator{validate: v}
	})
	return validate
}

// ValidateStruct validates a struct using tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationError turns validation errors into a field to message map
// without leaking struct names.
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["error"] = "Invalid request format"
		return errs
	}

	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			errs[field] = "This field is required"
		case "direction":
			errs[field] = fmt.Sprintf("Must be %q or %q", recipe.Inc, recipe.Dec)
		case "max":
			errs[field] = fmt.Sprintf("Must be at most %s characters", e.Param())
		case "min":
			errs[field] = fmt.Sprintf("Must be at least %s", e.Param())
		default:
			errs[field] = "Invalid value"
		}
	}

	return errs
}

// fieldName reports fields by their wire name, json first, then form.
func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return fld.Name
}

func validateDirection(fl validator.FieldLevel) bool {
	_, err := recipe.ParseDirection(fl.Field().String())
	return err == nil
}

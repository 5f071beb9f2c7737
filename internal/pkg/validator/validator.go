package validator

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks struct tags and returns field->tag violations, nil if valid.
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	violations := make(map[string]string)
	for _, fieldErr := range err.(validator.ValidationErrors) {
		violations[fieldErr.Field()] = fieldErr.Tag()
	}
	return violations
}

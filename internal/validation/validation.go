// Package validation validates request bodies and reports field-level errors.
package validation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"dwellr/internal/models"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Storage keys are opaque identifiers, not paths: letters, digits, dot,
// underscore, hyphen.
var storageKeyPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

func init() {
	// Error deliberately ignored: RegisterValidation only fails on an empty
	// tag name.
	_ = validate.RegisterValidation("storagekey", func(fl validator.FieldLevel) bool {
		return storageKeyPattern.MatchString(fl.Field().String())
	})
}

// ParseBody unmarshals a JSON request body into dst and reports malformed
// JSON or wrongly-typed fields as a VALIDATION_ERROR carrying the offending
// field names.
func ParseBody(body []byte, dst interface{}) *models.AppError {
	if len(body) == 0 {
		return models.NewValidationError("Request body is required")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		if typeErr, ok := err.(*json.UnmarshalTypeError); ok {
			field := typeErr.Field
			if field == "" {
				field = "(body)"
			}
			return models.NewValidationError(
				fmt.Sprintf("Field %q must be of type %s", field, typeErr.Type), field)
		}
		return models.NewValidationError("Invalid JSON body")
	}
	return Struct(dst)
}

// Struct runs validator tags against dst and translates failures into a
// VALIDATION_ERROR with a field list.
func Struct(dst interface{}) *models.AppError {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return models.NewValidationError("Invalid request")
	}

	fields := make([]string, 0, len(verrs))
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := lowerFirst(fe.Field())
		fields = append(fields, field)
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s exceeds maximum length %s", field, fe.Param()))
		case "storagekey":
			msgs = append(msgs, fmt.Sprintf("%s is not a valid storage key", field))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}

	return models.NewValidationError(strings.Join(msgs, "; "), fields...)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

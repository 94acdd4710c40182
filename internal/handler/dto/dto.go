// Package dto provides Data Transfer Objects for API requests and responses.
// Request shapes carry declarative validation tags and are checked before
// any handler logic runs.
package dto

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ValidationMessage renders a validator error as a short client-facing
// message describing the first failing field.
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		e := verrs[0]
		switch e.Tag() {
		case "required":
			return fmt.Sprintf("field %q is required", e.Field())
		case "email":
			return fmt.Sprintf("field %q must be a valid email address", e.Field())
		default:
			return fmt.Sprintf("field %q is invalid", e.Field())
		}
	}
	return "invalid request body"
}

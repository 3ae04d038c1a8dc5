package validator

import (
	"fmt"
	"strings"
)

// ValidationError represents one invalid field
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s: %s", ve[0].Field, ve[0].Message)
	}
	parts := make([]string, 0, len(ve))
	for _, e := range ve {
		parts = append(parts, e.Field)
	}
	return fmt.Sprintf("validation failed: %d field errors (%s)", len(ve), strings.Join(parts, ", "))
}

// Fields maps each invalid field to its first message.
func (ve ValidationErrors) Fields() map[string]string {
	fields := make(map[string]string, len(ve))
	for _, e := range ve {
		if _, ok := fields[e.Field]; !ok {
			fields[e.Field] = e.Message
		}
	}
	return fields
}

func (ve ValidationErrors) Has(field string) bool {
	for _, e := range ve {
		if e.Field == field {
			return true
		}
	}
	return false
}

// Get returns the first error reported for field.
func (ve ValidationErrors) Get(field string) (ValidationError, bool) {
	for _, e := range ve {
		if e.Field == field {
			return e, true
		}
	}
	return ValidationError{}, false
}

package assessment

import (
	"errors"
	"strings"
)

// Sentinel kinds for wizard errors.
var (
	ErrWrongStep  = errors.New("wizard step out of order")
	ErrValidation = errors.New("assessment validation failed")
)

// FieldError names one invalid field of the form.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every field problem found at submission.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

// Unwrap lets callers match with errors.Is(err, ErrValidation).
func (e *ValidationError) Unwrap() error { return ErrValidation }

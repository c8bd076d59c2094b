package models

import (
	"errors"
	"strings"
)

var (
	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = errors.New("product not found")
	// ErrCategoryNotFound is returned when a category is not found.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrDuplicateKey is returned when a write violates a unique index
	// (category name, product key).
	ErrDuplicateKey = errors.New("duplicate key")
)

// FieldError describes one invalid field.
type FieldError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

// ValidationError collects every field that failed validation.
type ValidationError struct {
	Message string
	Fields  []FieldError
}

func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Description
	}
	return strings.Join(parts, "; ")
}

// Invalid returns a ValidationError carrying only a message.
func Invalid(message string) *ValidationError {
	return &ValidationError{Message: message}
}

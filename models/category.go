package models

import (
	"strings"
	"time"
)

// Category represents a product category.
// Names are unique across the catalog.
type Category struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"uniqueIndex;not null"`
	Description string    `gorm:"not null;default:''"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (c *Category) TableName() string {
	return "categories"
}

// CategoryInput carries the client-supplied fields of a category.
type CategoryInput struct {
	Name        string
	Description string
}

// CategoryPatch lists the category fields an update may change. Nil means untouched.
type CategoryPatch struct {
	Name        *string
	Description *string
}

// NewCategory builds a Category from input, stamping createdAt with now.
// The name is stored trimmed so it resolves by exact match.
func NewCategory(in CategoryInput, now time.Time) (Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Category{}, NewValidationError(FieldError{Field: "name", Description: "name is required"})
	}
	return Category{
		Name:        name,
		Description: in.Description,
		CreatedAt:   now,
	}, nil
}

// Validate checks the fields a patch would change.
func (p CategoryPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return NewValidationError(FieldError{Field: "name", Description: "name cannot be empty"})
	}
	return nil
}

// Apply copies the patched fields onto c.
func (p CategoryPatch) Apply(c *Category) {
	if p.Name != nil {
		c.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
}

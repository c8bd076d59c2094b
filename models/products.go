package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultBrand is assigned to products created without a brand.
const DefaultBrand = "Specscart"

// Product represents a product in the catalog.
// It includes a unique product key, price, brand and a reference to its category.
type Product struct {
	ID          string          `gorm:"type:uuid;primaryKey"`
	ProductKey  string          `gorm:"uniqueIndex;not null"`
	Name        string          `gorm:"not null"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Description string          `gorm:"not null;default:''"`
	ImageURL    string          `gorm:"not null;default:''"`
	CategoryID  string          `gorm:"type:uuid;not null;index"`
	Category    Category        `gorm:"foreignKey:CategoryID"`
	Brand       string          `gorm:"not null;index"`
	InStock     bool            `gorm:"not null"`
	Attributes  map[string]any  `gorm:"type:jsonb;serializer:json"`
	CreatedAt   time.Time       `gorm:"not null"`
}

func (p *Product) TableName() string {
	return "products"
}

// ProductInput carries the client-supplied fields of a product. Nil pointers are absent fields.
type ProductInput struct {
	ProductKey  string
	Name        string
	Price       *float64
	Description string
	ImageURL    string
	CategoryID  string
	Brand       string
	InStock     *bool
	Attributes  map[string]any
}

// NewProduct applies defaults to in and checks every field invariant.
// A missing product key is generated with NewProductKey.
func NewProduct(in ProductInput, now time.Time) (Product, error) {
	var fields []FieldError

	name := strings.TrimSpace(in.Name)
	if name == "" {
		fields = append(fields, FieldError{Field: "name", Description: "name is required"})
	}
	if in.Price == nil {
		fields = append(fields, FieldError{Field: "price", Description: "price is required"})
	} else if *in.Price < 0 {
		fields = append(fields, FieldError{Field: "price", Description: "price cannot be negative"})
	}
	if strings.TrimSpace(in.CategoryID) == "" {
		fields = append(fields, FieldError{Field: "category", Description: "category is required"})
	}
	if len(fields) > 0 {
		return Product{}, NewValidationError(fields...)
	}

	p := Product{
		ProductKey:  strings.TrimSpace(in.ProductKey),
		Name:        name,
		Price:       decimal.NewFromFloat(*in.Price),
		Description: in.Description,
		ImageURL:    in.ImageURL,
		CategoryID:  strings.TrimSpace(in.CategoryID),
		Brand:       in.Brand,
		InStock:     true,
		Attributes:  in.Attributes,
		CreatedAt:   now,
	}
	if p.ProductKey == "" {
		p.ProductKey = NewProductKey()
	}
	if p.Brand == "" {
		p.Brand = DefaultBrand
	}
	if in.InStock != nil {
		p.InStock = *in.InStock
	}
	if p.Attributes == nil {
		p.Attributes = map[string]any{}
	}
	return p, nil
}

// ProductPatch lists the product fields an update may change. Nil means untouched.
// The product key is not patchable.
type ProductPatch struct {
	Name        *string
	Price       *float64
	Description *string
	ImageURL    *string
	CategoryID  *string
	Brand       *string
	InStock     *bool
	Attributes  map[string]any
}

// Validate checks the fields a patch would change.
func (p ProductPatch) Validate() error {
	var fields []FieldError
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		fields = append(fields, FieldError{Field: "name", Description: "name cannot be empty"})
	}
	if p.Price != nil && *p.Price < 0 {
		fields = append(fields, FieldError{Field: "price", Description: "price cannot be negative"})
	}
	if p.CategoryID != nil && strings.TrimSpace(*p.CategoryID) == "" {
		fields = append(fields, FieldError{Field: "category", Description: "category cannot be empty"})
	}
	if len(fields) > 0 {
		return NewValidationError(fields...)
	}
	return nil
}

// Apply copies the patched fields onto prod.
func (p ProductPatch) Apply(prod *Product) {
	if p.Name != nil {
		prod.Name = strings.TrimSpace(*p.Name)
	}
	if p.Price != nil {
		prod.Price = decimal.NewFromFloat(*p.Price)
	}
	if p.Description != nil {
		prod.Description = *p.Description
	}
	if p.ImageURL != nil {
		prod.ImageURL = *p.ImageURL
	}
	if p.CategoryID != nil {
		prod.CategoryID = strings.TrimSpace(*p.CategoryID)
	}
	if p.Brand != nil {
		prod.Brand = *p.Brand
	}
	if p.InStock != nil {
		prod.InStock = *p.InStock
	}
	if p.Attributes != nil {
		prod.Attributes = p.Attributes
	}
}

// IsEmpty reports whether the patch changes nothing.
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Price == nil && p.Description == nil && p.ImageURL == nil &&
		p.CategoryID == nil && p.Brand == nil && p.InStock == nil && p.Attributes == nil
}

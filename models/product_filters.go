package models

// ProductFilters is the predicate and ordering applied to a product search.
type ProductFilters struct {
	// Search matches name or description, case-insensitive substring.
	Search string
	// CategoryIDs restricts the category reference. Nil means unrestricted,
	// an empty non-nil slice matches no product.
	CategoryIDs []string
	Brands      []string
	PriceMin    *float64
	PriceMax    *float64
	Sort        *SortOrder
}

// SortOrder orders results by one product field.
type SortOrder struct {
	Field      string
	Descending bool
}

// MatchesNothing reports whether the filters exclude every product.
func (f ProductFilters) MatchesNothing() bool {
	return f.CategoryIDs != nil && len(f.CategoryIDs) == 0
}

// sortColumns maps sortable API field names to relational columns.
var sortColumns = map[string]string{
	"price":      "price",
	"name":       "name",
	"brand":      "brand",
	"createdAt":  "created_at",
	"productKey": "product_key",
	"inStock":    "in_stock",
}

// IsSortableField reports whether products can be ordered by field.
func IsSortableField(field string) bool {
	_, ok := sortColumns[field]
	return ok
}

package catalog

import (
	"time"

	"github.com/specscart/catalog-api/models"
)

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Product struct {
	ID          string         `json:"id"`
	ProductKey  string         `json:"productKey"`
	Name        string         `json:"name"`
	Price       float64        `json:"price"`
	Description string         `json:"description"`
	ImageURL    string         `json:"imageURL"`
	CategoryID  string         `json:"categoryId"`
	Category    *Category      `json:"category"`
	Brand       string         `json:"brand"`
	InStock     bool           `json:"inStock"`
	Attributes  map[string]any `json:"attributes"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// Response is one page of products.
type Response struct {
	TotalProducts int64     `json:"totalProducts"`
	TotalPages    int       `json:"totalPages"`
	CurrentPage   int       `json:"currentPage"`
	Products      []Product `json:"products"`
}

// ProductRequest is the body of a product creation and one row of a bulk import.
type ProductRequest struct {
	ProductKey  string         `json:"productKey"`
	Name        string         `json:"name"`
	Price       *float64       `json:"price"`
	Description string         `json:"description"`
	ImageURL    string         `json:"imageURL"`
	Category    string         `json:"category"`
	Brand       string         `json:"brand"`
	InStock     *bool          `json:"inStock"`
	Attributes  map[string]any `json:"attributes"`
}

func (r ProductRequest) input() models.ProductInput {
	return models.ProductInput{
		ProductKey:  r.ProductKey,
		Name:        r.Name,
		Price:       r.Price,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		CategoryID:  r.Category,
		Brand:       r.Brand,
		InStock:     r.InStock,
		Attributes:  r.Attributes,
	}
}

// ProductUpdateRequest carries the fields of a partial update. A productKey in the
// body is ignored.
type ProductUpdateRequest struct {
	Name        *string        `json:"name"`
	Price       *float64       `json:"price"`
	Description *string        `json:"description"`
	ImageURL    *string        `json:"imageURL"`
	Category    *string        `json:"category"`
	Brand       *string        `json:"brand"`
	InStock     *bool          `json:"inStock"`
	Attributes  map[string]any `json:"attributes"`
}

func (r ProductUpdateRequest) patch() models.ProductPatch {
	return models.ProductPatch{
		Name:        r.Name,
		Price:       r.Price,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		CategoryID:  r.Category,
		Brand:       r.Brand,
		InStock:     r.InStock,
		Attributes:  r.Attributes,
	}
}

// BulkResponse reports the inserted products and every row that was skipped.
type BulkResponse struct {
	Inserted int          `json:"inserted"`
	Products []Product    `json:"products"`
	Skipped  []SkippedRow `json:"skipped"`
}

// BulkErrorResponse is returned when no row could be imported.
type BulkErrorResponse struct {
	Error   string       `json:"error"`
	Skipped []SkippedRow `json:"skipped"`
}

func toProduct(p models.Product) Product {
	out := Product{
		ID:          p.ID,
		ProductKey:  p.ProductKey,
		Name:        p.Name,
		Price:       p.Price.InexactFloat64(),
		Description: p.Description,
		ImageURL:    p.ImageURL,
		CategoryID:  p.CategoryID,
		Brand:       p.Brand,
		InStock:     p.InStock,
		Attributes:  p.Attributes,
		CreatedAt:   p.CreatedAt,
	}
	if out.Attributes == nil {
		out.Attributes = map[string]any{}
	}
	if p.Category.ID != "" {
		out.Category = &Category{
			ID:          p.Category.ID,
			Name:        p.Category.Name,
			Description: p.Category.Description,
		}
	}
	return out
}

func toProducts(ps []models.Product) []Product {
	out := make([]Product, len(ps))
	for i, p := range ps {
		out[i] = toProduct(p)
	}
	return out
}

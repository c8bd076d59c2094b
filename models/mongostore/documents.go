package mongostore

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/specscart/catalog-api/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type categoryDocument struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description"`
	CreatedAt   time.Time `bson:"createdAt"`
}

type productDocument struct {
	ID          string               `bson:"_id"`
	ProductKey  string               `bson:"productKey"`
	Name        string               `bson:"name"`
	Price       primitive.Decimal128 `bson:"price"`
	Description string               `bson:"description"`
	ImageURL    string               `bson:"imageURL"`
	Category    string               `bson:"category"`
	Brand       string               `bson:"brand"`
	InStock     bool                 `bson:"inStock"`
	Attributes  bson.M               `bson:"attributes"`
	CreatedAt   time.Time            `bson:"createdAt"`
}

func fromCategory(c models.Category) categoryDocument {
	return categoryDocument{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}

func (d categoryDocument) model() models.Category {
	return models.Category{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
	}
}

func fromProduct(p models.Product) (productDocument, error) {
	price, err := decimalToBSON(p.Price)
	if err != nil {
		return productDocument{}, err
	}
	return productDocument{
		ID:          p.ID,
		ProductKey:  p.ProductKey,
		Name:        p.Name,
		Price:       price,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Category:    p.CategoryID,
		Brand:       p.Brand,
		InStock:     p.InStock,
		Attributes:  bson.M(p.Attributes),
		CreatedAt:   p.CreatedAt,
	}, nil
}

func (d productDocument) model() (models.Product, error) {
	price, err := decimal.NewFromString(d.Price.String())
	if err != nil {
		return models.Product{}, fmt.Errorf("product %s: bad price %q: %w", d.ID, d.Price.String(), err)
	}
	attrs := map[string]any(d.Attributes)
	if attrs == nil {
		attrs = map[string]any{}
	}
	return models.Product{
		ID:          d.ID,
		ProductKey:  d.ProductKey,
		Name:        d.Name,
		Price:       price,
		Description: d.Description,
		ImageURL:    d.ImageURL,
		CategoryID:  d.Category,
		Brand:       d.Brand,
		InStock:     d.InStock,
		Attributes:  attrs,
		CreatedAt:   d.CreatedAt,
	}, nil
}

func decimalToBSON(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("price %s: %w", d.String(), err)
	}
	return v, nil
}

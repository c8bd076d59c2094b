package mongostore

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/specscart/catalog-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func floatPtr(v float64) *float64 { return &v }
func strPtr(s string) *string     { return &s }

func TestProductFilter(t *testing.T) {
	testCases := []struct {
		name     string
		filters  models.ProductFilters
		expected bson.M
	}{
		{
			name:     "Empty",
			expected: bson.M{},
		},
		{
			name:    "Search is escaped and case-insensitive",
			filters: models.ProductFilters{Search: "a.b+"},
			expected: bson.M{"$or": bson.A{
				bson.M{"name": primitive.Regex{Pattern: `a\.b\+`, Options: "i"}},
				bson.M{"description": primitive.Regex{Pattern: `a\.b\+`, Options: "i"}},
			}},
		},
		{
			name:     "Category ids and brands",
			filters:  models.ProductFilters{CategoryIDs: []string{"c1"}, Brands: []string{"Acme", "Zed"}},
			expected: bson.M{"category": bson.M{"$in": []string{"c1"}}, "brand": bson.M{"$in": []string{"Acme", "Zed"}}},
		},
		{
			name:     "Empty category ids are kept",
			filters:  models.ProductFilters{CategoryIDs: []string{}},
			expected: bson.M{"category": bson.M{"$in": []string{}}},
		},
		{
			name:     "Price range",
			filters:  models.ProductFilters{PriceMin: floatPtr(5), PriceMax: floatPtr(50)},
			expected: bson.M{"price": bson.M{"$gte": 5.0, "$lte": 50.0}},
		},
		{
			name:     "Lower bound only",
			filters:  models.ProductFilters{PriceMin: floatPtr(5)},
			expected: bson.M{"price": bson.M{"$gte": 5.0}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, productFilter(tc.filters))
		})
	}
}

func TestFindOptions(t *testing.T) {
	opts := findOptions(16, 8, &models.SortOrder{Field: "price", Descending: true})
	require.NotNil(t, opts.Skip)
	require.NotNil(t, opts.Limit)
	assert.Equal(t, int64(16), *opts.Skip)
	assert.Equal(t, int64(8), *opts.Limit)
	assert.Equal(t, bson.D{{Key: "price", Value: -1}}, opts.Sort)

	opts = findOptions(0, 0, nil)
	assert.Nil(t, opts.Limit)
	assert.Nil(t, opts.Sort)
}

func TestProductSet(t *testing.T) {
	set, err := productSet(models.ProductPatch{
		Name:        strPtr("  Runner "),
		Price:       floatPtr(12.5),
		Description: strPtr(""),
	})
	require.NoError(t, err)

	assert.Equal(t, "Runner", set["name"])
	assert.Equal(t, "", set["description"])
	price, ok := set["price"].(primitive.Decimal128)
	require.True(t, ok)
	assert.Equal(t, "12.5", price.String())
	assert.NotContains(t, set, "productKey")
	assert.NotContains(t, set, "category")

	set, err = productSet(models.ProductPatch{})
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestProductDocumentRoundTrip(t *testing.T) {
	p := models.Product{
		ID:         "p1",
		ProductKey: "PROD-0000000A",
		Name:       "Runner",
		Price:      decimal.RequireFromString("59.99"),
		CategoryID: "c1",
		Brand:      "Acme",
		InStock:    true,
		CreatedAt:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	doc, err := fromProduct(p)
	require.NoError(t, err)
	assert.Equal(t, "c1", doc.Category)

	back, err := doc.model()
	require.NoError(t, err)
	assert.True(t, p.Price.Equal(back.Price))
	assert.Equal(t, map[string]any{}, back.Attributes)
	assert.Equal(t, p.ProductKey, back.ProductKey)
}

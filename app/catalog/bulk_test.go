package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/specscart/catalog-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBatch(t *testing.T) {
	testCases := []struct {
		name          string
		body          string
		expectedRows  int
		expectedError string
	}{
		{name: "Envelope", body: `{"products":[{"name":"A"},{"name":"B"}]}`, expectedRows: 2},
		{name: "Bare array", body: ` [{"name":"A"}] `, expectedRows: 1},
		{name: "Rows of any shape are kept", body: `[1, "x", null]`, expectedRows: 3},
		{name: "Empty array", body: `{"products":[]}`, expectedError: "Products data must be a non-empty array"},
		{name: "Missing products", body: `{}`, expectedError: "Products data must be a non-empty array"},
		{name: "Products is an object", body: `{"products":{"name":"A"}}`, expectedError: "Products data must be a non-empty array"},
		{name: "Broken envelope", body: `{"products":[`, expectedError: "Invalid JSON body"},
		{name: "Empty body", body: ``, expectedError: "Products data must be a non-empty array"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rows, err := DecodeBatch([]byte(tc.body))

			if tc.expectedError != "" {
				var verr *models.ValidationError
				require.True(t, errors.As(err, &verr))
				assert.Equal(t, tc.expectedError, verr.Error())
				return
			}
			require.NoError(t, err)
			assert.Len(t, rows, tc.expectedRows)
		})
	}
}

func TestResolveRows(t *testing.T) {
	rows, err := DecodeBatch([]byte(`[
		{"name":"Runner","price":10,"category":"Shoes"},
		{"name":"Lamp","price":5,"category":"Unknown"},
		"not an object",
		{"name":"Cap","price":3,"category":42},
		{"name":"Boot","price":80,"category":"Shoes","attributes":{"size":44}}
	]`))
	require.NoError(t, err)

	plan, err := ResolveRows(context.Background(), rows, newResolver("Shoes"))
	require.NoError(t, err)

	require.Len(t, plan.Accepted, 2)
	assert.Equal(t, 0, plan.Accepted[0].Index)
	assert.Equal(t, "cat-Shoes", plan.Accepted[0].Draft.CategoryID)
	assert.Equal(t, 4, plan.Accepted[1].Index)
	assert.Equal(t, map[string]any{"size": 44.0}, plan.Accepted[1].Draft.Attributes)

	assert.Equal(t, []SkippedRow{
		{Index: 1, Name: "Lamp", Reason: `category "Unknown" not found`},
		{Index: 2, Reason: "row is not a valid product object"},
		{Index: 3, Name: "Cap", Reason: "missing category"},
	}, plan.Skipped)

	t.Run("Wrongly typed fields keep the row accepted", func(t *testing.T) {
		rows, err := DecodeBatch([]byte(`[
			{"name":"A","category":"Shoes","price":10},
			{"name":"B","category":"Shoes","price":"5"},
			{"name":"C","category":"Shoes","price":3,"inStock":"yes"}
		]`))
		require.NoError(t, err)

		plan, err := ResolveRows(context.Background(), rows, newResolver("Shoes"))
		require.NoError(t, err)
		assert.Empty(t, plan.Skipped)
		require.Len(t, plan.Accepted, 3)
		assert.Empty(t, plan.Accepted[0].Faults)
		assert.Equal(t, []models.FieldError{{Field: "price", Description: "price must be a number"}}, plan.Accepted[1].Faults)
		assert.Equal(t, []models.FieldError{{Field: "inStock", Description: "inStock must be a boolean"}}, plan.Accepted[2].Faults)

		_, err = plan.BuildProducts(fixedNow)
		var verr *models.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "row 1: price must be a number", verr.Error())
		assert.Equal(t, "price", verr.Fields[0].Field)
	})

	t.Run("Resolver failure aborts", func(t *testing.T) {
		_, err := ResolveRows(context.Background(), rows, &MockResolver{Err: errors.New("db down")})
		assert.Error(t, err)
	})
}

func TestBuildProducts(t *testing.T) {
	price := 10.0
	plan := ImportPlan{Accepted: []RowResult{
		{Index: 0, Accepted: true, Draft: models.ProductInput{Name: "A", Price: &price, CategoryID: "cat-Shoes"}, Category: models.Category{ID: "cat-Shoes", Name: "Shoes"}},
		{Index: 2, Accepted: true, Draft: models.ProductInput{Name: "B", Price: &price, CategoryID: "cat-Shoes"}, Category: models.Category{ID: "cat-Shoes", Name: "Shoes"}},
	}}

	products, err := plan.BuildProducts(fixedNow)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.NotEqual(t, products[0].ProductKey, products[1].ProductKey)
	assert.Equal(t, "Shoes", products[1].Category.Name)
	assert.True(t, fixedNow.Equal(products[0].CreatedAt))

	_, err = ImportPlan{}.BuildProducts(fixedNow)
	assert.EqualError(t, err, "No valid products to insert")

	plan.Accepted[1].Draft.Price = nil
	_, err = plan.BuildProducts(fixedNow)
	assert.EqualError(t, err, "row 2: price is required")
}

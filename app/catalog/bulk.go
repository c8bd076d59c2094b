package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/specscart/catalog-api/models"
	"github.com/specscart/catalog-api/pkg/logger"
)

var errEmptyBatch = models.Invalid("Products data must be a non-empty array")

// SkippedRow records a bulk import row that was not accepted.
type SkippedRow struct {
	Index  int    `json:"index"`
	Name   string `json:"name,omitempty"`
	Reason string `json:"reason"`
}

// RowResult is the outcome of resolving one row: either Accepted with its draft
// or Skipped with a reason.
type RowResult struct {
	Index    int
	Accepted bool
	Draft    models.ProductInput
	Category models.Category
	Skip     SkippedRow
	// Faults lists fields of an accepted row that could not be decoded.
	Faults []models.FieldError
}

// ImportPlan splits a batch into accepted drafts and the skip log.
type ImportPlan struct {
	Accepted []RowResult
	Skipped  []SkippedRow
}

// DecodeBatch reads a bulk body: {"products": [...]} or a bare array.
func DecodeBatch(body []byte) ([]json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	raw := json.RawMessage(body)
	if len(body) > 0 && body[0] == '{' {
		var envelope struct {
			Products json.RawMessage `json:"products"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, models.Invalid("Invalid JSON body")
		}
		raw = envelope.Products
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil || len(rows) == 0 {
		return nil, errEmptyBatch
	}
	return rows, nil
}

// ResolveRows resolves the category name of every row independently. Rows that are
// not objects, or have no string category, or an unknown one, are skipped; store
// failures abort. Other field faults stay on the accepted row and fail BuildProducts.
func ResolveRows(ctx context.Context, rows []json.RawMessage, resolver CategoryResolver) (ImportPlan, error) {
	var plan ImportPlan
	for i, raw := range rows {
		res, err := resolveRow(ctx, i, raw, resolver)
		if err != nil {
			return ImportPlan{}, err
		}
		if !res.Accepted {
			logger.Warn().
				Int("row", res.Skip.Index).
				Str("name", res.Skip.Name).
				Str("reason", res.Skip.Reason).
				Msg("bulk import row skipped")
			plan.Skipped = append(plan.Skipped, res.Skip)
			continue
		}
		plan.Accepted = append(plan.Accepted, res)
	}
	return plan, nil
}

func resolveRow(ctx context.Context, index int, raw json.RawMessage, resolver CategoryResolver) (RowResult, error) {
	skip := func(name, reason string) RowResult {
		return RowResult{Index: index, Skip: SkippedRow{Index: index, Name: name, Reason: reason}}
	}

	// Only the shape of the row and its category decide whether it is skipped.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return skip("", "row is not a valid product object"), nil
	}
	var name, categoryName string
	_ = json.Unmarshal(fields["name"], &name)
	if err := json.Unmarshal(fields["category"], &categoryName); err != nil || strings.TrimSpace(categoryName) == "" {
		return skip(name, "missing category"), nil
	}

	category, ok, err := resolver.Resolve(ctx, categoryName)
	if err != nil {
		return RowResult{}, fmt.Errorf("resolve category of row %d: %w", index, err)
	}
	if !ok {
		return skip(name, fmt.Sprintf("category %q not found", categoryName)), nil
	}

	var req ProductRequest
	faults := decodeFaults(json.Unmarshal(raw, &req))

	draft := req.input()
	draft.CategoryID = category.ID
	return RowResult{Index: index, Accepted: true, Draft: draft, Category: category, Faults: faults}, nil
}

// decodeFaults turns a decoding error of a well-formed object into field errors.
func decodeFaults(err error) []models.FieldError {
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return []models.FieldError{{
			Field:       typeErr.Field,
			Description: fmt.Sprintf("%s must be %s", typeErr.Field, jsonKind(typeErr.Type)),
		}}
	}
	return []models.FieldError{{Field: "row", Description: err.Error()}}
}

func jsonKind(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int64:
		return "a number"
	case reflect.Bool:
		return "a boolean"
	case reflect.String:
		return "a string"
	case reflect.Map, reflect.Struct:
		return "an object"
	default:
		return "of type " + t.String()
	}
}

// BuildProducts turns every accepted draft into a product. The first draft with a
// decoding fault or a field rule violation fails the whole batch.
func (p ImportPlan) BuildProducts(now time.Time) ([]models.Product, error) {
	if len(p.Accepted) == 0 {
		return nil, models.Invalid("No valid products to insert")
	}
	products := make([]models.Product, 0, len(p.Accepted))
	for _, row := range p.Accepted {
		if len(row.Faults) > 0 {
			return nil, rowError(row.Index, models.NewValidationError(row.Faults...))
		}
		product, err := models.NewProduct(row.Draft, now)
		if err != nil {
			var verr *models.ValidationError
			if errors.As(err, &verr) {
				return nil, rowError(row.Index, verr)
			}
			return nil, err
		}
		product.Category = row.Category
		products = append(products, product)
	}
	return products, nil
}

func rowError(index int, verr *models.ValidationError) *models.ValidationError {
	return &models.ValidationError{
		Message: fmt.Sprintf("row %d: %s", index, verr.Error()),
		Fields:  verr.Fields,
	}
}

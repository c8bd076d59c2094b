package catalog

import (
	"context"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/specscart/catalog-api/models"
)

const (
	defaultPage        = 1
	defaultListLimit   = 10
	defaultFilterLimit = 8
)

// CategoryResolver maps category names to stored categories.
type CategoryResolver interface {
	ResolveIDs(ctx context.Context, names []string) ([]string, error)
	Resolve(ctx context.Context, name string) (models.Category, bool, error)
}

// Pagination is a 1-based page window.
type Pagination struct {
	Page  int
	Limit int
}

// Offset is the number of matches before the page. It saturates at math.MaxInt
// instead of overflowing, so a huge page is past the end rather than wrapped.
func (p Pagination) Offset() int {
	if p.Limit > 0 && p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// TotalPages is ceil(total / limit).
func (p Pagination) TotalPages(total int64) int {
	if p.Limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(p.Limit)))
}

// ParsePagination reads page and limit. Missing, malformed or non-positive values
// fall back to page 1 and defaultLimit.
func ParsePagination(q url.Values, defaultLimit int) Pagination {
	return Pagination{
		Page:  positiveInt(q.Get("page"), defaultPage),
		Limit: positiveInt(q.Get("limit"), defaultLimit),
	}
}

// BuildFilters translates the search query parameters into product filters.
// Category names are resolved to ids; when none resolve the filters match nothing.
func BuildFilters(ctx context.Context, q url.Values, resolver CategoryResolver) (models.ProductFilters, error) {
	filters := models.ProductFilters{
		Search:   q.Get("search"),
		PriceMin: parseFloatPtr(q.Get("price_min")),
		PriceMax: parseFloatPtr(q.Get("price_max")),
		Sort:     ParseSort(q.Get("sort")),
	}

	if category := q.Get("category"); category != "" {
		ids, err := resolver.ResolveIDs(ctx, strings.Split(category, ","))
		if err != nil {
			return models.ProductFilters{}, err
		}
		filters.CategoryIDs = ids
	}

	if brand := q.Get("brand"); brand != "" {
		filters.Brands = splitList(brand)
	}

	return filters, nil
}

// ParseSort reads field_direction. The order is ascending only for "asc".
// Unknown fields yield no ordering.
func ParseSort(s string) *models.SortOrder {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "_")
	if !models.IsSortableField(parts[0]) {
		return nil
	}
	direction := ""
	if len(parts) > 1 {
		direction = parts[1]
	}
	return &models.SortOrder{
		Field:      parts[0],
		Descending: direction != "asc",
	}
}

func positiveInt(s string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 1 {
		return def
	}
	return v
}

func parseFloatPtr(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// splitList splits a comma separated list, trimming items and dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

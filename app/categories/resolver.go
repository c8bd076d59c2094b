package categories

import (
	"context"
	"strings"

	"github.com/specscart/catalog-api/models"
)

type CategoryFinder interface {
	FindCategoriesByName(ctx context.Context, names []string) ([]models.Category, error)
}

// Resolver maps category names to stored categories. Names match exactly after
// trimming surrounding whitespace.
type Resolver struct {
	finder CategoryFinder
}

func NewResolver(f CategoryFinder) *Resolver {
	return &Resolver{finder: f}
}

// ResolveIDs returns the ids of every category named in names. Blank names are
// ignored. The result is never nil.
func (r *Resolver) ResolveIDs(ctx context.Context, names []string) ([]string, error) {
	trimmed := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			trimmed = append(trimmed, n)
		}
	}
	ids := []string{}
	if len(trimmed) == 0 {
		return ids, nil
	}

	found, err := r.finder.FindCategoriesByName(ctx, trimmed)
	if err != nil {
		return nil, err
	}
	for _, c := range found {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

// Resolve looks up the category named name.
func (r *Resolver) Resolve(ctx context.Context, name string) (models.Category, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Category{}, false, nil
	}
	found, err := r.finder.FindCategoriesByName(ctx, []string{name})
	if err != nil {
		return models.Category{}, false, err
	}
	if len(found) == 0 {
		return models.Category{}, false, nil
	}
	return found[0], true, nil
}

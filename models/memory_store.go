package models

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory implementation of the category and product repositories.
// It keeps insertion order, which is the natural order of unsorted searches.
type MemoryStore struct {
	mu         sync.RWMutex
	categories []Category
	products   []Product
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		categories: []Category{},
		products:   []Product{},
	}
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

// --- categories ---

func (s *MemoryStore) GetAllCategories(context.Context) ([]Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.categories), nil
}

func (s *MemoryStore) GetCategoryByID(_ context.Context, id string) (*Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.categoryIndex(id)
	if i < 0 {
		return nil, ErrCategoryNotFound
	}
	c := s.categories[i]
	return &c, nil
}

func (s *MemoryStore) FindCategoriesByName(_ context.Context, names []string) ([]Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	found := []Category{}
	for _, c := range s.categories {
		if slices.Contains(names, c.Name) {
			found = append(found, c)
		}
	}
	return found, nil
}

func (s *MemoryStore) CreateCategory(_ context.Context, category *Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.categoryNameTaken(category.Name, "") {
		return ErrDuplicateKey
	}
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	s.categories = append(s.categories, *category)
	return nil
}

func (s *MemoryStore) UpdateCategory(_ context.Context, id string, patch CategoryPatch) (*Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.categoryIndex(id)
	if i < 0 {
		return nil, ErrCategoryNotFound
	}
	updated := s.categories[i]
	patch.Apply(&updated)
	if s.categoryNameTaken(updated.Name, id) {
		return nil, ErrDuplicateKey
	}
	s.categories[i] = updated
	return &updated, nil
}

func (s *MemoryStore) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.categoryIndex(id)
	if i < 0 {
		return ErrCategoryNotFound
	}
	s.categories = slices.Delete(s.categories, i, i+1)
	return nil
}

func (s *MemoryStore) categoryIndex(id string) int {
	return slices.IndexFunc(s.categories, func(c Category) bool { return c.ID == id })
}

func (s *MemoryStore) categoryNameTaken(name, exceptID string) bool {
	return slices.ContainsFunc(s.categories, func(c Category) bool {
		return c.Name == name && c.ID != exceptID
	})
}

// --- products ---

func (s *MemoryStore) GetFilteredProducts(_ context.Context, offset, limit int, filters ProductFilters) ([]Product, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := []Product{}
	for _, p := range s.products {
		if matchesFilter(p, filters) {
			filtered = append(filtered, s.withCategory(p, true))
		}
	}
	if filters.Sort != nil {
		slices.SortStableFunc(filtered, compareBy(*filters.Sort))
	}

	total := int64(len(filtered))
	start := min(max(offset, 0), len(filtered))
	end := len(filtered)
	if limit > 0 {
		end = start + min(limit, len(filtered)-start)
	}
	return filtered[start:end], total, nil
}

func (s *MemoryStore) GetByID(_ context.Context, id string) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findProduct(func(p Product) bool { return p.ID == id })
}

func (s *MemoryStore) GetByKey(_ context.Context, key string) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findProduct(func(p Product) bool { return p.ProductKey == key })
}

func (s *MemoryStore) CreateProduct(_ context.Context, product *Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.productKeyTaken(product.ProductKey) {
		return ErrDuplicateKey
	}
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	s.products = append(s.products, storedProduct(*product))
	return nil
}

// CreateProducts inserts all products or none.
func (s *MemoryStore) CreateProducts(_ context.Context, products []Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]bool, len(products))
	for _, p := range products {
		if seen[p.ProductKey] || s.productKeyTaken(p.ProductKey) {
			return ErrDuplicateKey
		}
		seen[p.ProductKey] = true
	}
	for i := range products {
		if products[i].ID == "" {
			products[i].ID = uuid.NewString()
		}
		s.products = append(s.products, storedProduct(products[i]))
	}
	return nil
}

func (s *MemoryStore) UpdateByKey(_ context.Context, key string, patch ProductPatch) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.products, func(p Product) bool { return p.ProductKey == key })
	if i < 0 {
		return nil, ErrProductNotFound
	}
	patch.Attributes = maps.Clone(patch.Attributes)
	patch.Apply(&s.products[i])
	p := s.withCategory(s.products[i], false)
	return &p, nil
}

func (s *MemoryStore) DeleteByKey(_ context.Context, key string) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.products, func(p Product) bool { return p.ProductKey == key })
	if i < 0 {
		return nil, ErrProductNotFound
	}
	deleted := s.products[i]
	s.products = slices.Delete(s.products, i, i+1)
	return &deleted, nil
}

// Clear drops every stored document.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = []Category{}
	s.products = []Product{}
}

func (s *MemoryStore) findProduct(match func(Product) bool) (*Product, error) {
	i := slices.IndexFunc(s.products, match)
	if i < 0 {
		return nil, ErrProductNotFound
	}
	p := s.withCategory(s.products[i], false)
	return &p, nil
}

func (s *MemoryStore) productKeyTaken(key string) bool {
	return slices.ContainsFunc(s.products, func(p Product) bool { return p.ProductKey == key })
}

// withCategory returns a copy of p with its category populated, if it still exists.
func (s *MemoryStore) withCategory(p Product, summary bool) Product {
	p = cloneProduct(p)
	if i := s.categoryIndex(p.CategoryID); i >= 0 {
		c := s.categories[i]
		if summary {
			c = Category{ID: c.ID, Name: c.Name, Description: c.Description}
		}
		p.Category = c
	}
	return p
}

// storedProduct drops the populated category; it is joined again on read.
func storedProduct(p Product) Product {
	p = cloneProduct(p)
	p.Category = Category{}
	return p
}

func cloneProduct(p Product) Product {
	p.Attributes = maps.Clone(p.Attributes)
	return p
}

func matchesFilter(p Product, f ProductFilters) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			return false
		}
	}
	if f.CategoryIDs != nil && !slices.Contains(f.CategoryIDs, p.CategoryID) {
		return false
	}
	if len(f.Brands) > 0 && !slices.Contains(f.Brands, p.Brand) {
		return false
	}
	price := p.Price.InexactFloat64()
	if f.PriceMin != nil && price < *f.PriceMin {
		return false
	}
	if f.PriceMax != nil && price > *f.PriceMax {
		return false
	}
	return true
}

func compareBy(order SortOrder) func(a, b Product) int {
	return func(a, b Product) int {
		var c int
		switch order.Field {
		case "price":
			c = a.Price.Cmp(b.Price)
		case "name":
			c = strings.Compare(a.Name, b.Name)
		case "brand":
			c = strings.Compare(a.Brand, b.Brand)
		case "createdAt":
			c = a.CreatedAt.Compare(b.CreatedAt)
		case "productKey":
			c = strings.Compare(a.ProductKey, b.ProductKey)
		case "inStock":
			c = cmp.Compare(boolRank(a.InStock), boolRank(b.InStock))
		}
		if order.Descending {
			return -c
		}
		return c
	}
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

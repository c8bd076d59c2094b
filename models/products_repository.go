package models

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductsRepository struct {
	db *gorm.DB
}

func NewProductsRepository(db *gorm.DB) *ProductsRepository {
	return &ProductsRepository{
		db: db,
	}
}

func (r *ProductsRepository) GetFilteredProducts(ctx context.Context, offset, limit int, filters ProductFilters) ([]Product, int64, error) {
	products := []Product{}
	var total int64

	if filters.MatchesNothing() {
		return products, 0, nil
	}

	query := r.db.WithContext(ctx).Model(&Product{})

	// Filter
	if filters.Search != "" {
		pattern := "%" + escapeLike(filters.Search) + "%"
		query = query.Where(
			r.db.Where("products.name ILIKE ?", pattern).Or("products.description ILIKE ?", pattern),
		)
	}
	if filters.CategoryIDs != nil {
		query = query.Where("products.category_id IN ?", filters.CategoryIDs)
	}
	if len(filters.Brands) > 0 {
		query = query.Where("products.brand = ANY(?)", pq.Array(filters.Brands))
	}
	if filters.PriceMin != nil {
		query = query.Where("products.price >= ?", *filters.PriceMin)
	}
	if filters.PriceMax != nil {
		query = query.Where("products.price <= ?", *filters.PriceMax)
	}

	// Count total after filtering
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	if filters.Sort != nil {
		query = query.Order(clause.OrderByColumn{
			Column: clause.Column{Table: "products", Name: sortColumns[filters.Sort.Field]},
			Desc:   filters.Sort.Descending,
		})
	}

	// Apply pagination
	if err := query.
		Preload("Category", selectCategorySummary).
		Offset(offset).
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("find products: %w", err)
	}

	return products, total, nil
}

func (r *ProductsRepository) GetByID(ctx context.Context, id string) (*Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrProductNotFound
	}
	return r.first(ctx, "id = ?", id)
}

func (r *ProductsRepository) GetByKey(ctx context.Context, key string) (*Product, error) {
	return r.first(ctx, "product_key = ?", key)
}

func (r *ProductsRepository) first(ctx context.Context, cond string, arg any) (*Product, error) {
	var product Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Where(cond, arg).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err) // Other DB error
	}
	return &product, nil
}

func (r *ProductsRepository) CreateProduct(ctx context.Context, product *Product) error {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error; err != nil {
		return translateError("create product", err)
	}
	return nil
}

// CreateProducts inserts every product in one transaction.
func (r *ProductsRepository) CreateProducts(ctx context.Context, products []Product) error {
	for i := range products {
		if products[i].ID == "" {
			products[i].ID = uuid.NewString()
		}
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).CreateInBatches(products, 100).Error
	})
	if err != nil {
		return translateError("create products", err)
	}
	return nil
}

func (r *ProductsRepository) UpdateByKey(ctx context.Context, key string, patch ProductPatch) (*Product, error) {
	if patch.IsEmpty() {
		return r.GetByKey(ctx, key)
	}
	var product Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_key = ?", key).First(&product).Error; err != nil {
			return err
		}
		patch.Apply(&product)
		return tx.Omit(clause.Associations).Save(&product).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, translateError("update product", err)
	}
	return r.GetByKey(ctx, key)
}

func (r *ProductsRepository) DeleteByKey(ctx context.Context, key string) (*Product, error) {
	var product Product
	res := r.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("product_key = ?", key).
		Delete(&product)
	if res.Error != nil {
		return nil, fmt.Errorf("delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrProductNotFound
	}
	return &product, nil
}

func selectCategorySummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "description")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// translateError maps unique violations to ErrDuplicateKey.
func translateError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%s: %w", op, ErrDuplicateKey)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", op, ErrDuplicateKey)
	}
	return fmt.Errorf("%s: %w", op, err)
}

package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoriesRepository struct {
	db *gorm.DB
}

func NewCategoriesRepository(db *gorm.DB) *CategoriesRepository {
	return &CategoriesRepository{db: db}
}

func (r *CategoriesRepository) GetAllCategories(ctx context.Context) ([]Category, error) {
	categories := []Category{}
	if err := r.db.WithContext(ctx).Order("created_at").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (r *CategoriesRepository) GetCategoryByID(ctx context.Context, id string) (*Category, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrCategoryNotFound
	}
	var category Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &category, nil
}

// FindCategoriesByName returns the categories whose name equals one of names exactly.
func (r *CategoriesRepository) FindCategoriesByName(ctx context.Context, names []string) ([]Category, error) {
	categories := []Category{}
	if len(names) == 0 {
		return categories, nil
	}
	if err := r.db.WithContext(ctx).Where("name IN ?", names).Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}
	return categories, nil
}

func (r *CategoriesRepository) CreateCategory(ctx context.Context, category *Category) error {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return translateError("create category", err)
	}
	return nil
}

func (r *CategoriesRepository) UpdateCategory(ctx context.Context, id string, patch CategoryPatch) (*Category, error) {
	category, err := r.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(category)
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return nil, translateError("update category", err)
	}
	return category, nil
}

// DeleteCategory removes the category only. Products keep their reference.
func (r *CategoriesRepository) DeleteCategory(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrCategoryNotFound
	}
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Category{})
	if res.Error != nil {
		return fmt.Errorf("delete category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

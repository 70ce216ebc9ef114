package repository

import (
	"context"

	"github.com/ManuelReschke/PixelPress/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository instance
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// Seed inserts missing categories and leaves existing ones untouched
func (r *categoryRepository) Seed(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	categories := make([]models.Category, 0, len(names))
	for _, n := range names {
		categories = append(categories, models.Category{Name: n})
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&categories).Error
}

// List returns all categories in insertion order
func (r *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Order("id").Find(&categories).Error
	return categories, err
}

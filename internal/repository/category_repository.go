package repository

import (
	"context"

	"gorm.io/gorm"

	"reviewhub/internal/model"
)

// CategoryRepository defines persistence operations for categories.
// Deleting a category detaches its titles via the SET NULL constraint on
// titles.category_id; titles themselves are never removed here.
type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	FindBySlug(ctx context.Context, slug string) (*model.Category, error)
	Delete(ctx context.Context, slug string) error
	List(ctx context.Context, search string, page Page) ([]model.Category, int64, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository builds a GORM-backed repository.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) FindBySlug(ctx context.Context, slug string) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) Delete(ctx context.Context, slug string) error {
	res := r.db.WithContext(ctx).Where("slug = ?", slug).Delete(&model.Category{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *categoryRepository) List(ctx context.Context, search string, page Page) ([]model.Category, int64, error) {
	page = page.Normalize()
	q := r.db.WithContext(ctx).Model(&model.Category{})
	if search != "" {
		q = q.Where("name LIKE ?", "%"+search+"%")
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var categories []model.Category
	if err := q.Order("name").Offset(page.Offset()).Limit(page.Size).Find(&categories).Error; err != nil {
		return nil, 0, err
	}
	return categories, count, nil
}

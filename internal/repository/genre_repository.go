package repository

import (
	"context"

	"gorm.io/gorm"

	"reviewhub/internal/model"
)

// GenreRepository defines persistence operations for genres. Deleting a
// genre removes its genre_titles rows through the cascade on the join
// table; titles stay untouched.
type GenreRepository interface {
	Create(ctx context.Context, genre *model.Genre) error
	FindBySlug(ctx context.Context, slug string) (*model.Genre, error)
	FindBySlugs(ctx context.Context, slugs []string) ([]model.Genre, error)
	Delete(ctx context.Context, slug string) error
	List(ctx context.Context, search string, page Page) ([]model.Genre, int64, error)
}

type genreRepository struct {
	db *gorm.DB
}

// NewGenreRepository builds a GORM-backed repository.
func NewGenreRepository(db *gorm.DB) GenreRepository {
	return &genreRepository{db: db}
}

func (r *genreRepository) Create(ctx context.Context, genre *model.Genre) error {
	return r.db.WithContext(ctx).Create(genre).Error
}

func (r *genreRepository) FindBySlug(ctx context.Context, slug string) (*model.Genre, error) {
	var genre model.Genre
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&genre).Error; err != nil {
		return nil, err
	}
	return &genre, nil
}

func (r *genreRepository) FindBySlugs(ctx context.Context, slugs []string) ([]model.Genre, error) {
	var genres []model.Genre
	if err := r.db.WithContext(ctx).Where("slug IN ?", slugs).Find(&genres).Error; err != nil {
		return nil, err
	}
	return genres, nil
}

func (r *genreRepository) Delete(ctx context.Context, slug string) error {
	res := r.db.WithContext(ctx).Where("slug = ?", slug).Delete(&model.Genre{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *genreRepository) List(ctx context.Context, search string, page Page) ([]model.Genre, int64, error) {
	page = page.Normalize()
	q := r.db.WithContext(ctx).Model(&model.Genre{})
	if search != "" {
		q = q.Where("name LIKE ?", "%"+search+"%")
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var genres []model.Genre
	if err := q.Order("name").Offset(page.Offset()).Limit(page.Size).Find(&genres).Error; err != nil {
		return nil, 0, err
	}
	return genres, count, nil
}

package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"reviewhub/internal/model"
)

// TitleFilter narrows a title listing. Zero-valued fields are ignored.
type TitleFilter struct {
	CategorySlug string
	GenreSlug    string
	Name         string // case-insensitive substring
	Year         *int   // exact match
}

// TitleRepository defines persistence operations for titles, including the
// read-time rating aggregation over review scores.
type TitleRepository interface {
	Create(ctx context.Context, title *model.Title) error
	FindByID(ctx context.Context, id uint) (*model.Title, error)
	Update(ctx context.Context, title *model.Title) error
	ReplaceGenres(ctx context.Context, title *model.Title, genres []model.Genre) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter TitleFilter, page Page) ([]model.Title, int64, error)
	AverageScores(ctx context.Context, titleIDs []uint) (map[uint]float64, error)
}

type titleRepository struct {
	db *gorm.DB
}

// NewTitleRepository builds a GORM-backed repository.
func NewTitleRepository(db *gorm.DB) TitleRepository {
	return &titleRepository{db: db}
}

func (r *titleRepository) Create(ctx context.Context, title *model.Title) error {
	return r.db.WithContext(ctx).Create(title).Error
}

func (r *titleRepository) FindByID(ctx context.Context, id uint) (*model.Title, error) {
	var title model.Title
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Genres").
		First(&title, id).Error; err != nil {
		return nil, err
	}
	return &title, nil
}

func (r *titleRepository) Update(ctx context.Context, title *model.Title) error {
	// Save skips nil associations but not nil scalar pointers, so a cleared
	// category or description persists as NULL.
	return r.db.WithContext(ctx).Omit("Genres").Save(title).Error
}

func (r *titleRepository) ReplaceGenres(ctx context.Context, title *model.Title, genres []model.Genre) error {
	return r.db.WithContext(ctx).Model(title).Association("Genres").Replace(genres)
}

func (r *titleRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Title{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *titleRepository) List(ctx context.Context, filter TitleFilter, page Page) ([]model.Title, int64, error) {
	page = page.Normalize()
	q := r.db.WithContext(ctx).Model(&model.Title{})

	if filter.CategorySlug != "" {
		q = q.Joins("JOIN categories ON categories.id = titles.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}
	if filter.GenreSlug != "" {
		q = q.Joins("JOIN genre_titles ON genre_titles.title_id = titles.id").
			Joins("JOIN genres ON genres.id = genre_titles.genre_id").
			Where("genres.slug = ?", filter.GenreSlug)
	}
	if filter.Name != "" {
		q = q.Where("LOWER(titles.name) LIKE ?", "%"+strings.ToLower(filter.Name)+"%")
	}
	if filter.Year != nil {
		q = q.Where("titles.year = ?", *filter.Year)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var titles []model.Title
	if err := q.Preload("Category").Preload("Genres").
		Order("titles.name").
		Offset(page.Offset()).Limit(page.Size).
		Find(&titles).Error; err != nil {
		return nil, 0, err
	}
	return titles, count, nil
}

// AverageScores returns the mean review score per title for the given ids.
// Titles with no reviews are absent from the result map.
func (r *titleRepository) AverageScores(ctx context.Context, titleIDs []uint) (map[uint]float64, error) {
	averages := make(map[uint]float64, len(titleIDs))
	if len(titleIDs) == 0 {
		return averages, nil
	}

	var rows []struct {
		TitleID uint
		Avg     float64
	}
	if err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Select("title_id, AVG(score) AS avg").
		Where("title_id IN ?", titleIDs).
		Group("title_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		averages[row.TitleID] = row.Avg
	}
	return averages, nil
}

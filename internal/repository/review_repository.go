package repository

import (
	"context"

	"gorm.io/gorm"

	"reviewhub/internal/model"
)

// ReviewRepository defines persistence operations for reviews. Lookups are
// always scoped to a title so a review fetched through the wrong parent
// surfaces as gorm.ErrRecordNotFound.
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	FindByID(ctx context.Context, titleID, reviewID uint) (*model.Review, error)
	Update(ctx context.Context, review *model.Review) error
	Delete(ctx context.Context, titleID, reviewID uint) error
	ListByTitle(ctx context.Context, titleID uint, page Page) ([]model.Review, int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository builds a GORM-backed repository.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create inserts the review. A second review for the same (title, author)
// pair violates the composite unique index and comes back as
// gorm.ErrDuplicatedKey; there is no pre-check, so concurrent creations
// cannot race past the constraint.
func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) FindByID(ctx context.Context, titleID, reviewID uint) (*model.Review, error) {
	var review model.Review
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("title_id = ?", titleID).
		First(&review, reviewID).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *model.Review) error {
	// Only text and score are mutable; pub_date stays as created.
	return r.db.WithContext(ctx).Model(review).
		Select("text", "score").Updates(review).Error
}

func (r *reviewRepository) Delete(ctx context.Context, titleID, reviewID uint) error {
	res := r.db.WithContext(ctx).
		Where("title_id = ?", titleID).
		Delete(&model.Review{}, reviewID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reviewRepository) ListByTitle(ctx context.Context, titleID uint, page Page) ([]model.Review, int64, error) {
	page = page.Normalize()
	q := r.db.WithContext(ctx).Model(&model.Review{}).Where("title_id = ?", titleID)

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var reviews []model.Review
	if err := q.Preload("Author").
		Order("pub_date").
		Offset(page.Offset()).Limit(page.Size).
		Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, count, nil
}

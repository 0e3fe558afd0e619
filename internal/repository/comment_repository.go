package repository

import (
	"context"

	"gorm.io/gorm"

	"reviewhub/internal/model"
)

// CommentRepository defines persistence operations for comments, scoped to
// their parent review the same way reviews are scoped to titles.
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, reviewID, commentID uint) (*model.Comment, error)
	Update(ctx context.Context, comment *model.Comment) error
	Delete(ctx context.Context, reviewID, commentID uint) error
	ListByReview(ctx context.Context, reviewID uint, page Page) ([]model.Comment, int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository builds a GORM-backed repository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) FindByID(ctx context.Context, reviewID, commentID uint) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("review_id = ?", reviewID).
		First(&comment, commentID).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *model.Comment) error {
	// Only the text is mutable; pub_date stays as created.
	return r.db.WithContext(ctx).Model(comment).
		Select("text").Updates(comment).Error
}

func (r *commentRepository) Delete(ctx context.Context, reviewID, commentID uint) error {
	res := r.db.WithContext(ctx).
		Where("review_id = ?", reviewID).
		Delete(&model.Comment{}, commentID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *commentRepository) ListByReview(ctx context.Context, reviewID uint, page Page) ([]model.Comment, int64, error) {
	page = page.Normalize()
	q := r.db.WithContext(ctx).Model(&model.Comment{}).Where("review_id = ?", reviewID)

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var comments []model.Comment
	if err := q.Preload("Author").
		Order("pub_date DESC").
		Offset(page.Offset()).Limit(page.Size).
		Find(&comments).Error; err != nil {
		return nil, 0, err
	}
	return comments, count, nil
}

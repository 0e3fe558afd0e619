package service

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	"reviewhub/internal/authz"
	"reviewhub/internal/errors"
	"reviewhub/internal/model"
	"reviewhub/internal/repository"
)

// ReviewPatch is a partial review update; pub_date is never touched.
type ReviewPatch struct {
	Text  *string
	Score *int
}

// DiscussionService manages reviews and their comments. Every operation is
// scoped to the parent ids from the URL path: a child reached through the
// wrong parent is simply not found.
type DiscussionService interface {
	CreateReview(ctx context.Context, p authz.Principal, titleID uint, text string, score int) (*model.Review, error)
	GetReview(ctx context.Context, titleID, reviewID uint) (*model.Review, error)
	UpdateReview(ctx context.Context, p authz.Principal, titleID, reviewID uint, patch ReviewPatch) (*model.Review, error)
	DeleteReview(ctx context.Context, p authz.Principal, titleID, reviewID uint) error
	ListReviews(ctx context.Context, titleID uint, page repository.Page) ([]model.Review, int64, error)

	CreateComment(ctx context.Context, p authz.Principal, titleID, reviewID uint, text string) (*model.Comment, error)
	GetComment(ctx context.Context, titleID, reviewID, commentID uint) (*model.Comment, error)
	UpdateComment(ctx context.Context, p authz.Principal, titleID, reviewID, commentID uint, text string) (*model.Comment, error)
	DeleteComment(ctx context.Context, p authz.Principal, titleID, reviewID, commentID uint) error
	ListComments(ctx context.Context, titleID, reviewID uint, page repository.Page) ([]model.Comment, int64, error)
}

type discussionService struct {
	titles   repository.TitleRepository
	reviews  repository.ReviewRepository
	comments repository.CommentRepository
}

// NewDiscussionService builds a DiscussionService.
func NewDiscussionService(titles repository.TitleRepository, reviews repository.ReviewRepository, comments repository.CommentRepository) DiscussionService {
	return &discussionService{
		titles:   titles,
		reviews:  reviews,
		comments: comments,
	}
}

// CreateReview posts a review on the title. Duplicate (title, author) pairs
// are rejected by the unique index, not a pre-check, so the conflict holds
// under concurrent creation.
func (s *discussionService) CreateReview(ctx context.Context, p authz.Principal, titleID uint, text string, score int) (*model.Review, error) {
	if !authz.Allowed(p, authz.ActionCreate, authz.Resource{Kind: authz.ResourceReview}) {
		return nil, errors.ErrPermissionDenied
	}
	if score < model.MinScore || score > model.MaxScore {
		return nil, errors.ErrInvalidScore
	}
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	review := &model.Review{
		TitleID:  titleID,
		AuthorID: p.ID,
		Text:     text,
		Score:    score,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.ErrReviewExists
		}
		return nil, err
	}
	return s.GetReview(ctx, titleID, review.ID)
}

func (s *discussionService) GetReview(ctx context.Context, titleID, reviewID uint) (*model.Review, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}
	review, err := s.reviews.FindByID(ctx, titleID, reviewID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}

func (s *discussionService) UpdateReview(ctx context.Context, p authz.Principal, titleID, reviewID uint, patch ReviewPatch) (*model.Review, error) {
	review, err := s.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if !authz.Allowed(p, authz.ActionUpdate, authz.Resource{Kind: authz.ResourceReview, OwnerID: review.AuthorID}) {
		return nil, errors.ErrPermissionDenied
	}

	if patch.Text != nil {
		review.Text = *patch.Text
	}
	if patch.Score != nil {
		if *patch.Score < model.MinScore || *patch.Score > model.MaxScore {
			return nil, errors.ErrInvalidScore
		}
		review.Score = *patch.Score
	}
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// DeleteReview removes the review and, via the storage cascade, its comments.
func (s *discussionService) DeleteReview(ctx context.Context, p authz.Principal, titleID, reviewID uint) error {
	review, err := s.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return err
	}
	if !authz.Allowed(p, authz.ActionDelete, authz.Resource{Kind: authz.ResourceReview, OwnerID: review.AuthorID}) {
		return errors.ErrPermissionDenied
	}
	return s.reviews.Delete(ctx, titleID, reviewID)
}

func (s *discussionService) ListReviews(ctx context.Context, titleID uint, page repository.Page) ([]model.Review, int64, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, 0, err
	}
	return s.reviews.ListByTitle(ctx, titleID, page)
}

func (s *discussionService) CreateComment(ctx context.Context, p authz.Principal, titleID, reviewID uint, text string) (*model.Comment, error) {
	if !authz.Allowed(p, authz.ActionCreate, authz.Resource{Kind: authz.ResourceComment}) {
		return nil, errors.ErrPermissionDenied
	}
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		ReviewID: reviewID,
		AuthorID: p.ID,
		Text:     text,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.comments.FindByID(ctx, reviewID, comment.ID)
}

func (s *discussionService) GetComment(ctx context.Context, titleID, reviewID, commentID uint) (*model.Comment, error) {
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.comments.FindByID(ctx, reviewID, commentID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}

func (s *discussionService) UpdateComment(ctx context.Context, p authz.Principal, titleID, reviewID, commentID uint, text string) (*model.Comment, error) {
	comment, err := s.GetComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if !authz.Allowed(p, authz.ActionUpdate, authz.Resource{Kind: authz.ResourceComment, OwnerID: comment.AuthorID}) {
		return nil, errors.ErrPermissionDenied
	}

	comment.Text = text
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *discussionService) DeleteComment(ctx context.Context, p authz.Principal, titleID, reviewID, commentID uint) error {
	comment, err := s.GetComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if !authz.Allowed(p, authz.ActionDelete, authz.Resource{Kind: authz.ResourceComment, OwnerID: comment.AuthorID}) {
		return errors.ErrPermissionDenied
	}
	return s.comments.Delete(ctx, reviewID, commentID)
}

func (s *discussionService) ListComments(ctx context.Context, titleID, reviewID uint, page repository.Page) ([]model.Comment, int64, error) {
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	return s.comments.ListByReview(ctx, reviewID, page)
}

func (s *discussionService) requireTitle(ctx context.Context, titleID uint) error {
	if _, err := s.titles.FindByID(ctx, titleID); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrTitleNotFound
		}
		return err
	}
	return nil
}

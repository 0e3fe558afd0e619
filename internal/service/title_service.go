package service

import (
	"context"
	stderrors "errors"
	"math"

	"gorm.io/gorm"

	"reviewhub/internal/authz"
	"reviewhub/internal/errors"
	"reviewhub/internal/model"
	"reviewhub/internal/repository"
)

// TitleInput is the write payload for a title. Category and genres arrive
// as slugs; unknown slugs are validation failures.
type TitleInput struct {
	Name         string
	Year         int
	Description  *string
	CategorySlug string
	GenreSlugs   []string
}

// TitlePatch is a partial title update; nil fields are left untouched.
type TitlePatch struct {
	Name         *string
	Year         *int
	Description  *string
	CategorySlug *string // empty string clears the category
	GenreSlugs   *[]string
}

// RatedTitle is a title with its derived rating attached. Rating is the
// arithmetic mean of review scores rounded half-away-from-zero to the
// nearest integer, nil when the title has no reviews.
type RatedTitle struct {
	model.Title
	Rating *int `json:"rating"`
}

// TitleService manages titles and computes their ratings at read time.
type TitleService interface {
	CreateTitle(ctx context.Context, p authz.Principal, input TitleInput) (*RatedTitle, error)
	GetTitle(ctx context.Context, id uint) (*RatedTitle, error)
	UpdateTitle(ctx context.Context, p authz.Principal, id uint, patch TitlePatch) (*RatedTitle, error)
	DeleteTitle(ctx context.Context, p authz.Principal, id uint) error
	ListTitles(ctx context.Context, filter repository.TitleFilter, page repository.Page) ([]RatedTitle, int64, error)
}

type titleService struct {
	titles     repository.TitleRepository
	categories repository.CategoryRepository
	genres     repository.GenreRepository
}

// NewTitleService builds a TitleService.
func NewTitleService(titles repository.TitleRepository, categories repository.CategoryRepository, genres repository.GenreRepository) TitleService {
	return &titleService{
		titles:     titles,
		categories: categories,
		genres:     genres,
	}
}

func (s *titleService) CreateTitle(ctx context.Context, p authz.Principal, input TitleInput) (*RatedTitle, error) {
	if !authz.Allowed(p, authz.ActionCreate, authz.Resource{Kind: authz.ResourceTitle}) {
		return nil, errors.ErrPermissionDenied
	}

	title := &model.Title{
		Name:        input.Name,
		Year:        input.Year,
		Description: input.Description,
	}

	if input.CategorySlug != "" {
		category, err := s.resolveCategory(ctx, input.CategorySlug)
		if err != nil {
			return nil, err
		}
		title.CategoryID = &category.ID
		title.Category = category
	}

	genres, err := s.resolveGenres(ctx, input.GenreSlugs)
	if err != nil {
		return nil, err
	}
	title.Genres = genres

	if err := s.titles.Create(ctx, title); err != nil {
		return nil, err
	}
	// New title, no reviews yet.
	return &RatedTitle{Title: *title}, nil
}

func (s *titleService) GetTitle(ctx context.Context, id uint) (*RatedTitle, error) {
	title, err := s.titles.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrTitleNotFound
		}
		return nil, err
	}

	averages, err := s.titles.AverageScores(ctx, []uint{title.ID})
	if err != nil {
		return nil, err
	}
	return ratedTitle(*title, averages), nil
}

func (s *titleService) UpdateTitle(ctx context.Context, p authz.Principal, id uint, patch TitlePatch) (*RatedTitle, error) {
	if !authz.Allowed(p, authz.ActionUpdate, authz.Resource{Kind: authz.ResourceTitle}) {
		return nil, errors.ErrPermissionDenied
	}

	title, err := s.titles.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrTitleNotFound
		}
		return nil, err
	}

	if patch.Name != nil {
		title.Name = *patch.Name
	}
	if patch.Year != nil {
		title.Year = *patch.Year
	}
	if patch.Description != nil {
		title.Description = patch.Description
	}
	if patch.CategorySlug != nil {
		if *patch.CategorySlug == "" {
			title.CategoryID = nil
			title.Category = nil
		} else {
			category, err := s.resolveCategory(ctx, *patch.CategorySlug)
			if err != nil {
				return nil, err
			}
			title.CategoryID = &category.ID
			title.Category = category
		}
	}

	if err := s.titles.Update(ctx, title); err != nil {
		return nil, err
	}

	if patch.GenreSlugs != nil {
		genres, err := s.resolveGenres(ctx, *patch.GenreSlugs)
		if err != nil {
			return nil, err
		}
		if err := s.titles.ReplaceGenres(ctx, title, genres); err != nil {
			return nil, err
		}
		title.Genres = genres
	}

	averages, err := s.titles.AverageScores(ctx, []uint{title.ID})
	if err != nil {
		return nil, err
	}
	return ratedTitle(*title, averages), nil
}

// DeleteTitle removes the title; its reviews and, transitively, their
// comments go with it via the storage cascades.
func (s *titleService) DeleteTitle(ctx context.Context, p authz.Principal, id uint) error {
	if !authz.Allowed(p, authz.ActionDelete, authz.Resource{Kind: authz.ResourceTitle}) {
		return errors.ErrPermissionDenied
	}
	if err := s.titles.Delete(ctx, id); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrTitleNotFound
		}
		return err
	}
	return nil
}

func (s *titleService) ListTitles(ctx context.Context, filter repository.TitleFilter, page repository.Page) ([]RatedTitle, int64, error) {
	titles, count, err := s.titles.List(ctx, filter, page)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uint, len(titles))
	for i, t := range titles {
		ids[i] = t.ID
	}
	averages, err := s.titles.AverageScores(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	rated := make([]RatedTitle, len(titles))
	for i, t := range titles {
		rated[i] = *ratedTitle(t, averages)
	}
	return rated, count, nil
}

func (s *titleService) resolveCategory(ctx context.Context, slug string) (*model.Category, error) {
	category, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUnknownCategory
		}
		return nil, err
	}
	return category, nil
}

func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]model.Genre, error) {
	if len(slugs) == 0 {
		return []model.Genre{}, nil
	}
	genres, err := s.genres.FindBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}
	if len(genres) != len(slugs) {
		return nil, errors.ErrUnknownGenre
	}
	return genres, nil
}

func ratedTitle(title model.Title, averages map[uint]float64) *RatedTitle {
	rated := &RatedTitle{Title: title}
	if avg, ok := averages[title.ID]; ok {
		rating := RoundRating(avg)
		rated.Rating = &rating
	}
	return rated
}

// RoundRating fixes the rating policy: round half away from zero to the
// nearest integer, so scores [4, 8] yield 6 and [7, 8] yield 8.
func RoundRating(avg float64) int {
	return int(math.Round(avg))
}

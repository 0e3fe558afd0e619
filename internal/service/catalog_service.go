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

// CatalogService manages categories and genres. Both support list, create
// and delete only: single entries have no retrieve or update.
type CatalogService interface {
	CreateCategory(ctx context.Context, p authz.Principal, name, slug string) (*model.Category, error)
	DeleteCategory(ctx context.Context, p authz.Principal, slug string) error
	ListCategories(ctx context.Context, search string, page repository.Page) ([]model.Category, int64, error)

	CreateGenre(ctx context.Context, p authz.Principal, name, slug string) (*model.Genre, error)
	DeleteGenre(ctx context.Context, p authz.Principal, slug string) error
	ListGenres(ctx context.Context, search string, page repository.Page) ([]model.Genre, int64, error)
}

type catalogService struct {
	categories repository.CategoryRepository
	genres     repository.GenreRepository
}

// NewCatalogService builds a CatalogService.
func NewCatalogService(categories repository.CategoryRepository, genres repository.GenreRepository) CatalogService {
	return &catalogService{
		categories: categories,
		genres:     genres,
	}
}

func (s *catalogService) CreateCategory(ctx context.Context, p authz.Principal, name, slug string) (*model.Category, error) {
	if !authz.Allowed(p, authz.ActionCreate, authz.Resource{Kind: authz.ResourceCategory}) {
		return nil, errors.ErrPermissionDenied
	}

	category := &model.Category{Name: name, Slug: slug}
	if err := s.categories.Create(ctx, category); err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.ErrSlugExists
		}
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes the category; titles referencing it keep existing
// with a null category via the storage constraint.
func (s *catalogService) DeleteCategory(ctx context.Context, p authz.Principal, slug string) error {
	if !authz.Allowed(p, authz.ActionDelete, authz.Resource{Kind: authz.ResourceCategory}) {
		return errors.ErrPermissionDenied
	}
	if err := s.categories.Delete(ctx, slug); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrCategoryNotFound
		}
		return err
	}
	return nil
}

func (s *catalogService) ListCategories(ctx context.Context, search string, page repository.Page) ([]model.Category, int64, error) {
	return s.categories.List(ctx, search, page)
}

func (s *catalogService) CreateGenre(ctx context.Context, p authz.Principal, name, slug string) (*model.Genre, error) {
	if !authz.Allowed(p, authz.ActionCreate, authz.Resource{Kind: authz.ResourceGenre}) {
		return nil, errors.ErrPermissionDenied
	}

	genre := &model.Genre{Name: name, Slug: slug}
	if err := s.genres.Create(ctx, genre); err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.ErrSlugExists
		}
		return nil, err
	}
	return genre, nil
}

// DeleteGenre removes the genre and, through the join-table cascade, its
// attachments to titles. Titles are never removed.
func (s *catalogService) DeleteGenre(ctx context.Context, p authz.Principal, slug string) error {
	if !authz.Allowed(p, authz.ActionDelete, authz.Resource{Kind: authz.ResourceGenre}) {
		return errors.ErrPermissionDenied
	}
	if err := s.genres.Delete(ctx, slug); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrGenreNotFound
		}
		return err
	}
	return nil
}

func (s *catalogService) ListGenres(ctx context.Context, search string, page repository.Page) ([]model.Genre, int64, error) {
	return s.genres.List(ctx, search, page)
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"reviewhub/internal/authz"
	"reviewhub/internal/errors"
	"reviewhub/internal/model"
)

func catalogFixture() (*MockCategoryRepository, *MockGenreRepository, CatalogService) {
	categories := new(MockCategoryRepository)
	genres := new(MockGenreRepository)
	return categories, genres, NewCatalogService(categories, genres)
}

func TestCatalogService_CreateCategory(t *testing.T) {
	admin := authz.Principal{ID: 1, Role: model.RoleAdmin, Authenticated: true}

	tests := []struct {
		name          string
		principal     authz.Principal
		setupMock     func(*MockCategoryRepository)
		expectedError error
	}{
		{
			name:      "admin creates a category",
			principal: admin,
			setupMock: func(categories *MockCategoryRepository) {
				categories.On("Create", mock.Anything, mock.AnythingOfType("*model.Category")).Return(nil)
			},
		},
		{
			name:      "duplicate slug conflicts",
			principal: admin,
			setupMock: func(categories *MockCategoryRepository) {
				categories.On("Create", mock.Anything, mock.AnythingOfType("*model.Category")).
					Return(gorm.ErrDuplicatedKey)
			},
			expectedError: errors.ErrSlugExists,
		},
		{
			name:          "moderator is denied",
			principal:     authz.Principal{ID: 2, Role: model.RoleModerator, Authenticated: true},
			setupMock:     func(categories *MockCategoryRepository) {},
			expectedError: errors.ErrPermissionDenied,
		},
		{
			name:          "user is denied",
			principal:     authz.Principal{ID: 3, Role: model.RoleUser, Authenticated: true},
			setupMock:     func(categories *MockCategoryRepository) {},
			expectedError: errors.ErrPermissionDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			categories, _, service := catalogFixture()
			tt.setupMock(categories)

			category, err := service.CreateCategory(context.Background(), tt.principal, "Movies", "movies")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, category)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "movies", category.Slug)
			}
			categories.AssertExpectations(t)
		})
	}
}

func TestCatalogService_DeleteCategory(t *testing.T) {
	admin := authz.Principal{ID: 1, Role: model.RoleAdmin, Authenticated: true}

	t.Run("admin deletes by slug", func(t *testing.T) {
		categories, _, service := catalogFixture()
		categories.On("Delete", mock.Anything, "movies").Return(nil)

		assert.NoError(t, service.DeleteCategory(context.Background(), admin, "movies"))
		categories.AssertExpectations(t)
	})

	t.Run("unknown slug is not found", func(t *testing.T) {
		categories, _, service := catalogFixture()
		categories.On("Delete", mock.Anything, "ghost").Return(gorm.ErrRecordNotFound)

		assert.ErrorIs(t, service.DeleteCategory(context.Background(), admin, "ghost"), errors.ErrCategoryNotFound)
	})

	t.Run("anonymous is denied", func(t *testing.T) {
		_, _, service := catalogFixture()
		assert.ErrorIs(t, service.DeleteCategory(context.Background(), authz.Anonymous, "movies"), errors.ErrPermissionDenied)
	})
}

func TestCatalogService_CreateGenre(t *testing.T) {
	admin := authz.Principal{ID: 1, Role: model.RoleAdmin, Authenticated: true}

	t.Run("admin creates a genre", func(t *testing.T) {
		_, genres, service := catalogFixture()
		genres.On("Create", mock.Anything, mock.AnythingOfType("*model.Genre")).Return(nil)

		genre, err := service.CreateGenre(context.Background(), admin, "Science Fiction", "sci-fi")

		assert.NoError(t, err)
		assert.Equal(t, "sci-fi", genre.Slug)
		genres.AssertExpectations(t)
	})

	t.Run("duplicate slug conflicts", func(t *testing.T) {
		_, genres, service := catalogFixture()
		genres.On("Create", mock.Anything, mock.AnythingOfType("*model.Genre")).Return(gorm.ErrDuplicatedKey)

		genre, err := service.CreateGenre(context.Background(), admin, "Science Fiction", "sci-fi")

		assert.ErrorIs(t, err, errors.ErrSlugExists)
		assert.Nil(t, genre)
	})

	t.Run("user is denied", func(t *testing.T) {
		_, _, service := catalogFixture()
		user := authz.Principal{ID: 2, Role: model.RoleUser, Authenticated: true}

		genre, err := service.CreateGenre(context.Background(), user, "Science Fiction", "sci-fi")

		assert.ErrorIs(t, err, errors.ErrPermissionDenied)
		assert.Nil(t, genre)
	})
}

func TestCatalogService_DeleteGenre(t *testing.T) {
	admin := authz.Principal{ID: 1, Role: model.RoleAdmin, Authenticated: true}

	t.Run("admin deletes by slug", func(t *testing.T) {
		_, genres, service := catalogFixture()
		genres.On("Delete", mock.Anything, "sci-fi").Return(nil)

		assert.NoError(t, service.DeleteGenre(context.Background(), admin, "sci-fi"))
	})

	t.Run("unknown slug is not found", func(t *testing.T) {
		_, genres, service := catalogFixture()
		genres.On("Delete", mock.Anything, "ghost").Return(gorm.ErrRecordNotFound)

		assert.ErrorIs(t, service.DeleteGenre(context.Background(), admin, "ghost"), errors.ErrGenreNotFound)
	})
}

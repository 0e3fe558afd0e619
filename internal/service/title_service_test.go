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
	"reviewhub/internal/repository"
)

func titleFixture() (*MockTitleRepository, *MockCategoryRepository, *MockGenreRepository, TitleService) {
	titles := new(MockTitleRepository)
	categories := new(MockCategoryRepository)
	genres := new(MockGenreRepository)
	return titles, categories, genres, NewTitleService(titles, categories, genres)
}

func TestRoundRating(t *testing.T) {
	tests := []struct {
		name string
		avg  float64
		want int
	}{
		{"scores 4 and 8 average to 6", 6.0, 6},
		{"scores 7 and 8 round up to 8", 7.5, 8},
		{"below half rounds down", 7.4, 7},
		{"single score passes through", 10.0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoundRating(tt.avg))
		})
	}
}

func TestTitleService_GetTitle_Rating(t *testing.T) {
	t.Run("title with reviews carries the rounded mean", func(t *testing.T) {
		titles, _, _, service := titleFixture()
		titles.On("FindByID", mock.Anything, uint(10)).Return(&model.Title{ID: 10, Name: "Dune", Year: 2021}, nil)
		titles.On("AverageScores", mock.Anything, []uint{10}).Return(map[uint]float64{10: 7.5}, nil)

		title, err := service.GetTitle(context.Background(), 10)

		assert.NoError(t, err)
		if assert.NotNil(t, title.Rating) {
			assert.Equal(t, 8, *title.Rating)
		}
	})

	t.Run("title without reviews has a null rating", func(t *testing.T) {
		titles, _, _, service := titleFixture()
		titles.On("FindByID", mock.Anything, uint(10)).Return(&model.Title{ID: 10, Name: "Dune", Year: 2021}, nil)
		titles.On("AverageScores", mock.Anything, []uint{10}).Return(map[uint]float64{}, nil)

		title, err := service.GetTitle(context.Background(), 10)

		assert.NoError(t, err)
		assert.Nil(t, title.Rating)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		titles, _, _, service := titleFixture()
		titles.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

		title, err := service.GetTitle(context.Background(), 99)

		assert.ErrorIs(t, err, errors.ErrTitleNotFound)
		assert.Nil(t, title)
	})
}

func TestTitleService_CreateTitle(t *testing.T) {
	admin := authz.Principal{ID: 1, Role: model.RoleAdmin, Authenticated: true}

	tests := []struct {
		name          string
		principal     authz.Principal
		input         TitleInput
		setupMock     func(*MockTitleRepository, *MockCategoryRepository, *MockGenreRepository)
		expectedError error
	}{
		{
			name:      "admin creates a title with category and genres",
			principal: admin,
			input: TitleInput{
				Name:         "Dune",
				Year:         2021,
				CategorySlug: "movie",
				GenreSlugs:   []string{"sci-fi"},
			},
			setupMock: func(titles *MockTitleRepository, categories *MockCategoryRepository, genres *MockGenreRepository) {
				categories.On("FindBySlug", mock.Anything, "movie").Return(&model.Category{ID: 3, Slug: "movie"}, nil)
				genres.On("FindBySlugs", mock.Anything, []string{"sci-fi"}).Return([]model.Genre{{ID: 5, Slug: "sci-fi"}}, nil)
				titles.On("Create", mock.Anything, mock.AnythingOfType("*model.Title")).Return(nil)
			},
		},
		{
			name:      "unknown category slug fails validation",
			principal: admin,
			input:     TitleInput{Name: "Dune", Year: 2021, CategorySlug: "nope"},
			setupMock: func(titles *MockTitleRepository, categories *MockCategoryRepository, genres *MockGenreRepository) {
				categories.On("FindBySlug", mock.Anything, "nope").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: errors.ErrUnknownCategory,
		},
		{
			name:      "unknown genre slug fails validation",
			principal: admin,
			input:     TitleInput{Name: "Dune", Year: 2021, GenreSlugs: []string{"sci-fi", "nope"}},
			setupMock: func(titles *MockTitleRepository, categories *MockCategoryRepository, genres *MockGenreRepository) {
				genres.On("FindBySlugs", mock.Anything, []string{"sci-fi", "nope"}).
					Return([]model.Genre{{ID: 5, Slug: "sci-fi"}}, nil)
			},
			expectedError: errors.ErrUnknownGenre,
		},
		{
			name:          "non-admin is denied",
			principal:     authz.Principal{ID: 2, Role: model.RoleUser, Authenticated: true},
			input:         TitleInput{Name: "Dune", Year: 2021},
			setupMock:     func(titles *MockTitleRepository, categories *MockCategoryRepository, genres *MockGenreRepository) {},
			expectedError: errors.ErrPermissionDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			titles, categories, genres, service := titleFixture()
			tt.setupMock(titles, categories, genres)

			title, err := service.CreateTitle(context.Background(), tt.principal, tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, title)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.input.Name, title.Name)
				// No reviews can exist yet.
				assert.Nil(t, title.Rating)
			}
			titles.AssertExpectations(t)
		})
	}
}

func TestTitleService_UpdateTitle_ClearCategory(t *testing.T) {
	admin := authz.Principal{ID: 1, Role: model.RoleAdmin, Authenticated: true}
	catID := uint(3)
	empty := ""

	titles, _, _, service := titleFixture()
	titles.On("FindByID", mock.Anything, uint(10)).Return(&model.Title{
		ID:         10,
		Name:       "Dune",
		Year:       2021,
		CategoryID: &catID,
		Category:   &model.Category{ID: 3, Slug: "movie"},
	}, nil)
	titles.On("Update", mock.Anything, mock.MatchedBy(func(title *model.Title) bool {
		return title.CategoryID == nil
	})).Return(nil)
	titles.On("AverageScores", mock.Anything, []uint{10}).Return(map[uint]float64{}, nil)

	title, err := service.UpdateTitle(context.Background(), admin, 10, TitlePatch{CategorySlug: &empty})

	assert.NoError(t, err)
	assert.Nil(t, title.CategoryID)
	titles.AssertExpectations(t)
}

func TestTitleService_DeleteTitle(t *testing.T) {
	t.Run("admin deletes", func(t *testing.T) {
		titles, _, _, service := titleFixture()
		titles.On("Delete", mock.Anything, uint(10)).Return(nil)

		admin := authz.Principal{ID: 1, Role: model.RoleAdmin, Authenticated: true}
		assert.NoError(t, service.DeleteTitle(context.Background(), admin, 10))
	})

	t.Run("missing title is not found", func(t *testing.T) {
		titles, _, _, service := titleFixture()
		titles.On("Delete", mock.Anything, uint(10)).Return(gorm.ErrRecordNotFound)

		admin := authz.Principal{ID: 1, Role: model.RoleAdmin, Authenticated: true}
		assert.ErrorIs(t, service.DeleteTitle(context.Background(), admin, 10), errors.ErrTitleNotFound)
	})

	t.Run("moderator is denied", func(t *testing.T) {
		_, _, _, service := titleFixture()
		moderator := authz.Principal{ID: 2, Role: model.RoleModerator, Authenticated: true}
		assert.ErrorIs(t, service.DeleteTitle(context.Background(), moderator, 10), errors.ErrPermissionDenied)
	})
}

func TestTitleService_ListTitles(t *testing.T) {
	titles, _, _, service := titleFixture()
	page := repository.Page{Number: 1, Size: 10}
	filter := repository.TitleFilter{CategorySlug: "movie"}

	titles.On("List", mock.Anything, filter, page).Return([]model.Title{
		{ID: 1, Name: "Dune", Year: 2021},
		{ID: 2, Name: "Arrival", Year: 2016},
	}, int64(2), nil)
	titles.On("AverageScores", mock.Anything, []uint{1, 2}).Return(map[uint]float64{1: 6.0}, nil)

	rated, count, err := service.ListTitles(context.Background(), filter, page)

	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
	if assert.Len(t, rated, 2) {
		if assert.NotNil(t, rated[0].Rating) {
			assert.Equal(t, 6, *rated[0].Rating)
		}
		assert.Nil(t, rated[1].Rating)
	}
	titles.AssertExpectations(t)
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"reviewhub/internal/auth"
	"reviewhub/internal/authz"
	"reviewhub/internal/errors"
	"reviewhub/internal/model"
)

func newIdentityService(users *MockUserRepository, notifier *MockNotifier) IdentityService {
	return NewIdentityService(users, auth.NewJWTService("test-secret"), notifier, zap.NewNop())
}

func TestIdentityService_Signup(t *testing.T) {
	tests := []struct {
		name          string
		input         SignupInput
		setupMock     func(*MockUserRepository, *MockNotifier)
		expectedError error
	}{
		{
			name:  "successful signup sends confirmation code",
			input: SignupInput{Username: "alice", Email: "alice@example.com"},
			setupMock: func(users *MockUserRepository, notifier *MockNotifier) {
				users.On("FindByUsername", mock.Anything, "alice").Return(nil, gorm.ErrRecordNotFound)
				users.On("FindByEmail", mock.Anything, "alice@example.com").Return(nil, gorm.ErrRecordNotFound)
				users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
				notifier.On("SendConfirmationCode", "alice@example.com", "alice", mock.AnythingOfType("string")).Return(nil)
			},
		},
		{
			name:          "reserved username is rejected",
			input:         SignupInput{Username: "me", Email: "me@example.com"},
			setupMock:     func(users *MockUserRepository, notifier *MockNotifier) {},
			expectedError: errors.ErrReservedUsername,
		},
		{
			name:  "username taken with a different email",
			input: SignupInput{Username: "alice", Email: "other@example.com"},
			setupMock: func(users *MockUserRepository, notifier *MockNotifier) {
				users.On("FindByUsername", mock.Anything, "alice").Return(&model.User{
					Username: "alice",
					Email:    "alice@example.com",
				}, nil)
			},
			expectedError: errors.ErrUsernameTaken,
		},
		{
			name:  "email taken by another username",
			input: SignupInput{Username: "bob", Email: "alice@example.com"},
			setupMock: func(users *MockUserRepository, notifier *MockNotifier) {
				users.On("FindByUsername", mock.Anything, "bob").Return(nil, gorm.ErrRecordNotFound)
				users.On("FindByEmail", mock.Anything, "alice@example.com").Return(&model.User{
					Username: "alice",
					Email:    "alice@example.com",
				}, nil)
			},
			expectedError: errors.ErrEmailTaken,
		},
		{
			name:  "notification failure does not fail the signup",
			input: SignupInput{Username: "carol", Email: "carol@example.com"},
			setupMock: func(users *MockUserRepository, notifier *MockNotifier) {
				users.On("FindByUsername", mock.Anything, "carol").Return(nil, gorm.ErrRecordNotFound)
				users.On("FindByEmail", mock.Anything, "carol@example.com").Return(nil, gorm.ErrRecordNotFound)
				users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
				notifier.On("SendConfirmationCode", "carol@example.com", "carol", mock.AnythingOfType("string")).Return(assert.AnError)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			notifier := new(MockNotifier)
			tt.setupMock(users, notifier)

			service := newIdentityService(users, notifier)
			user, err := service.Signup(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.Equal(t, tt.input.Username, user.Username)
				assert.Equal(t, model.RoleUser, user.Role)
				assert.NotEmpty(t, user.ConfirmationCode)
			}

			users.AssertExpectations(t)
			notifier.AssertExpectations(t)
		})
	}
}

func TestIdentityService_Signup_Idempotent(t *testing.T) {
	existing := &model.User{
		ID:               7,
		Username:         "alice",
		Email:            "alice@example.com",
		Role:             model.RoleUser,
		ConfirmationCode: "existing-code",
	}

	users := new(MockUserRepository)
	notifier := new(MockNotifier)
	users.On("FindByUsername", mock.Anything, "alice").Return(existing, nil)
	// The stored code is re-sent verbatim; no new user is created.
	notifier.On("SendConfirmationCode", "alice@example.com", "alice", "existing-code").Return(nil)

	service := newIdentityService(users, notifier)
	user, err := service.Signup(context.Background(), SignupInput{Username: "alice", Email: "alice@example.com"})

	assert.NoError(t, err)
	assert.Equal(t, "existing-code", user.ConfirmationCode)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	users.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestIdentityService_Signup_CaseVariantsAreDistinct(t *testing.T) {
	// Uniqueness is exact byte comparison: the lookups receive the verbatim
	// input, and a case variant of an existing identity registers as a new
	// user. The mock argument matching pins that no folding happens.
	t.Run("differently cased username", func(t *testing.T) {
		users := new(MockUserRepository)
		notifier := new(MockNotifier)
		users.On("FindByUsername", mock.Anything, "Alice").Return(nil, gorm.ErrRecordNotFound)
		users.On("FindByEmail", mock.Anything, "upper@example.com").Return(nil, gorm.ErrRecordNotFound)
		users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
		notifier.On("SendConfirmationCode", "upper@example.com", "Alice", mock.AnythingOfType("string")).Return(nil)

		service := newIdentityService(users, notifier)
		user, err := service.Signup(context.Background(), SignupInput{Username: "Alice", Email: "upper@example.com"})

		assert.NoError(t, err)
		assert.Equal(t, "Alice", user.Username)
		users.AssertExpectations(t)
	})

	t.Run("differently cased email", func(t *testing.T) {
		users := new(MockUserRepository)
		notifier := new(MockNotifier)
		users.On("FindByUsername", mock.Anything, "bob").Return(nil, gorm.ErrRecordNotFound)
		users.On("FindByEmail", mock.Anything, "ALICE@example.com").Return(nil, gorm.ErrRecordNotFound)
		users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
		notifier.On("SendConfirmationCode", "ALICE@example.com", "bob", mock.AnythingOfType("string")).Return(nil)

		service := newIdentityService(users, notifier)
		user, err := service.Signup(context.Background(), SignupInput{Username: "bob", Email: "ALICE@example.com"})

		assert.NoError(t, err)
		assert.Equal(t, "ALICE@example.com", user.Email)
		users.AssertExpectations(t)
	})
}

func TestIdentityService_IssueToken(t *testing.T) {
	tests := []struct {
		name          string
		username      string
		code          string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "valid code yields a token",
			username: "alice",
			code:     "good-code",
			setupMock: func(users *MockUserRepository) {
				users.On("FindByUsername", mock.Anything, "alice").Return(&model.User{
					ID:               1,
					Username:         "alice",
					Role:             model.RoleUser,
					ConfirmationCode: "good-code",
				}, nil)
			},
		},
		{
			name:     "wrong code is a generic failure",
			username: "alice",
			code:     "bad-code",
			setupMock: func(users *MockUserRepository) {
				users.On("FindByUsername", mock.Anything, "alice").Return(&model.User{
					ID:               1,
					Username:         "alice",
					ConfirmationCode: "good-code",
				}, nil)
			},
			expectedError: errors.ErrInvalidCredentials,
		},
		{
			name:     "unknown username is the same generic failure",
			username: "ghost",
			code:     "good-code",
			setupMock: func(users *MockUserRepository) {
				users.On("FindByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: errors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			tt.setupMock(users)

			service := newIdentityService(users, new(MockNotifier))
			token, err := service.IssueToken(context.Background(), tt.username, tt.code)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, token)
			}

			users.AssertExpectations(t)
		})
	}
}

func TestIdentityService_IssueToken_CodeStaysValid(t *testing.T) {
	users := new(MockUserRepository)
	users.On("FindByUsername", mock.Anything, "alice").Return(&model.User{
		ID:               1,
		Username:         "alice",
		Role:             model.RoleUser,
		ConfirmationCode: "good-code",
	}, nil).Twice()

	service := newIdentityService(users, new(MockNotifier))

	for i := 0; i < 2; i++ {
		token, err := service.IssueToken(context.Background(), "alice", "good-code")
		assert.NoError(t, err)
		assert.NotEmpty(t, token)
	}
	users.AssertExpectations(t)
}

func TestIdentityService_UpdateProfile_RolePreserved(t *testing.T) {
	adminRole := "admin"
	bio := "new bio"

	tests := []struct {
		name         string
		principal    authz.Principal
		storedRole   model.Role
		expectedRole model.Role
	}{
		{
			name:         "user patching role keeps role and applies the rest",
			principal:    authz.Principal{ID: 1, Role: model.RoleUser, Authenticated: true},
			storedRole:   model.RoleUser,
			expectedRole: model.RoleUser,
		},
		{
			name:         "moderator patching role keeps role",
			principal:    authz.Principal{ID: 1, Role: model.RoleModerator, Authenticated: true},
			storedRole:   model.RoleModerator,
			expectedRole: model.RoleModerator,
		},
		{
			name:         "admin may change their own role",
			principal:    authz.Principal{ID: 1, Role: model.RoleAdmin, Authenticated: true},
			storedRole:   model.RoleAdmin,
			expectedRole: model.RoleAdmin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			users.On("FindByID", mock.Anything, uint(1)).Return(&model.User{
				ID:       1,
				Username: "alice",
				Role:     tt.storedRole,
			}, nil)
			users.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

			service := newIdentityService(users, new(MockNotifier))
			user, err := service.UpdateProfile(context.Background(), tt.principal, UserPatch{
				Role: &adminRole,
				Bio:  &bio,
			})

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedRole, user.Role)
			assert.Equal(t, bio, user.Bio)
			users.AssertExpectations(t)
		})
	}
}

func TestIdentityService_CreateUser(t *testing.T) {
	admin := authz.Principal{ID: 1, Role: model.RoleAdmin, Authenticated: true}

	tests := []struct {
		name          string
		principal     authz.Principal
		input         CreateUserInput
		setupMock     func(*MockUserRepository)
		expectedRole  model.Role
		expectedError error
	}{
		{
			name:      "admin creates a moderator",
			principal: admin,
			input: CreateUserInput{
				SignupInput: SignupInput{Username: "mod", Email: "mod@example.com"},
				Role:        "moderator",
			},
			setupMock: func(users *MockUserRepository) {
				users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedRole: model.RoleModerator,
		},
		{
			name:      "omitted role defaults to user",
			principal: admin,
			input: CreateUserInput{
				SignupInput: SignupInput{Username: "plain", Email: "plain@example.com"},
			},
			setupMock: func(users *MockUserRepository) {
				users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedRole: model.RoleUser,
		},
		{
			name:      "unknown role is rejected",
			principal: admin,
			input: CreateUserInput{
				SignupInput: SignupInput{Username: "x", Email: "x@example.com"},
				Role:        "superuser",
			},
			setupMock:     func(users *MockUserRepository) {},
			expectedError: errors.ErrInvalidRole,
		},
		{
			name:      "non-admin is denied",
			principal: authz.Principal{ID: 2, Role: model.RoleModerator, Authenticated: true},
			input: CreateUserInput{
				SignupInput: SignupInput{Username: "y", Email: "y@example.com"},
			},
			setupMock:     func(users *MockUserRepository) {},
			expectedError: errors.ErrPermissionDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			tt.setupMock(users)

			service := newIdentityService(users, new(MockNotifier))
			user, err := service.CreateUser(context.Background(), tt.principal, tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedRole, user.Role)
				assert.NotEmpty(t, user.ConfirmationCode)
			}
			users.AssertExpectations(t)
		})
	}
}

func TestIdentityService_DeleteUser(t *testing.T) {
	admin := authz.Principal{ID: 1, Role: model.RoleAdmin, Authenticated: true}

	t.Run("admin deletes an existing user", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByUsername", mock.Anything, "alice").Return(&model.User{ID: 5, Username: "alice"}, nil)
		users.On("Delete", mock.Anything, uint(5)).Return(nil)

		service := newIdentityService(users, new(MockNotifier))
		assert.NoError(t, service.DeleteUser(context.Background(), admin, "alice"))
		users.AssertExpectations(t)
	})

	t.Run("unknown username is not found", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

		service := newIdentityService(users, new(MockNotifier))
		assert.ErrorIs(t, service.DeleteUser(context.Background(), admin, "ghost"), errors.ErrUserNotFound)
	})

	t.Run("moderator is denied", func(t *testing.T) {
		moderator := authz.Principal{ID: 2, Role: model.RoleModerator, Authenticated: true}
		service := newIdentityService(new(MockUserRepository), new(MockNotifier))
		assert.ErrorIs(t, service.DeleteUser(context.Background(), moderator, "alice"), errors.ErrPermissionDenied)
	})
}

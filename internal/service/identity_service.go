package service

import (
	"context"
	"crypto/subtle"
	stderrors "errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"reviewhub/internal/auth"
	"reviewhub/internal/authz"
	"reviewhub/internal/errors"
	"reviewhub/internal/model"
	"reviewhub/internal/notify"
	"reviewhub/internal/repository"
)

// SignupInput is the self-service registration payload.
type SignupInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
}

// UserPatch is a partial update; nil fields are left untouched.
type UserPatch struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *string
}

// CreateUserInput is the admin-side user creation payload.
type CreateUserInput struct {
	SignupInput
	Role string
}

// IdentityService handles signup, token issuance and user administration.
type IdentityService interface {
	Signup(ctx context.Context, input SignupInput) (*model.User, error)
	IssueToken(ctx context.Context, username, confirmationCode string) (string, error)

	CreateUser(ctx context.Context, p authz.Principal, input CreateUserInput) (*model.User, error)
	GetUser(ctx context.Context, p authz.Principal, username string) (*model.User, error)
	UpdateUser(ctx context.Context, p authz.Principal, username string, patch UserPatch) (*model.User, error)
	DeleteUser(ctx context.Context, p authz.Principal, username string) error
	ListUsers(ctx context.Context, p authz.Principal, search string, page repository.Page) ([]model.User, int64, error)

	GetProfile(ctx context.Context, p authz.Principal) (*model.User, error)
	UpdateProfile(ctx context.Context, p authz.Principal, patch UserPatch) (*model.User, error)
}

type identityService struct {
	users      repository.UserRepository
	jwtService *auth.JWTService
	notifier   notify.Notifier
	logger     *zap.Logger
}

// NewIdentityService builds an IdentityService.
func NewIdentityService(users repository.UserRepository, jwtService *auth.JWTService, notifier notify.Notifier, logger *zap.Logger) IdentityService {
	return &identityService{
		users:      users,
		jwtService: jwtService,
		notifier:   notifier,
		logger:     logger,
	}
}

// Signup registers a user and emails their confirmation code. Re-signup
// with the exact same (username, email) pair is idempotent: the existing
// user keeps their code and it is simply re-sent. Either field colliding
// with a different pairing is a validation failure.
func (s *identityService) Signup(ctx context.Context, input SignupInput) (*model.User, error) {
	if input.Username == model.ReservedUsername {
		return nil, errors.ErrReservedUsername
	}

	existing, err := s.users.FindByUsername(ctx, input.Username)
	switch {
	case err == nil:
		if existing.Email != input.Email {
			return nil, errors.ErrUsernameTaken
		}
		s.dispatchCode(existing)
		return existing, nil
	case !stderrors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return nil, errors.ErrEmailTaken
	} else if !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := &model.User{
		Username:         input.Username,
		Email:            input.Email,
		FirstName:        input.FirstName,
		LastName:         input.LastName,
		Bio:              input.Bio,
		Role:             model.RoleUser,
		ConfirmationCode: newConfirmationCode(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent signup can still hit the unique index.
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.duplicateError(ctx, user.Username, user.ID)
		}
		return nil, err
	}

	s.dispatchCode(user)
	return user, nil
}

// dispatchCode sends the confirmation email best-effort: a failure is
// logged for operational visibility but never fails the signup.
func (s *identityService) dispatchCode(user *model.User) {
	if err := s.notifier.SendConfirmationCode(user.Email, user.Username, user.ConfirmationCode); err != nil {
		s.logger.Error("confirmation email failed",
			zap.String("username", user.Username),
			zap.Error(err))
	}
}

// IssueToken exchanges a confirmation code for a signed access token.
// Unknown username and wrong code produce the same generic error so the
// endpoint cannot be used for username enumeration. Codes stay valid after
// a successful exchange.
func (s *identityService) IssueToken(ctx context.Context, username, confirmationCode string) (string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", errors.ErrInvalidCredentials
	}

	if subtle.ConstantTimeCompare([]byte(confirmationCode), []byte(user.ConfirmationCode)) != 1 {
		return "", errors.ErrInvalidCredentials
	}

	return s.jwtService.GenerateAccessToken(user.ID, user.Username, string(user.Role))
}

func (s *identityService) CreateUser(ctx context.Context, p authz.Principal, input CreateUserInput) (*model.User, error) {
	if !authz.Allowed(p, authz.ActionCreate, authz.Resource{Kind: authz.ResourceUser}) {
		return nil, errors.ErrPermissionDenied
	}
	if input.Username == model.ReservedUsername {
		return nil, errors.ErrReservedUsername
	}

	role := model.Role(input.Role)
	if input.Role == "" {
		role = model.RoleUser
	} else if !role.Valid() {
		return nil, errors.ErrInvalidRole
	}

	user := &model.User{
		Username:         input.Username,
		Email:            input.Email,
		FirstName:        input.FirstName,
		LastName:         input.LastName,
		Bio:              input.Bio,
		Role:             role,
		ConfirmationCode: newConfirmationCode(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.duplicateError(ctx, user.Username, user.ID)
		}
		return nil, err
	}
	return user, nil
}

func (s *identityService) GetUser(ctx context.Context, p authz.Principal, username string) (*model.User, error) {
	if !authz.Allowed(p, authz.ActionRead, authz.Resource{Kind: authz.ResourceUser}) {
		return nil, errors.ErrPermissionDenied
	}
	return s.findUser(ctx, username)
}

func (s *identityService) UpdateUser(ctx context.Context, p authz.Principal, username string, patch UserPatch) (*model.User, error) {
	if !authz.Allowed(p, authz.ActionUpdate, authz.Resource{Kind: authz.ResourceUser}) {
		return nil, errors.ErrPermissionDenied
	}
	user, err := s.findUser(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.applyPatch(ctx, user, patch, true)
}

func (s *identityService) DeleteUser(ctx context.Context, p authz.Principal, username string) error {
	if !authz.Allowed(p, authz.ActionDelete, authz.Resource{Kind: authz.ResourceUser}) {
		return errors.ErrPermissionDenied
	}
	user, err := s.findUser(ctx, username)
	if err != nil {
		return err
	}
	return s.users.Delete(ctx, user.ID)
}

func (s *identityService) ListUsers(ctx context.Context, p authz.Principal, search string, page repository.Page) ([]model.User, int64, error) {
	if !authz.Allowed(p, authz.ActionRead, authz.Resource{Kind: authz.ResourceUser}) {
		return nil, 0, errors.ErrPermissionDenied
	}
	return s.users.List(ctx, search, page)
}

func (s *identityService) GetProfile(ctx context.Context, p authz.Principal) (*model.User, error) {
	user, err := s.users.FindByID(ctx, p.ID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies a self-service patch. For user and moderator
// principals a submitted role change is silently discarded while every
// other field still applies; only admins may set roles here.
func (s *identityService) UpdateProfile(ctx context.Context, p authz.Principal, patch UserPatch) (*model.User, error) {
	user, err := s.GetProfile(ctx, p)
	if err != nil {
		return nil, err
	}
	return s.applyPatch(ctx, user, patch, authz.CanChangeRole(p))
}

func (s *identityService) applyPatch(ctx context.Context, user *model.User, patch UserPatch, allowRole bool) (*model.User, error) {
	if patch.Username != nil {
		if *patch.Username == model.ReservedUsername {
			return nil, errors.ErrReservedUsername
		}
		user.Username = *patch.Username
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}
	if patch.Bio != nil {
		user.Bio = *patch.Bio
	}
	if patch.Role != nil && allowRole {
		role := model.Role(*patch.Role)
		if !role.Valid() {
			return nil, errors.ErrInvalidRole
		}
		user.Role = role
	}

	if err := s.users.Update(ctx, user); err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.duplicateError(ctx, user.Username, user.ID)
		}
		return nil, err
	}
	return user, nil
}

// duplicateError resolves which unique field a duplicate-key violation hit.
// MySQL's error does not say, so probe for another user holding the
// username; anything else was the email index.
func (s *identityService) duplicateError(ctx context.Context, username string, selfID uint) error {
	if other, err := s.users.FindByUsername(ctx, username); err == nil && other.ID != selfID {
		return errors.ErrUsernameTaken
	}
	return errors.ErrEmailTaken
}

func (s *identityService) findUser(ctx context.Context, username string) (*model.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func newConfirmationCode() string {
	return uuid.New().String()
}

package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ManuelReschke/PixelPress/app/models"
	"github.com/ManuelReschke/PixelPress/app/repository"
	"github.com/ManuelReschke/PixelPress/internal/pkg/apperrors"
	"github.com/ManuelReschke/PixelPress/internal/pkg/validation"
)

// Service manages accounts, credentials and activation flags.
type Service struct {
	users repository.UserRepository
	now   func() time.Time
}

// NewService creates an identity service from an injected repository.
func NewService(users repository.UserRepository) *Service {
	return &Service{users: users, now: time.Now}
}

func IsAdmin(u *models.User) bool {
	return u != nil && u.IsAdmin()
}

func IsActive(u *models.User) bool {
	return u != nil && u.IsActive()
}

// Authenticate checks the credentials. Valid credentials of an inactive
// account fail with the Disabled kind, everything else with BadCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	in := validation.LoginInput{Email: email, Password: password}
	in.Normalize()
	if fields := validation.ValidateLogin(in); len(fields) > 0 {
		return nil, validation.AsError(fields)
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, &apperrors.AuthFailure{Kind: apperrors.BadCredentials}
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !user.CheckPassword(in.Password) {
		return nil, &apperrors.AuthFailure{Kind: apperrors.BadCredentials}
	}
	if !user.IsActive() {
		return nil, &apperrors.AuthFailure{Kind: apperrors.Disabled}
	}

	now := s.now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err == nil {
		user.LastLoginAt = &now
	}
	return user, nil
}

// Register creates a new active member account.
func (s *Service) Register(ctx context.Context, in validation.RegisterInput) (*models.User, error) {
	in.Normalize()
	ve := apperrors.NewValidation(validation.ValidateRegister(in)...)

	if ve.Get("username") == "" {
		taken, err := s.users.UsernameTaken(ctx, in.Username, 0)
		if err != nil {
			return nil, err
		}
		if taken {
			ve.Add("username", "Username already taken.")
		}
	}
	if ve.Get("email") == "" {
		taken, err := s.users.EmailTaken(ctx, in.Email, 0)
		if err != nil {
			return nil, err
		}
		if taken {
			ve.Add("email", "Email already registered.")
		}
	}
	if ve.HasErrors() {
		return nil, ve
	}

	user, err := models.NewMember(in.Username, in.Email, in.Password)
	if err != nil {
		return nil, fmt.Errorf("build user: %w", err)
	}
	if err := s.users.Create(ctx, user); err != nil {
		if apperrors.IsConflict(err) {
			// lost a race against a concurrent registration
			return nil, apperrors.NewValidation(apperrors.FieldError{Field: "email", Message: "Email already registered."})
		}
		return nil, err
	}
	return user, nil
}

// GetUser loads a user by id.
func (s *Service) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// UpdateProfile edits the actor's own account. A blank password keeps the
// current one; an empty avatarURL keeps the current avatar.
func (s *Service) UpdateProfile(ctx context.Context, actor Actor, in validation.ProfileInput, avatarURL string) (*models.User, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.ErrForbidden
	}
	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	in.Normalize()
	ve := apperrors.NewValidation(validation.ValidateProfile(in)...)
	if ve.Get("username") == "" && in.Username != user.Username {
		taken, err := s.users.UsernameTaken(ctx, in.Username, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			ve.Add("username", "Username already taken.")
		}
	}
	if ve.HasErrors() {
		return nil, ve
	}

	user.Username = in.Username
	user.Bio = in.Bio
	if avatarURL != "" {
		user.AvatarURL = avatarURL
	}
	if in.Password != "" {
		if err := user.SetPassword(in.Password); err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		if apperrors.IsConflict(err) {
			return nil, apperrors.NewValidation(apperrors.FieldError{Field: "username", Message: "Username already taken."})
		}
		return nil, err
	}
	return user, nil
}

// ListUsers returns one page of accounts, newest first, for admins.
func (s *Service) ListUsers(ctx context.Context, actor Actor, page, perPage int) ([]models.User, int64, error) {
	if !actor.IsAdmin {
		return nil, 0, apperrors.ErrForbidden
	}
	if page < 1 {
		page = 1
	}
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	users, err := s.users.List(ctx, (page-1)*perPage, perPage)
	return users, total, err
}

// ErrSelfDisable is returned when an admin tries to deactivate their own account.
var ErrSelfDisable = errors.New("cannot deactivate own account")

// ToggleActive flips the active flag of a user; admin only.
func (s *Service) ToggleActive(ctx context.Context, actor Actor, userID uint) (*models.User, error) {
	if !actor.IsAdmin {
		return nil, apperrors.ErrForbidden
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.ID == actor.UserID && user.Active {
		return nil, ErrSelfDisable
	}

	user.Active = !user.Active
	if err := s.users.SetActive(ctx, user.ID, user.Active); err != nil {
		return nil, err
	}
	return user, nil
}

// SeedAdmin creates the admin account unless a user with that email exists.
func (s *Service) SeedAdmin(ctx context.Context, username, email, password string) (bool, error) {
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !apperrors.IsNotFound(err) {
		return false, err
	}

	admin, err := models.NewMember(username, email, password)
	if err != nil {
		return false, err
	}
	admin.Role = models.ROLE_ADMIN
	admin.Bio = "System Administrator"
	if err := s.users.Create(ctx, admin); err != nil {
		if apperrors.IsConflict(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

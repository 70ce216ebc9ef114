package identity

import (
	"context"
	"testing"

	"github.com/ManuelReschke/PixelPress/app/models"
	"github.com/ManuelReschke/PixelPress/app/repository/memory"
	"github.com/ManuelReschke/PixelPress/internal/pkg/apperrors"
	"github.com/ManuelReschke/PixelPress/internal/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *Service {
	t.Helper()
	return NewService(memory.New().Repositories().User)
}

func register(t *testing.T, s *Service, name string) *models.User {
	t.Helper()
	u, err := s.Register(context.Background(), validation.RegisterInput{
		Username: name, Email: name + "@example.com", Password: "secret1", ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
	return u
}

func TestActor_CanModify(t *testing.T) {
	assert.True(t, Actor{UserID: 1}.CanModify(1))
	assert.False(t, Actor{UserID: 2}.CanModify(1))
	assert.True(t, Actor{UserID: 2, IsAdmin: true}.CanModify(1))
	assert.False(t, Actor{}.CanModify(0), "anonymous never owns anything")
}

func TestAuthenticate(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	u := register(t, s, "alice")

	got, err := s.Authenticate(ctx, " Alice@Example.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.NotNil(t, got.LastLoginAt)

	_, err = s.Authenticate(ctx, "alice@example.com", "wrong")
	af, ok := apperrors.AsAuthFailure(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.BadCredentials, af.Kind)

	_, err = s.Authenticate(ctx, "nobody@example.com", "secret1")
	af, ok = apperrors.AsAuthFailure(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.BadCredentials, af.Kind)

	_, err = s.Authenticate(ctx, "", "")
	_, ok = apperrors.AsValidation(err)
	assert.True(t, ok)
}

func TestAuthenticate_DisabledIsDistinct(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	u := register(t, s, "alice")
	admin := Actor{UserID: 999, IsAdmin: true}

	_, err := s.ToggleActive(ctx, admin, u.ID)
	require.NoError(t, err)

	_, err = s.Authenticate(ctx, "alice@example.com", "secret1")
	af, ok := apperrors.AsAuthFailure(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.Disabled, af.Kind)

	_, err = s.Authenticate(ctx, "alice@example.com", "wrong")
	af, ok = apperrors.AsAuthFailure(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.BadCredentials, af.Kind, "wrong password on a disabled account stays bad credentials")
}

func TestRegister_UniqueUsernameAndEmail(t *testing.T) {
	s := newService(t)
	register(t, s, "alice")

	_, err := s.Register(context.Background(), validation.RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "secret1", ConfirmPassword: "secret1",
	})
	ve, ok := apperrors.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "Username already taken.", ve.Get("username"))
	assert.Equal(t, "Email already registered.", ve.Get("email"))
}

func TestRegister_CreatesActiveMember(t *testing.T) {
	u := register(t, newService(t), "bob")
	assert.Equal(t, models.ROLE_MEMBER, u.Role)
	assert.True(t, IsActive(u))
	assert.False(t, IsAdmin(u))
}

func TestUpdateProfile(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	alice := register(t, s, "alice")
	register(t, s, "bob")
	actor := Actor{UserID: alice.ID}

	_, err := s.UpdateProfile(ctx, actor, validation.ProfileInput{Username: "bob"}, "")
	ve, ok := apperrors.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "Username already taken.", ve.Get("username"))

	u, err := s.UpdateProfile(ctx, actor, validation.ProfileInput{Username: "alice", Bio: "hi"}, "/uploads/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "hi", u.Bio)
	assert.Equal(t, "/uploads/a.jpg", u.AvatarURL)
	assert.True(t, u.CheckPassword("secret1"), "blank password keeps the old one")

	u, err = s.UpdateProfile(ctx, actor, validation.ProfileInput{Username: "alice2", Password: "newpass", ConfirmPassword: "newpass"}, "")
	require.NoError(t, err)
	assert.Equal(t, "alice2", u.Username)
	assert.Equal(t, "/uploads/a.jpg", u.AvatarURL)
	_, err = s.Authenticate(ctx, "alice@example.com", "newpass")
	assert.NoError(t, err)

	_, err = s.UpdateProfile(ctx, Actor{}, validation.ProfileInput{Username: "x"}, "")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestToggleActive(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	u := register(t, s, "alice")

	_, err := s.ToggleActive(ctx, Actor{UserID: u.ID}, u.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	admin := Actor{UserID: 999, IsAdmin: true}
	got, err := s.ToggleActive(ctx, admin, u.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	got, err = s.ToggleActive(ctx, admin, u.ID)
	require.NoError(t, err)
	assert.True(t, got.Active)

	_, err = s.ToggleActive(ctx, Actor{UserID: u.ID, IsAdmin: true}, u.ID)
	assert.ErrorIs(t, err, ErrSelfDisable)
}

func TestSeedAdmin(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	created, err := s.SeedAdmin(ctx, "admin", "admin@blog.com", "admin123")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = s.SeedAdmin(ctx, "admin", "admin@blog.com", "admin123")
	require.NoError(t, err)
	assert.False(t, created)

	admin, err := s.Authenticate(ctx, "admin@blog.com", "admin123")
	require.NoError(t, err)
	assert.True(t, IsAdmin(admin))
	assert.Equal(t, "System Administrator", admin.Bio)
}

func TestListUsers(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	for _, n := range []string{"alice", "bobby", "carol"} {
		register(t, s, n)
	}

	_, _, err := s.ListUsers(ctx, Actor{UserID: 1}, 1, 20)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	users, total, err := s.ListUsers(ctx, Actor{UserID: 1, IsAdmin: true}, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, users, 2)
	assert.Equal(t, "carol", users[0].Username)
}

package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natorvoice/natorvoice/internal/common"
	"github.com/natorvoice/natorvoice/internal/server/auth"
	"github.com/natorvoice/natorvoice/internal/server/models"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(newStore(t).Users(), auth.NewIssuer([]byte("secret"), 0))
}

func TestAuthService_RegisterThenAuthenticate(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()

	u, err := s.Register(ctx, "  Alice@Example.COM ", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotEmpty(t, u.ID)
	assert.NotEqual(t, "correct horse", u.PasswordHash)
	assert.Len(t, u.Salt, 32)

	got, err := s.Authenticate(ctx, "alice@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = s.Authenticate(ctx, "ALICE@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestAuthService_AuthenticateFailuresAreIndistinguishable(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()
	_, err := s.Register(ctx, "bob@example.com", "password1")
	require.NoError(t, err)

	_, wrongPassword := s.Authenticate(ctx, "bob@example.com", "password2")
	_, unknownEmail := s.Authenticate(ctx, "nobody@example.com", "password1")

	for _, err := range []error{wrongPassword, unknownEmail} {
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrorUnauthorized)
		assert.Equal(t, "Invalid email or password.", common.AsError(err).Message)
		assert.Equal(t, 401, common.AsError(err).Status())
	}
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestAuthService_AuthenticateRequiresFields(t *testing.T) {
	s := newAuthService(t)
	_, err := s.Authenticate(context.Background(), " ", "x")
	assert.True(t, common.IsKind(err, common.KindValidation))
	assert.Equal(t, "Email and password are required.", common.AsError(err).Message)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		message  string
	}{
		{"no at", "alice.example.com", "password1", "A valid email is required."},
		{"no dot", "alice@example", "password1", "A valid email is required."},
		{"space", "al ice@example.com", "password1", "A valid email is required."},
		{"short", "alice@example.com", "1234567", "Password must be 8-72 characters."},
		{"long", "alice@example.com", strings.Repeat("x", 73), "Password must be 8-72 characters."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Register(ctx, tt.email, tt.password)
			require.Error(t, err)
			assert.True(t, common.IsKind(err, common.KindValidation))
			assert.Equal(t, tt.message, common.AsError(err).Message)
		})
	}

	_, err := s.Register(ctx, "edge@example.com", strings.Repeat("é", 72))
	assert.NoError(t, err)
}

func TestAuthService_RegisterConflict(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()
	_, err := s.Register(ctx, "carol@example.com", "password1")
	require.NoError(t, err)

	_, err = s.Register(ctx, "CAROL@example.com", "password2")
	require.Error(t, err)
	assert.True(t, common.IsKind(err, common.KindConflict))
	assert.Equal(t, 400, common.AsError(err).Status())
	assert.Equal(t, "An account with this email already exists.", common.AsError(err).Message)
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()
	u, err := s.Register(ctx, "dave@example.com", "password1")
	require.NoError(t, err)

	token, err := s.IssueToken(u)
	require.NoError(t, err)

	id, err := s.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)

	got, err := s.RequireUser(ctx, "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestAuthService_RequireUserRejects(t *testing.T) {
	store := newStore(t)
	issuer := auth.NewIssuer([]byte("secret"), time.Hour)
	s := NewAuthService(store.Users(), issuer)
	ctx := context.Background()

	u, err := s.Register(ctx, "erin@example.com", "password1")
	require.NoError(t, err)
	good, err := s.IssueToken(u)
	require.NoError(t, err)

	ghost, err := issuer.Issue("no-such-user", "ghost@example.com")
	require.NoError(t, err)

	expired, err := auth.NewIssuer([]byte("secret"), time.Hour).
		WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }).
		Issue(u.ID, u.Email)
	require.NoError(t, err)

	otherSecret, err := auth.NewIssuer([]byte("other"), time.Hour).Issue(u.ID, u.Email)
	require.NoError(t, err)

	parts := strings.Split(good, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	for name, header := range map[string]string{
		"empty":        "",
		"no bearer":    good,
		"basic":        "Basic " + good,
		"blank token":  "Bearer   ",
		"garbage":      "Bearer a.b.c",
		"two segments": "Bearer " + parts[0] + "." + parts[1],
		"tampered":     "Bearer " + tampered,
		"expired":      "Bearer " + expired,
		"wrong secret": "Bearer " + otherSecret,
		"deleted user": "Bearer " + ghost,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := s.RequireUser(ctx, header)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrorUnauthorized)
			assert.Equal(t, "Unauthorized.", common.AsError(err).Message)
		})
	}
}

type brokenUsers struct{}

func (brokenUsers) Create(context.Context, *models.User) (*models.User, error) {
	return nil, errors.New("disk full")
}
func (brokenUsers) GetByEmail(context.Context, string) (*models.User, error) {
	return nil, errors.New("disk full")
}
func (brokenUsers) GetByID(context.Context, string) (*models.User, error) {
	return nil, errors.New("disk full")
}

func TestAuthService_StoreFailuresAreInternal(t *testing.T) {
	issuer := auth.NewIssuer([]byte("secret"), time.Hour)
	s := NewAuthService(brokenUsers{}, issuer)
	ctx := context.Background()

	_, err := s.Register(ctx, "x@example.com", "password1")
	assert.Equal(t, common.KindInternal, common.AsError(err).Kind)

	_, err = s.Authenticate(ctx, "x@example.com", "password1")
	assert.Equal(t, common.KindInternal, common.AsError(err).Kind)

	token, err := issuer.Issue("u1", "x@example.com")
	require.NoError(t, err)
	_, err = s.RequireUser(ctx, "Bearer "+token)
	assert.Equal(t, common.KindInternal, common.AsError(err).Kind)
}

// Package services contains server-side business logic: accounts and
// sessions, the usage ledger, clip history and the synthesis flow.
package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/natorvoice/natorvoice/internal/common"
	"github.com/natorvoice/natorvoice/internal/cryptox"
	"github.com/natorvoice/natorvoice/internal/server/auth"
	"github.com/natorvoice/natorvoice/internal/server/models"
	"github.com/natorvoice/natorvoice/internal/server/repositories/users"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthService registers and authenticates users and manages their session
// tokens.
type AuthService struct {
	users  users.Repository
	tokens *auth.Issuer
	now    func() time.Time
}

// NewAuthService constructs an AuthService.
func NewAuthService(users users.Repository, tokens *auth.Issuer) *AuthService {
	return &AuthService{users: users, tokens: tokens, now: time.Now}
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account. It fails with a validation error for a
// malformed email or a password outside 8-72 characters, and with a conflict
// when the email is taken.
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)
	if !emailPattern.MatchString(email) {
		return nil, common.NewError(common.KindValidation, "A valid email is required.", nil)
	}
	if n := utf8.RuneCountInString(password); n < MinPasswordLength || n > MaxPasswordLength {
		return nil, common.NewError(common.KindValidation, "Password must be 8-72 characters.", nil)
	}

	salt, err := cryptox.NewSalt()
	if err != nil {
		return nil, fmt.Errorf("error generating salt: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: cryptox.HashPassword(password, salt),
		Salt:         salt,
		CreatedAt:    s.now().UTC(),
	}
	u, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.NewError(common.KindConflict, "An account with this email already exists.", err)
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Authenticate returns the user owning the credentials. Unknown email and
// wrong password fail identically with common.ErrorUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, common.NewError(common.KindValidation, "Email and password are required.", nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("error loading user: %w", err)
		}
		// spend the same work as a real check
		cryptox.HashPassword(password, s.randomSalt())
		return nil, invalidCredentials()
	}
	if !cryptox.VerifyPassword(password, user.Salt, user.PasswordHash) {
		return nil, invalidCredentials()
	}
	return user, nil
}

// IssueToken returns a signed session token for user.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("error signing token: %w", err)
	}
	return token, nil
}

// VerifyToken returns the user id carried by a valid, unexpired token.
func (s *AuthService) VerifyToken(token string) (string, error) {
	return s.tokens.Verify(token)
}

// RequireUser resolves an Authorization header value to a stored user. A
// missing or malformed header, a bad token, or a deleted user all fail with
// an Unauthorized error wrapping common.ErrorUnauthorized.
func (s *AuthService) RequireUser(ctx context.Context, header string) (*models.User, error) {
	raw, ok := strings.CutPrefix(header, common.BearerPrefix)
	if !ok {
		return nil, unauthorized(nil)
	}
	token := strings.TrimSpace(raw)
	if token == "" {
		return nil, unauthorized(nil)
	}

	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, unauthorized(err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, unauthorized(err)
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

func (s *AuthService) randomSalt() string {
	salt, err := cryptox.NewSalt()
	if err != nil {
		return ""
	}
	return salt
}

func invalidCredentials() error {
	return common.NewError(common.KindUnauthorized, "Invalid email or password.", common.ErrorUnauthorized)
}

func unauthorized(cause error) error {
	if cause == nil {
		cause = common.ErrorUnauthorized
	} else {
		cause = fmt.Errorf("%w: %w", common.ErrorUnauthorized, cause)
	}
	return common.NewError(common.KindUnauthorized, "Unauthorized.", cause)
}

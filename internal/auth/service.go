package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/velkyr/account-api/internal/logging"
	"github.com/velkyr/account-api/internal/password"
	"github.com/velkyr/account-api/internal/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or secret")
	ErrNameRequired       = errors.New("name is required")
	ErrEmailRequired      = errors.New("email is required")
	ErrSecretRequired     = errors.New("secret is required")
	ErrSecretTooShort     = errors.New("secret must be at least 8 characters")
	ErrInvalidEmailFormat = errors.New("invalid email format")
)

// SignupInput carries the fields required to create an account
type SignupInput struct {
	Name       string
	Email      string
	Secret     string
	Phone      *string
	PictureRef *string
}

// Service handles authentication business logic
type Service struct {
	store         user.Store
	tokens        TokenService
	logger        *logging.Logger
	tokenDuration time.Duration
}

func NewService(store user.Store, tokens TokenService, logger *logging.Logger, tokenDuration time.Duration) *Service {
	return &Service{
		store:         store,
		tokens:        tokens,
		logger:        logger,
		tokenDuration: tokenDuration,
	}
}

// Signup creates a new user account and issues a session token for it.
// The pre-insert lookup is a fast path; the unique index on email is what
// actually closes the check-then-write race, so the insert's duplicate
// error maps to the same result.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*user.User, string, error) {
	if in.Name == "" {
		return nil, "", ErrNameRequired
	}
	if in.Email == "" {
		return nil, "", ErrEmailRequired
	}
	if len(in.Email) > 254 {
		return nil, "", ErrInvalidEmailFormat
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, "", ErrInvalidEmailFormat
	}
	if in.Secret == "" {
		return nil, "", ErrSecretRequired
	}
	if len(in.Secret) < 8 {
		return nil, "", ErrSecretTooShort
	}

	_, err := s.store.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, "", user.ErrDuplicateEmail
	case errors.Is(err, user.ErrNotFound):
		// Email looks free; the insert below has the final say
	default:
		return nil, "", fmt.Errorf("failed to check email uniqueness: %w", err)
	}

	secretHash, err := password.Hash(in.Secret)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash secret: %w", err)
	}

	newUser, err := s.store.Create(ctx, in.Name, in.Email, secretHash, in.Phone, in.PictureRef)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, "", user.ErrDuplicateEmail
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.CreateToken(newUser.ID, s.tokenDuration)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create token: %w", err)
	}

	return newUser, token, nil
}

// Login verifies credentials and issues a fresh session token. An unknown
// email and a wrong secret produce the same error so callers cannot tell
// which half of the pair was wrong.
func (s *Service) Login(ctx context.Context, email, secret string) (string, error) {
	if email == "" || secret == "" {
		return "", ErrInvalidCredentials
	}

	existing, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	if !password.Verify(existing.SecretHash, secret) {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.CreateToken(existing.ID, s.tokenDuration)
	if err != nil {
		return "", fmt.Errorf("failed to create token: %w", err)
	}

	return token, nil
}

package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/velkyr/account-api/internal/logging"
	"github.com/velkyr/account-api/internal/password"
)

var (
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrSecretTooShort     = errors.New("secret must be at least 8 characters")
)

// UpdateInput carries a partial profile update; nil fields are left untouched.
type UpdateInput struct {
	Name       *string
	Email      *string
	Phone      *string
	PictureRef *string
	Secret     *string
}

// Service handles profile business logic
type Service struct {
	store  Store
	logger *logging.Logger
}

func NewService(store Store, logger *logging.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// GetProfile projects a user for API output, dropping the secret hash.
func (s *Service) GetProfile(u *User) Profile {
	return Profile{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		PictureRef: u.PictureRef,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// UpdateProfile applies the provided fields to the current user. A changed
// email is re-checked for uniqueness; the fast-path lookup can still race,
// so the unique index violation from the store remains the authoritative
// duplicate signal. A provided secret replaces the stored hash outright;
// holding a valid session is the only required proof.
func (s *Service) UpdateProfile(ctx context.Context, current *User, in UpdateInput) error {
	var patch Patch

	if in.Name != nil {
		patch.Name = in.Name
	}

	if in.Email != nil && *in.Email != current.Email {
		if _, err := mail.ParseAddress(*in.Email); err != nil {
			return ErrInvalidEmailFormat
		}

		_, err := s.store.GetByEmail(ctx, *in.Email)
		switch {
		case err == nil:
			return ErrDuplicateEmail
		case errors.Is(err, ErrNotFound):
			// Email is free as far as the fast path can tell
		default:
			return fmt.Errorf("failed to check email uniqueness: %w", err)
		}

		patch.Email = in.Email
	}

	if in.Phone != nil {
		patch.Phone = in.Phone
	}
	if in.PictureRef != nil {
		patch.PictureRef = in.PictureRef
	}

	if in.Secret != nil {
		if len(*in.Secret) < 8 {
			return ErrSecretTooShort
		}
		hash, err := password.Hash(*in.Secret)
		if err != nil {
			return fmt.Errorf("failed to hash secret: %w", err)
		}
		patch.SecretHash = &hash
	}

	if err := s.store.Update(ctx, current.ID, patch); err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicateEmail) {
			return err
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

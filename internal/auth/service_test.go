package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velkyr/account-api/internal/logging"
	"github.com/velkyr/account-api/internal/password"
	"github.com/velkyr/account-api/internal/user"
)

func newTestService(t *testing.T) (*Service, *user.MemoryStore) {
	t.Helper()
	store := user.NewMemoryStore()
	svc := NewService(store, newTestPasetoService(t), logging.NewLogger(true), 30*24*time.Hour)
	return svc, store
}

func seedUser(t *testing.T, store *user.MemoryStore, email, secret string) *user.User {
	t.Helper()
	hash, err := password.Hash(secret)
	require.NoError(t, err)
	u, err := store.Create(context.Background(), "Seed User", email, hash, nil, nil)
	require.NoError(t, err)
	return u
}

func TestSignupIssuesVerifiableToken(t *testing.T) {
	svc, store := newTestService(t)
	tokens := newTestPasetoService(t)

	newUser, token, err := svc.Signup(context.Background(), SignupInput{
		Name:   "A",
		Email:  "a@x.com",
		Secret: "password1",
	})
	require.NoError(t, err)
	require.NotNil(t, newUser)

	claims, err := tokens.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, newUser.ID.String(), claims.UserID)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), claims.ExpiresAt, 5*time.Second)

	// Stored record carries a verifying hash, never the plaintext
	stored, err := store.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "password1", stored.SecretHash)
	assert.True(t, password.Verify(stored.SecretHash, "password1"))
	assert.Equal(t, 1, store.Len())
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, store := newTestService(t)
	seedUser(t, store, "a@x.com", "password1")

	_, _, err := svc.Signup(context.Background(), SignupInput{
		Name:   "B",
		Email:  "a@x.com",
		Secret: "password2",
	})
	assert.ErrorIs(t, err, user.ErrDuplicateEmail)
	assert.Equal(t, 1, store.Len(), "duplicate signup must not create a record")
}

func TestSignupValidation(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name    string
		input   SignupInput
		wantErr error
	}{
		{"missing name", SignupInput{Email: "a@x.com", Secret: "password1"}, ErrNameRequired},
		{"missing email", SignupInput{Name: "A", Secret: "password1"}, ErrEmailRequired},
		{"bad email", SignupInput{Name: "A", Email: "not-an-email", Secret: "password1"}, ErrInvalidEmailFormat},
		{"missing secret", SignupInput{Name: "A", Email: "a@x.com"}, ErrSecretRequired},
		{"short secret", SignupInput{Name: "A", Email: "a@x.com", Secret: "short"}, ErrSecretTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Signup(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// raceStore simulates two signups passing the fast-path lookup before either
// writes: the lookup sees no user but the insert hits the unique index.
type raceStore struct {
	user.Store
}

func (r *raceStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, user.ErrNotFound
}

func (r *raceStore) Create(ctx context.Context, name, email, secretHash string, phone, pictureRef *string) (*user.User, error) {
	return nil, user.ErrDuplicateEmail
}

func TestSignupRaceLosesToStoreConstraint(t *testing.T) {
	svc := NewService(&raceStore{}, newTestPasetoService(t), logging.NewLogger(true), time.Hour)

	_, _, err := svc.Signup(context.Background(), SignupInput{
		Name:   "A",
		Email:  "a@x.com",
		Secret: "password1",
	})
	assert.ErrorIs(t, err, user.ErrDuplicateEmail)
}

func TestLoginSuccess(t *testing.T) {
	svc, store := newTestService(t)
	seeded := seedUser(t, store, "a@x.com", "password1")

	token, err := svc.Login(context.Background(), "a@x.com", "password1")
	require.NoError(t, err)

	claims, err := newTestPasetoService(t).VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID.String(), claims.UserID)
}

func TestLoginMintsIndependentTokens(t *testing.T) {
	svc, store := newTestService(t)
	seedUser(t, store, "a@x.com", "password1")

	t1, err := svc.Login(context.Background(), "a@x.com", "password1")
	require.NoError(t, err)
	t2, err := svc.Login(context.Background(), "a@x.com", "password1")
	require.NoError(t, err)

	assert.NotEqual(t, t1, t2)
}

func TestLoginFailuresIndistinguishable(t *testing.T) {
	svc, store := newTestService(t)
	seedUser(t, store, "a@x.com", "password1")

	_, wrongSecretErr := svc.Login(context.Background(), "a@x.com", "wrong")
	_, unknownEmailErr := svc.Login(context.Background(), "nobody@x.com", "password1")

	assert.ErrorIs(t, wrongSecretErr, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmailErr, ErrInvalidCredentials)
	assert.Equal(t, wrongSecretErr.Error(), unknownEmailErr.Error(),
		"wrong secret and unknown email must be indistinguishable")
}

func TestLoginEmptyCredentials(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Login(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginDoesNotAcceptHashAsSecret(t *testing.T) {
	svc, store := newTestService(t)
	seedUser(t, store, "a@x.com", "password1")

	stored, err := store.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "a@x.com", stored.SecretHash)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

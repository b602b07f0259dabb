package user

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store implementation. It enforces the same
// email uniqueness the database index does, so flows exercised against it
// see the authoritative duplicate signal too.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[uuid.UUID]*User)}
}

var _ Store = (*MemoryStore)(nil)

func (m *MemoryStore) Create(_ context.Context, name, email, secretHash string, phone, pictureRef *string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			return nil, ErrDuplicateEmail
		}
	}

	now := time.Now()
	u := &User{
		ID:         uuid.New(),
		Name:       name,
		Email:      email,
		SecretHash: secretHash,
		Phone:      phone,
		PictureRef: pictureRef,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	m.users[u.ID] = u

	return copyUser(u), nil
}

func (m *MemoryStore) GetByEmail(_ context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(u), nil
}

func (m *MemoryStore) Update(_ context.Context, id uuid.UUID, patch Patch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}

	if patch.Email != nil {
		for otherID, other := range m.users {
			if otherID != id && other.Email == *patch.Email {
				return ErrDuplicateEmail
			}
		}
		u.Email = *patch.Email
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Phone != nil {
		u.Phone = patch.Phone
	}
	if patch.PictureRef != nil {
		u.PictureRef = patch.PictureRef
	}
	if patch.SecretHash != nil {
		u.SecretHash = *patch.SecretHash
	}
	u.UpdatedAt = time.Now()

	return nil
}

// Len reports the number of stored users
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}

func copyUser(u *User) *User {
	c := *u
	if u.Phone != nil {
		phone := *u.Phone
		c.Phone = &phone
	}
	if u.PictureRef != nil {
		ref := *u.PictureRef
		c.PictureRef = &ref
	}
	return &c
}

package auth

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// UserRepository stores admin users. Usernames are unique via a best-effort
// check-then-insert, which is sufficient at single-admin scale.
type UserRepository interface {
	Create(ctx context.Context, username, passwordHash string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
}

// InMemoryUserRepository keeps users in a process-local map.
type InMemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*User
}

// NewInMemoryUserRepository creates an empty in-memory user repository.
func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{users: make(map[string]*User)}
}

var _ UserRepository = (*InMemoryUserRepository)(nil)

// Create stores a new user, rejecting duplicate usernames.
func (r *InMemoryUserRepository) Create(ctx context.Context, username, passwordHash string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == username {
			return nil, ErrUsernameTaken
		}
	}

	user := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
	}
	r.users[user.ID] = user

	copy := *user
	return &copy, nil
}

// GetByID returns the user or ErrUserNotFound.
func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copy := *user
	return &copy, nil
}

// GetByUsername does a case-sensitive exact-match lookup.
func (r *InMemoryUserRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == username {
			copy := *u
			return &copy, nil
		}
	}
	return nil, ErrUserNotFound
}

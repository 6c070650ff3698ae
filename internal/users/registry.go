// Package users holds the in-memory credential registry. The service keeps no
// user database: accounts are seeded at startup from configuration and live
// for the process lifetime only.
package users

import (
	"fmt"
	"sync"

	"github.com/calebhoward/bastion/internal/models"
	pkgauth "github.com/calebhoward/bastion/pkg/auth"
)

// User is a registered identity.
type User struct {
	Email        string
	PasswordHash string
	Role         string
}

// Registry verifies credentials against seeded accounts.
type Registry struct {
	mu    sync.RWMutex
	users map[string]User

	// dummyHash keeps the unknown-identity path doing a real bcrypt compare
	// so response timing does not reveal which emails exist.
	dummyHash string
}

// NewRegistry returns an empty registry.
func NewRegistry() (*Registry, error) {
	dummy, err := pkgauth.HashPassword("bastion-no-such-user")
	if err != nil {
		return nil, fmt.Errorf("init registry: %w", err)
	}
	return &Registry{
		users:     make(map[string]User),
		dummyHash: dummy,
	}, nil
}

// Add registers an account, hashing the given plaintext password.
func (r *Registry) Add(email, password, role string) error {
	hash, err := pkgauth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("add user: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[email] = User{Email: email, PasswordHash: hash, Role: role}
	return nil
}

// Verify checks email/password and returns the matched user. Unknown
// identities and wrong passwords are indistinguishable to the caller.
func (r *Registry) Verify(email, password string) (User, error) {
	r.mu.RLock()
	u, ok := r.users[email]
	dummy := r.dummyHash
	r.mu.RUnlock()

	if !ok {
		_ = pkgauth.ComparePassword(dummy, password)
		return User{}, models.ErrInvalidCredentials
	}
	if err := pkgauth.ComparePassword(u.PasswordHash, password); err != nil {
		return User{}, models.ErrInvalidCredentials
	}
	return u, nil
}

// Get looks up a user by email.
func (r *Registry) Get(email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[email]
	if !ok {
		return User{}, models.ErrNotFound
	}
	return u, nil
}

// Package memory provides an in-memory domain.UserRepository for tests and
// local development. Each test constructs its own instance, so nothing leaks
// between cases.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/tdnguyen/profile-service/internal/core/domain"
)

// UserRepository implements domain.UserRepository with a mutex-guarded map.
type UserRepository struct {
	mu     sync.RWMutex
	users  map[int]*domain.User
	nextID int
}

// NewUserRepository creates an empty in-memory user repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:  make(map[int]*domain.User),
		nextID: 1,
	}
}

// emailTaken reports whether another account owns the email. Callers must
// hold the lock.
func (r *UserRepository) emailTaken(email string, excludeID int) bool {
	for id, u := range r.users {
		if id != excludeID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (r *UserRepository) CreateUser(ctx context.Context, email, fullName, passwordHash string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTaken(email, 0) {
		return nil, domain.ErrEmailTaken
	}

	u := &domain.User{
		ID:           r.nextID,
		Email:        strings.ToLower(email),
		FullName:     fullName,
		PasswordHash: passwordHash,
		IsActive:     true,
	}
	r.users[u.ID] = u
	r.nextID++

	cp := *u
	return &cp, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int, email, phoneNumber *string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	if email != nil {
		if r.emailTaken(*email, id) {
			return nil, domain.ErrEmailTaken
		}
		u.Email = strings.ToLower(*email)
	}
	if phoneNumber != nil {
		phone := *phoneNumber
		u.PhoneNumber = &phone
	}

	cp := *u
	return &cp, nil
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id int, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *UserRepository) DeleteUser(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

// Compile-time interface check
var _ domain.UserRepository = (*UserRepository)(nil)

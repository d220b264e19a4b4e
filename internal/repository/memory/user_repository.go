// Package memory provides map-backed repository implementations used in
// tests and for running the service without a database file.
package memory

import (
	"context"
	"sync"
	"time"

	"twinforge/internal/domain"
	"twinforge/internal/repository"
)

type UserRepository struct {
	mu      sync.Mutex
	byID    map[string]*domain.User
	byEmail map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *UserRepository) Init(ctx context.Context) error {
	return nil
}

// Create performs the uniqueness check and the insert under one lock so
// concurrent registrations with the same email cannot both succeed.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return repository.ErrDuplicateEmail
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	r.byID[user.ID] = &stored
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	user := *r.byID[id]
	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *UserRepository) UpdateTier(ctx context.Context, id string, tier domain.Tier) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.Tier = tier
	user.UpdatedAt = time.Now().UTC()
	return nil
}

package repository

import (
	"context"

	"twinforge/internal/domain"
)

// UserRepository defines persistence operations for User entities.
//
// Create must be an atomic check-and-insert on the normalized email:
// concurrent calls with the same email may not both succeed. The sqlite
// implementation relies on a UNIQUE constraint, the in-memory one on a
// mutex held across check and insert.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	UpdateTier(ctx context.Context, id string, tier domain.Tier) error
}

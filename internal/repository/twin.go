package repository

import (
	"context"

	"twinforge/internal/domain"
)

// TwinRepository defines persistence operations for Twin entities.
// ListByOwner returns twins in insertion order and never fails on an
// empty result.
type TwinRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, twin *domain.Twin) error
	Get(ctx context.Context, id string) (*domain.Twin, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Twin, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	UpdateConfig(ctx context.Context, id string, config []byte) error
	Delete(ctx context.Context, id string) error
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"twinforge/internal/domain"
	"twinforge/internal/repository"
)

var (
	// ErrTwinNotFound is returned when a twin does not exist or belongs
	// to another user. Foreign ownership is deliberately not
	// distinguishable from absence.
	ErrTwinNotFound = errors.New("twin not found")
	// ErrTwinLimitReached is returned when the owner's tier does not
	// allow another twin.
	ErrTwinLimitReached = errors.New("twin limit reached for tier")
)

// TwinService coordinates twin operations backed by repositories. Every
// read and write is scoped to the requesting owner.
type TwinService interface {
	Create(ctx context.Context, ownerID string, config json.RawMessage) (*domain.Twin, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Twin, error)
	Get(ctx context.Context, twinID, requesterID string) (*domain.Twin, error)
	UpdateConfig(ctx context.Context, twinID, requesterID string, config json.RawMessage) (*domain.Twin, error)
	Delete(ctx context.Context, twinID, requesterID string) error
}

type twinService struct {
	twins repository.TwinRepository
	users repository.UserRepository
}

func NewTwinService(twins repository.TwinRepository, users repository.UserRepository) TwinService {
	return &twinService{
		twins: twins,
		users: users,
	}
}

func (s *twinService) Create(ctx context.Context, ownerID string, config json.RawMessage) (*domain.Twin, error) {
	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	limits, ok := domain.TierTable[owner.Tier]
	if !ok {
		return nil, fmt.Errorf("unknown tier %q for user %s", owner.Tier, owner.ID)
	}
	if limits.MaxTwins != -1 {
		count, err := s.twins.CountByOwner(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		if count >= limits.MaxTwins {
			return nil, ErrTwinLimitReached
		}
	}

	twin := &domain.Twin{
		ID:      uuid.NewString(),
		OwnerID: ownerID,
		Config:  config,
	}
	if err := s.twins.Create(ctx, twin); err != nil {
		return nil, err
	}
	return twin, nil
}

func (s *twinService) ListByOwner(ctx context.Context, ownerID string) ([]domain.Twin, error) {
	return s.twins.ListByOwner(ctx, ownerID)
}

func (s *twinService) Get(ctx context.Context, twinID, requesterID string) (*domain.Twin, error) {
	twin, err := s.twins.Get(ctx, twinID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTwinNotFound
		}
		return nil, err
	}
	if twin.OwnerID != requesterID {
		return nil, ErrTwinNotFound
	}
	return twin, nil
}

func (s *twinService) UpdateConfig(ctx context.Context, twinID, requesterID string, config json.RawMessage) (*domain.Twin, error) {
	if _, err := s.Get(ctx, twinID, requesterID); err != nil {
		return nil, err
	}
	if err := s.twins.UpdateConfig(ctx, twinID, config); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTwinNotFound
		}
		return nil, err
	}
	return s.Get(ctx, twinID, requesterID)
}

func (s *twinService) Delete(ctx context.Context, twinID, requesterID string) error {
	if _, err := s.Get(ctx, twinID, requesterID); err != nil {
		return err
	}
	if err := s.twins.Delete(ctx, twinID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTwinNotFound
		}
		return err
	}
	return nil
}

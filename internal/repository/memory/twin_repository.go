package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"twinforge/internal/domain"
	"twinforge/internal/repository"
)

type TwinRepository struct {
	mu    sync.Mutex
	byID  map[string]*domain.Twin
	order []string
}

func NewTwinRepository() *TwinRepository {
	return &TwinRepository{
		byID: make(map[string]*domain.Twin),
	}
}

func (r *TwinRepository) Init(ctx context.Context) error {
	return nil
}

func (r *TwinRepository) Create(ctx context.Context, twin *domain.Twin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	twin.CreatedAt = now
	twin.UpdatedAt = now
	if len(twin.Config) == 0 {
		twin.Config = json.RawMessage(`{}`)
	}

	stored := *twin
	r.byID[twin.ID] = &stored
	r.order = append(r.order, twin.ID)
	return nil
}

func (r *TwinRepository) Get(ctx context.Context, id string) (*domain.Twin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	twin, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *twin
	return &copied, nil
}

// ListByOwner returns the owner's twins in insertion order.
func (r *TwinRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Twin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	twins := []domain.Twin{}
	for _, id := range r.order {
		twin, ok := r.byID[id]
		if !ok || twin.OwnerID != ownerID {
			continue
		}
		twins = append(twins, *twin)
	}
	return twins, nil
}

func (r *TwinRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, twin := range r.byID {
		if twin.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}

func (r *TwinRepository) UpdateConfig(ctx context.Context, id string, config []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	twin, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	if len(config) == 0 {
		config = []byte(`{}`)
	}
	twin.Config = append(json.RawMessage(nil), config...)
	twin.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *TwinRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.byID, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twinforge/internal/domain"
	"twinforge/internal/repository"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewUserRepository()

	user := &domain.User{
		ID:           "u1",
		Email:        "a@example.com",
		Name:         "A",
		Tier:         domain.TierFree,
		PasswordHash: "hash",
	}
	require.NoError(t, repo.Create(ctx, user))
	assert.False(t, user.CreatedAt.IsZero())

	byEmail, err := repo.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", byEmail.ID)

	byID, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", byID.Email)

	_, err = repo.GetByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewUserRepository()

	require.NoError(t, repo.Create(ctx, &domain.User{ID: "u1", Email: "dup@example.com"}))
	err := repo.Create(ctx, &domain.User{ID: "u2", Email: "dup@example.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	// the losing insert must leave no record behind
	_, err = repo.GetByID(ctx, "u2")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_ConcurrentCreate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewUserRepository()

	const attempts = 32
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			err := repo.Create(ctx, &domain.User{
				ID:    "u" + string(rune('a'+n)),
				Email: "race@example.com",
			})
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
}

func TestUserRepository_UpdateTier(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewUserRepository()

	require.NoError(t, repo.Create(ctx, &domain.User{ID: "u1", Email: "t@example.com", Tier: domain.TierFree}))
	require.NoError(t, repo.UpdateTier(ctx, "u1", domain.TierBusiness))

	user, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.TierBusiness, user.Tier)

	assert.ErrorIs(t, repo.UpdateTier(ctx, "missing", domain.TierPro), repository.ErrNotFound)
}

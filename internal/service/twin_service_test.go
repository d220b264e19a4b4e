package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twinforge/internal/domain"
	"twinforge/internal/repository/memory"
)

type twinFixture struct {
	users UserService
	twins TwinService
}

func newTwinFixture() twinFixture {
	userRepo := memory.NewUserRepository()
	twinRepo := memory.NewTwinRepository()
	return twinFixture{
		users: NewUserService(userRepo),
		twins: NewTwinService(twinRepo, userRepo),
	}
}

func (f twinFixture) registerUser(t *testing.T, email string) string {
	t.Helper()
	user, err := f.users.Register(context.Background(), email, "password123", "Tester")
	require.NoError(t, err)
	return user.ID
}

func TestCreateAndList(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newTwinFixture()
	ownerID := f.registerUser(t, "owner@example.com")
	otherID := f.registerUser(t, "other@example.com")

	config := json.RawMessage(`{"name":"Scholar","traits":["curious"]}`)
	twin, err := f.twins.Create(ctx, ownerID, config)
	require.NoError(t, err)
	require.NotEmpty(t, twin.ID)
	assert.Equal(t, ownerID, twin.OwnerID)
	assert.JSONEq(t, string(config), string(twin.Config))

	owned, err := f.twins.ListByOwner(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, twin.ID, owned[0].ID)
	assert.JSONEq(t, string(config), string(owned[0].Config))

	foreign, err := f.twins.ListByOwner(ctx, otherID)
	require.NoError(t, err)
	assert.Empty(t, foreign)
}

func TestCreate_UnknownOwner(t *testing.T) {
	t.Parallel()

	f := newTwinFixture()
	_, err := f.twins.Create(context.Background(), "missing-user", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGet_OwnershipHiding(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newTwinFixture()
	ownerID := f.registerUser(t, "owner@example.com")
	otherID := f.registerUser(t, "other@example.com")

	twin, err := f.twins.Create(ctx, ownerID, json.RawMessage(`{"k":"v"}`))
	require.NoError(t, err)

	got, err := f.twins.Get(ctx, twin.ID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, twin.ID, got.ID)

	// a different requester sees "not found", never a forbidden error
	_, err = f.twins.Get(ctx, twin.ID, otherID)
	assert.ErrorIs(t, err, ErrTwinNotFound)

	_, err = f.twins.Get(ctx, "missing-twin", ownerID)
	assert.ErrorIs(t, err, ErrTwinNotFound)
}

func TestUpdateConfig(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newTwinFixture()
	ownerID := f.registerUser(t, "owner@example.com")
	otherID := f.registerUser(t, "other@example.com")

	twin, err := f.twins.Create(ctx, ownerID, json.RawMessage(`{"v":1}`))
	require.NoError(t, err)

	updated, err := f.twins.UpdateConfig(ctx, twin.ID, ownerID, json.RawMessage(`{"v":2}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(updated.Config))

	_, err = f.twins.UpdateConfig(ctx, twin.ID, otherID, json.RawMessage(`{"v":3}`))
	assert.ErrorIs(t, err, ErrTwinNotFound)

	// the foreign update must leave the twin untouched
	got, err := f.twins.Get(ctx, twin.ID, ownerID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(got.Config))
}

func TestDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newTwinFixture()
	ownerID := f.registerUser(t, "owner@example.com")
	otherID := f.registerUser(t, "other@example.com")

	twin, err := f.twins.Create(ctx, ownerID, json.RawMessage(`{}`))
	require.NoError(t, err)

	err = f.twins.Delete(ctx, twin.ID, otherID)
	assert.ErrorIs(t, err, ErrTwinNotFound)

	require.NoError(t, f.twins.Delete(ctx, twin.ID, ownerID))

	_, err = f.twins.Get(ctx, twin.ID, ownerID)
	assert.ErrorIs(t, err, ErrTwinNotFound)
}

func TestCreate_TierLimit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newTwinFixture()
	ownerID := f.registerUser(t, "limited@example.com")

	// free tier allows a single twin
	_, err := f.twins.Create(ctx, ownerID, json.RawMessage(`{"n":1}`))
	require.NoError(t, err)

	_, err = f.twins.Create(ctx, ownerID, json.RawMessage(`{"n":2}`))
	assert.ErrorIs(t, err, ErrTwinLimitReached)

	// upgrading raises the limit
	_, err = f.users.UpgradeTier(ctx, ownerID, domain.TierPro)
	require.NoError(t, err)

	_, err = f.twins.Create(ctx, ownerID, json.RawMessage(`{"n":2}`))
	require.NoError(t, err)

	owned, err := f.twins.ListByOwner(ctx, ownerID)
	require.NoError(t, err)
	assert.Len(t, owned, 2)
}

func TestList_InsertionOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newTwinFixture()
	ownerID := f.registerUser(t, "ordered@example.com")

	_, err := f.users.UpgradeTier(ctx, ownerID, domain.TierBusiness)
	require.NoError(t, err)

	var ids []string
	for i := 0; i < 5; i++ {
		twin, err := f.twins.Create(ctx, ownerID, json.RawMessage(`{}`))
		require.NoError(t, err)
		ids = append(ids, twin.ID)
	}

	owned, err := f.twins.ListByOwner(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, owned, len(ids))
	for i := range ids {
		assert.Equal(t, ids[i], owned[i].ID)
	}
}

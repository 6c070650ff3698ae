package guard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/calebhoward/bastion/internal/guard"
	"github.com/calebhoward/bastion/internal/models"
	"github.com/calebhoward/bastion/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevocationRegistryRevokeAndCheck(t *testing.T) {
	s := store.NewMemoryStore()
	r := guard.NewRevocationRegistry(s, testLogger())
	ctx := context.Background()

	require.NoError(t, r.Revoke(ctx, "jti-1", 15*time.Minute))

	revoked, err := r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = r.IsRevoked(ctx, "jti-other")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevocationRegistryMarkerExpiresWithToken(t *testing.T) {
	s := store.NewMemoryStore()
	now := time.Now()
	s.SetClock(func() time.Time { return now })

	r := guard.NewRevocationRegistry(s, testLogger())
	ctx := context.Background()

	require.NoError(t, r.Revoke(ctx, "jti-1", 10*time.Minute))

	// Once the token's own lifetime has passed, the marker is gone too
	now = now.Add(10*time.Minute + time.Second)

	revoked, err := r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevocationRegistryExpiredTokenIsNoOp(t *testing.T) {
	s := store.NewMemoryStore()
	r := guard.NewRevocationRegistry(s, testLogger())
	ctx := context.Background()

	require.NoError(t, r.Revoke(ctx, "jti-1", 0))
	require.NoError(t, r.Revoke(ctx, "jti-2", -time.Minute))

	revoked, err := r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevocationRegistryIdempotent(t *testing.T) {
	s := store.NewMemoryStore()
	r := guard.NewRevocationRegistry(s, testLogger())
	ctx := context.Background()

	require.NoError(t, r.Revoke(ctx, "jti-1", 5*time.Minute))
	require.NoError(t, r.Revoke(ctx, "jti-1", 3*time.Minute))

	revoked, err := r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

type unreachableStore struct {
	store.ExpiringStore
}

func (unreachableStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return errors.New("connection refused")
}

func (unreachableStore) Exists(ctx context.Context, key string) (bool, error) {
	return false, errors.New("connection refused")
}

func TestRevocationRegistrySurfacesStoreErrors(t *testing.T) {
	r := guard.NewRevocationRegistry(unreachableStore{}, testLogger())
	ctx := context.Background()

	err := r.Revoke(ctx, "jti-1", time.Minute)
	assert.ErrorIs(t, err, models.ErrStoreUnavailable)

	_, err = r.IsRevoked(ctx, "jti-1")
	assert.ErrorIs(t, err, models.ErrStoreUnavailable)
}

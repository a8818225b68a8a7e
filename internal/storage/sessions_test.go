package storage_test

import (
	"context"
	"testing"
	"time"

	"clubhouse-backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	session, err := s.Sessions.Create(ctx, "user-1", time.Hour)
	require.NoError(t, err)
	assert.Len(t, session.ID, 43)

	found, err := s.Sessions.Lookup(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", found.UserID)

	require.NoError(t, s.Sessions.Destroy(ctx, session.ID))

	_, err = s.Sessions.Lookup(ctx, session.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestExpiredSessionIsRejectedAndPurged(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	expired, err := s.Sessions.Create(ctx, "user-1", -time.Minute)
	require.NoError(t, err)
	_, err = s.Sessions.Create(ctx, "user-1", -time.Minute)
	require.NoError(t, err)
	live, err := s.Sessions.Create(ctx, "user-1", time.Hour)
	require.NoError(t, err)

	_, err = s.Sessions.Lookup(ctx, expired.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// The lookup above already removed one expired row.
	purged, err := s.Sessions.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, err = s.Sessions.Lookup(ctx, live.ID)
	require.NoError(t, err)
}

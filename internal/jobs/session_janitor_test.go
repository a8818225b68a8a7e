package jobs

import (
	"context"
	"testing"
	"time"

	"clubhouse-backend/internal/metrics"
	"clubhouse-backend/internal/storage"
	"clubhouse-backend/internal/testdb"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSessionJanitorRunOnce(t *testing.T) {
	store := storage.New(testdb.Open(t))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.Sessions.Create(ctx, "member-1", -time.Minute)
		require.NoError(t, err)
	}
	live, err := store.Sessions.Create(ctx, "member-1", time.Hour)
	require.NoError(t, err)

	before := testutil.ToFloat64(metrics.SessionsPurged)
	janitor := NewSessionJanitor(store.Sessions, zap.NewNop(), time.Hour)

	assert.Equal(t, int64(3), janitor.RunOnce(ctx))
	assert.Equal(t, before+3, testutil.ToFloat64(metrics.SessionsPurged))

	_, err = store.Sessions.Lookup(ctx, live.ID)
	require.NoError(t, err)
}

func TestSessionJanitorStartStop(t *testing.T) {
	store := storage.New(testdb.Open(t))
	janitor := NewSessionJanitor(store.Sessions, zap.NewNop(), time.Hour)

	done := make(chan struct{})
	go func() {
		janitor.Start(context.Background())
		close(done)
	}()

	janitor.Stop()
	janitor.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("janitor did not stop")
	}
}

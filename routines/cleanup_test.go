package routines

import (
	"context"
	"testing"
	"time"

	"github.com/AsifAhmedTanjid/portfolio_contact_relay/inits"
	"github.com/AsifAhmedTanjid/portfolio_contact_relay/logger"
	"github.com/AsifAhmedTanjid/portfolio_contact_relay/operations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

func TestCleanupRoutineRemovesOnlyExpired(t *testing.T) {
	db, err := inits.DBInit()
	require.NoError(t, err)

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, operations.RecordDelivery(db, "old-1", now.Add(-time.Hour), time.Minute))
	require.NoError(t, operations.RecordDelivery(db, "old-2", now.Add(-2*time.Minute), time.Minute))
	require.NoError(t, operations.RecordDelivery(db, "fresh", now, time.Minute))

	assert.Equal(t, 2, cleanupRoutine(db, now))

	txn := db.Txn(false)
	defer txn.Abort()
	for _, id := range []string{"old-1", "old-2"} {
		obj, err := txn.First(inits.DeliveryTable, "id", id)
		require.NoError(t, err)
		assert.Nil(t, obj, id)
	}
	obj, err := txn.First(inits.DeliveryTable, "id", "fresh")
	require.NoError(t, err)
	assert.NotNil(t, obj)
}

func TestCleanupRoutineEmptyTable(t *testing.T) {
	db, err := inits.DBInit()
	require.NoError(t, err)
	assert.Equal(t, 0, cleanupRoutine(db, time.Now()))
}

func TestStartCleanupRoutineStopsOnCancel(t *testing.T) {
	db, err := inits.DBInit()
	require.NoError(t, err)
	require.NoError(t, operations.RecordDelivery(db, "stale", time.Now().Add(-time.Hour), time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		StartCleanupRoutine(ctx, db, time.Hour)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		txn := db.Txn(false)
		defer txn.Abort()
		obj, _ := txn.First(inits.DeliveryTable, "id", "stale")
		return obj == nil
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup routine did not stop")
	}
}

func TestStartCleanupRoutineNonPositiveInterval(t *testing.T) {
	db, err := inits.DBInit()
	require.NoError(t, err)

	for _, interval := range []time.Duration{0, -time.Second} {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			StartCleanupRoutine(ctx, db, interval)
			close(done)
		}()
		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatalf("cleanup routine with interval %v did not stop", interval)
		}
	}
}

package worker

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ecomworks/orderflow/internal/inventory/store"
	"github.com/stretchr/testify/assert"
)

// mockInventoryStore counts ReleaseExpired calls; the other methods are unused
// by the sweeper.
type mockInventoryStore struct {
	store.InventoryStore
	calls    atomic.Int32
	released int
	error    error
}

func (m *mockInventoryStore) ReleaseExpired(_ context.Context, _ int32) (int, error) {
	m.calls.Add(1)
	if m.error != nil {
		return 0, m.error
	}
	return m.released, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func Test_Sweeper_Run(t *testing.T) {
	mockStore := &mockInventoryStore{released: 2}
	sweeper := NewSweeper(mockStore, testLogger(), 10*time.Millisecond, 50)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := sweeper.Run(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, mockStore.calls.Load(), int32(1), "Sweeper should have swept at least once")
}

// A failing sweep must not stop the loop.
func Test_Sweeper_Run_KeepsGoingOnError(t *testing.T) {
	mockStore := &mockInventoryStore{error: assert.AnError}
	sweeper := NewSweeper(mockStore, testLogger(), 10*time.Millisecond, 50)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := sweeper.Run(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, mockStore.calls.Load(), int32(2), "Sweeper should keep sweeping after an error")
}

func Test_NewSweeper_Defaults(t *testing.T) {
	sweeper := NewSweeper(&mockInventoryStore{}, testLogger(), 0, 0)

	assert.Equal(t, defaultSweepInterval, sweeper.interval)
	assert.Equal(t, int32(defaultSweepBatchSize), sweeper.batchSize)
}

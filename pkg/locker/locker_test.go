package locker_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hirelane/hirelane/pkg/locker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLocker_SerializesSameKey(t *testing.T) {
	t.Parallel()

	l := locker.NewMemoryLocker()
	ctx := context.Background()

	var (
		active  atomic.Int32
		maxSeen atomic.Int32
		wg      sync.WaitGroup
	)

	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			release, err := l.Lock(ctx, "app-1")
			assert.NoError(t, err)

			current := active.Add(1)
			if current > maxSeen.Load() {
				maxSeen.Store(current)
			}

			time.Sleep(2 * time.Millisecond)
			active.Add(-1)

			assert.NoError(t, release(ctx))
		}()
	}

	wg.Wait()

	assert.Equal(t, int32(1), maxSeen.Load())
	assert.Zero(t, l.Held())
}

func TestMemoryLocker_DifferentKeysDoNotBlock(t *testing.T) {
	t.Parallel()

	l := locker.NewMemoryLocker()
	ctx := context.Background()

	releaseA, err := l.Lock(ctx, "app-1")
	require.NoError(t, err)

	done := make(chan struct{})

	go func() {
		releaseB, err := l.Lock(ctx, "app-2")
		assert.NoError(t, err)
		assert.NoError(t, releaseB(ctx))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on another key blocked")
	}

	require.NoError(t, releaseA(ctx))
}

func TestMemoryLocker_ContextCancelWhileWaiting(t *testing.T) {
	t.Parallel()

	l := locker.NewMemoryLocker()

	release, err := l.Lock(context.Background(), "app-1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = l.Lock(ctx, "app-1")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, release(context.Background()))
	assert.Zero(t, l.Held())
}

func TestMemoryLocker_DoubleRelease(t *testing.T) {
	t.Parallel()

	l := locker.NewMemoryLocker()

	release, err := l.Lock(context.Background(), "app-1")
	require.NoError(t, err)

	require.NoError(t, release(context.Background()))
	require.ErrorIs(t, release(context.Background()), locker.ErrNotHeld)
}

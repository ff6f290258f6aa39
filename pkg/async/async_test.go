package async_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/feedbackmail/pkg/async"
)

func TestAsync(t *testing.T) {
	t.Parallel()

	t.Run("returns result", func(t *testing.T) {
		t.Parallel()
		f := async.Async(context.Background(), 21, func(_ context.Context, n int) (int, error) {
			return n * 2, nil
		})
		v, err := f.Await()
		require.NoError(t, err)
		assert.Equal(t, 42, v)
		assert.True(t, f.IsComplete())
	})

	t.Run("cancelled context skips function", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var called atomic.Bool
		f := async.Async(ctx, 1, func(_ context.Context, n int) (int, error) {
			called.Store(true)
			return n, nil
		})
		_, err := f.Await()
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called.Load())
	})

	t.Run("await with timeout", func(t *testing.T) {
		t.Parallel()
		release := make(chan struct{})
		f := async.Async(context.Background(), 0, func(_ context.Context, _ int) (int, error) {
			<-release
			return 1, nil
		})
		_, err := f.AwaitWithTimeout(10 * time.Millisecond)
		assert.ErrorIs(t, err, async.ErrTimeout)
		assert.False(t, f.IsComplete())

		close(release)
		v, err := f.AwaitWithTimeout(time.Second)
		require.NoError(t, err)
		assert.Equal(t, 1, v)
	})
}

func TestWaitAll(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	boom := errors.New("boom")
	double := func(_ context.Context, n int) (int, error) {
		if n < 0 {
			return 0, boom
		}
		return n * 2, nil
	}

	results, err := async.WaitAll(async.Async(ctx, 1, double), async.Async(ctx, 2, double))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4}, results)

	_, err = async.WaitAll(async.Async(ctx, -1, double), async.Async(ctx, 3, double))
	assert.ErrorIs(t, err, boom)
}

func TestSettleAll(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	boom := errors.New("boom")
	futures := []*async.Future[string]{
		async.Async(ctx, "a", func(_ context.Context, s string) (string, error) { return "", boom }),
		async.Async(ctx, "b", func(_ context.Context, s string) (string, error) {
			time.Sleep(5 * time.Millisecond)
			return s, nil
		}),
	}

	results := async.SettleAll(futures...)
	require.Len(t, results, 2)
	assert.False(t, results[0].OK())
	assert.ErrorIs(t, results[0].Err, boom)
	assert.True(t, results[1].OK())
	assert.Equal(t, "b", results[1].Value)

	assert.Empty(t, async.SettleAll[int]())
}

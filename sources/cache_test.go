package sources

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type funcStore func(ctx context.Context, name string) (string, error)

func (f funcStore) Source(ctx context.Context, name string) (string, error) {
	return f(ctx, name)
}

func TestCacheMemoizes(t *testing.T) {
	var calls atomic.Int32
	c := NewCache(funcStore(func(_ context.Context, name string) (string, error) {
		calls.Add(1)
		return "src:" + name, nil
	}))

	for i := 0; i < 3; i++ {
		src, err := c.Source(context.Background(), "drift")
		require.NoError(t, err)
		assert.Equal(t, "src:drift", src)
	}
	assert.Equal(t, int32(1), calls.Load())

	_, err := c.Source(context.Background(), "pulse")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load(), "distinct names fetch separately")
}

func TestCacheDoesNotCacheFailures(t *testing.T) {
	var calls atomic.Int32
	c := NewCache(funcStore(func(_ context.Context, name string) (string, error) {
		if calls.Add(1) == 1 {
			return "", errors.New("transient")
		}
		return "ok", nil
	}))

	_, err := c.Source(context.Background(), "drift")
	require.Error(t, err)

	src, err := c.Source(context.Background(), "drift")
	require.NoError(t, err)
	assert.Equal(t, "ok", src)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCacheSharesInflightFetch(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	c := NewCache(funcStore(func(_ context.Context, name string) (string, error) {
		calls.Add(1)
		<-release
		return "shared", nil
	}))

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = c.Source(context.Background(), "drift")
		}(i)
	}

	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load(), "waiters must share one fetch")
	for _, r := range results {
		assert.Equal(t, "shared", r)
	}
}

func TestCacheWaiterHonoursContext(t *testing.T) {
	started := make(chan struct{})
	block := make(chan struct{})
	defer close(block)
	c := NewCache(funcStore(func(_ context.Context, name string) (string, error) {
		close(started)
		<-block
		return "", nil
	}))

	go c.Source(context.Background(), "drift")
	<-started

	// second caller joins the in-flight fetch, then gives up
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.Source(ctx, "drift")
		done <- err
	}()

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

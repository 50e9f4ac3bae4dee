package enrich

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRunner struct {
	runs  int32
	delay time.Duration
}

func (r *countingRunner) Run(_ context.Context, since time.Time) (*Result, error) {
	atomic.AddInt32(&r.runs, 1)
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	return &Result{Since: since, FetchedAt: time.Now()}, nil
}

func TestCacheServesSnapshotWithinTTL(t *testing.T) {
	runner := &countingRunner{}
	cache := NewCache(runner, time.Minute)
	since := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	first, err := cache.Get(context.Background(), since)
	require.NoError(t, err)
	second, err := cache.Get(context.Background(), since)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&runner.runs))
}

func TestCacheKeysByLowerBoundDate(t *testing.T) {
	runner := &countingRunner{}
	cache := NewCache(runner, time.Minute)

	_, err := cache.Get(context.Background(), time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = cache.Get(context.Background(), time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&runner.runs))
}

func TestCacheRecomputesAfterExpiry(t *testing.T) {
	runner := &countingRunner{}
	cache := NewCache(runner, 10*time.Millisecond)
	since := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	_, err := cache.Get(context.Background(), since)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	_, err = cache.Get(context.Background(), since)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&runner.runs))
}

func TestCacheInvalidateForcesRecompute(t *testing.T) {
	runner := &countingRunner{}
	cache := NewCache(runner, time.Minute)
	since := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	_, err := cache.Get(context.Background(), since)
	require.NoError(t, err)

	cache.Invalidate(since)

	_, err = cache.Get(context.Background(), since)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&runner.runs))
}

func TestCacheCollapsesConcurrentLoads(t *testing.T) {
	runner := &countingRunner{delay: 30 * time.Millisecond}
	cache := NewCache(runner, time.Minute)
	since := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.Get(context.Background(), since)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&runner.runs))
}

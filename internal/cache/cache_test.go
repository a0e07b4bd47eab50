package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 11, 17, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func TestGet_FreshHitSkipsLoader(t *testing.T) {
	clock := newFakeClock()
	var calls atomic.Int32
	c := New(Config{FreshTTL: time.Minute, StaleTTL: 10 * time.Minute},
		func(ctx context.Context, key string) (string, error) {
			calls.Add(1)
			return "payload", nil
		},
		WithClock[string](clock.Now))

	v, err := c.Get(context.Background(), "2025", false)
	require.NoError(t, err)
	assert.Equal(t, "payload", v)

	clock.Advance(30 * time.Second)
	v, err = c.Get(context.Background(), "2025", false)
	require.NoError(t, err)
	assert.Equal(t, "payload", v)
	assert.Equal(t, int32(1), calls.Load(), "fresh hit must not call the loader again")
}

func TestGet_ExpiredEntryRefetches(t *testing.T) {
	clock := newFakeClock()
	var calls atomic.Int32
	c := New(Config{FreshTTL: time.Minute, StaleTTL: 10 * time.Minute},
		func(ctx context.Context, key string) (int, error) {
			return int(calls.Add(1)), nil
		},
		WithClock[int](clock.Now))

	v, err := c.Get(context.Background(), "k", false)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	clock.Advance(time.Minute)
	v, err = c.Get(context.Background(), "k", false)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestGet_CoalescesConcurrentCallers(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	c := New(Config{FreshTTL: time.Minute, StaleTTL: 10 * time.Minute},
		func(ctx context.Context, key string) (string, error) {
			calls.Add(1)
			<-release
			return "shared", nil
		})

	const n = 16
	var wg sync.WaitGroup
	results := make([]string, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.Get(context.Background(), "k", false)
		}(i)
	}

	// Let all goroutines pile onto the flight before it completes.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load(), "concurrent callers must share one fetch")
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "shared", results[i])
	}
}

func TestGet_FlightOutlivesInitiator(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	c := New(Config{FreshTTL: time.Minute, StaleTTL: 10 * time.Minute},
		func(ctx context.Context, key string) (string, error) {
			close(started)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-release:
				return "payload", nil
			}
		})

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := c.Get(ctxA, "k", false)
		errA <- err
	}()
	<-started

	type result struct {
		v   string
		err error
	}
	resB := make(chan result, 1)
	go func() {
		v, err := c.Get(context.Background(), "k", false)
		resB <- result{v, err}
	}()

	// Let B join the flight, then disconnect the caller that started it.
	time.Sleep(50 * time.Millisecond)
	cancelA()
	time.Sleep(50 * time.Millisecond)
	close(release)

	got := <-resB
	require.NoError(t, got.err, "a coalesced waiter must not inherit the initiator's cancellation")
	assert.Equal(t, "payload", got.v)
	require.NoError(t, <-errA)
}

func TestGet_StaleFallbackOnError(t *testing.T) {
	clock := newFakeClock()
	var fail atomic.Bool
	c := New(Config{FreshTTL: time.Minute, StaleTTL: 10 * time.Minute},
		func(ctx context.Context, key string) (string, error) {
			if fail.Load() {
				return "", errors.New("upstream down")
			}
			return "good", nil
		},
		WithClock[string](clock.Now))

	_, err := c.Get(context.Background(), "k", false)
	require.NoError(t, err)

	// Entry is no longer fresh but still within the stale window.
	clock.Advance(5 * time.Minute)
	fail.Store(true)

	v, err := c.Get(context.Background(), "k", false)
	require.NoError(t, err, "stale payload must mask the upstream error")
	assert.Equal(t, "good", v)
}

func TestGet_ErrorWithoutStaleEntry(t *testing.T) {
	clock := newFakeClock()
	upstreamErr := errors.New("upstream down")
	var fail atomic.Bool
	c := New(Config{FreshTTL: time.Minute, StaleTTL: 10 * time.Minute},
		func(ctx context.Context, key string) (string, error) {
			if fail.Load() {
				return "", upstreamErr
			}
			return "good", nil
		},
		WithClock[string](clock.Now))

	fail.Store(true)
	_, err := c.Get(context.Background(), "k", false)
	assert.ErrorIs(t, err, upstreamErr, "no cached entry at all: error surfaces")

	fail.Store(false)
	_, err = c.Get(context.Background(), "k", false)
	require.NoError(t, err)

	// Past the stale window the entry no longer qualifies as a fallback.
	clock.Advance(11 * time.Minute)
	fail.Store(true)
	_, err = c.Get(context.Background(), "k", false)
	assert.ErrorIs(t, err, upstreamErr)
}

func TestGet_ForceBypassesFreshEntry(t *testing.T) {
	clock := newFakeClock()
	var calls atomic.Int32
	c := New(Config{FreshTTL: time.Minute, StaleTTL: 10 * time.Minute},
		func(ctx context.Context, key string) (int, error) {
			return int(calls.Add(1)), nil
		},
		WithClock[int](clock.Now))

	_, err := c.Get(context.Background(), "k", false)
	require.NoError(t, err)

	v, err := c.Get(context.Background(), "k", true)
	require.NoError(t, err)
	assert.Equal(t, 2, v, "force must refetch despite the fresh entry")
}

func TestGet_KeysAreIndependent(t *testing.T) {
	var calls atomic.Int32
	c := New(Config{FreshTTL: time.Minute, StaleTTL: 10 * time.Minute},
		func(ctx context.Context, key string) (string, error) {
			calls.Add(1)
			return key, nil
		})

	a, err := c.Get(context.Background(), "2024", false)
	require.NoError(t, err)
	b, err := c.Get(context.Background(), "2025", false)
	require.NoError(t, err)

	assert.Equal(t, "2024", a)
	assert.Equal(t, "2025", b)
	assert.Equal(t, int32(2), calls.Load())
}

func TestPeek(t *testing.T) {
	clock := newFakeClock()
	c := New(Config{FreshTTL: time.Minute, StaleTTL: 10 * time.Minute},
		func(ctx context.Context, key string) (string, error) { return "v", nil },
		WithClock[string](clock.Now))

	_, ok := c.Peek("k")
	assert.False(t, ok)

	_, err := c.Get(context.Background(), "k", false)
	require.NoError(t, err)

	// Peek ignores age entirely.
	clock.Advance(24 * time.Hour)
	v, ok := c.Peek("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

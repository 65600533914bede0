package presence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
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

func ids(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestMemoryStore_HeartbeatThenActive(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)}
	store := NewMemoryStore(30 * time.Second).WithClock(clock.Now)

	list, err := store.Heartbeat(ctx, Entry{ID: "a", Name: "Alice", Role: "USER"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(list))

	clock.Advance(10 * time.Second)
	list, err = store.Heartbeat(ctx, Entry{ID: "b", Name: "Bob", Role: "ADMIN"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(list))

	active, err := store.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(active))
}

func TestMemoryStore_ExpiresAfterTimeout(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)}
	store := NewMemoryStore(30 * time.Second).WithClock(clock.Now)

	_, err := store.Heartbeat(ctx, Entry{ID: "a", Name: "Alice"})
	require.NoError(t, err)

	clock.Advance(30 * time.Second)
	active, _ := store.Active(ctx)
	assert.Len(t, active, 1, "exactly at the timeout the entry is still listed")

	clock.Advance(time.Millisecond)
	active, _ = store.Active(ctx)
	assert.Empty(t, active)

	_, err = store.Heartbeat(ctx, Entry{ID: "b", Name: "Bob"})
	require.NoError(t, err)
	require.NoError(t, store.Prune(ctx))
	active, _ = store.Active(ctx)
	assert.Equal(t, []string{"b"}, ids(active))
}

func TestMemoryStore_HeartbeatRefreshes(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)}
	store := NewMemoryStore(0).WithClock(clock.Now)

	_, _ = store.Heartbeat(ctx, Entry{ID: "a", Name: "Alice"})
	clock.Advance(25 * time.Second)
	_, _ = store.Heartbeat(ctx, Entry{ID: "a", Name: "Alice v2"})
	clock.Advance(25 * time.Second)

	active, err := store.Active(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Alice v2", active[0].Name)
}

func TestMemoryStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = store.Heartbeat(ctx, Entry{ID: string(rune('a' + i%26)), Name: "x"})
			_, _ = store.Active(ctx)
		}(i)
	}
	wg.Wait()

	active, err := store.Active(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 26)
}

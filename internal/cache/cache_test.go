package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *InMemoryStore, *clockwork.FakeClock) {
	t.Helper()
	fakeClock := clockwork.NewFakeClock()
	store := NewInMemoryStore(fakeClock)
	return New(store, fakeClock, DefaultTTL), store, fakeClock
}

func TestCache_SetGetRoundTrip(t *testing.T) {
	c, _, _ := newTestCache(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		value any
	}{
		{"string", "hello"},
		{"number", 42.5},
		{"bool", true},
		{"array", []any{"a", 1.0, false}},
		{"object", map[string]any{"lat": 37.422, "lng": -122.084}},
		{"null", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.Set(ctx, tt.name, tt.value, time.Minute)

			var got any
			require.Equal(t, Hit, c.Get(ctx, tt.name, &got))
			assert.Equal(t, tt.value, got)
		})
	}
}

func TestCache_ExpiryMakesEntryAbsent(t *testing.T) {
	c, store, fakeClock := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "geo", map[string]any{"lat": 1.0}, 5*time.Minute)

	var got map[string]any
	require.Equal(t, Hit, c.Get(ctx, "geo", &got))

	fakeClock.Advance(5*time.Minute + time.Second)
	assert.Equal(t, Miss, c.Get(ctx, "geo", &got))

	// Expired entry is proactively evicted from the store.
	_, err := store.Get(ctx, keyPrefix+"geo")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCache_ExpiryBoundary(t *testing.T) {
	c, _, fakeClock := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "k", "v", time.Minute)

	var got string
	fakeClock.Advance(time.Minute - time.Nanosecond)
	require.Equal(t, Hit, c.Get(ctx, "k", &got))

	fakeClock.Advance(time.Nanosecond)
	assert.Equal(t, Miss, c.Get(ctx, "k", &got))
}

func TestCache_DefaultTTLWhenOmitted(t *testing.T) {
	c, _, fakeClock := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "k", "v", 0)

	var got string
	fakeClock.Advance(DefaultTTL - time.Second)
	require.Equal(t, Hit, c.Get(ctx, "k", &got))

	fakeClock.Advance(2 * time.Second)
	assert.Equal(t, Miss, c.Get(ctx, "k", &got))
}

func TestCache_CrossKeyIsolation(t *testing.T) {
	c, _, fakeClock := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "a", "short-lived", time.Minute)
	c.Set(ctx, "b", "long-lived", time.Hour)
	for i := 0; i < 20; i++ {
		c.Set(ctx, "filler", i, time.Second)
	}

	fakeClock.Advance(2 * time.Minute)

	var got string
	assert.Equal(t, Miss, c.Get(ctx, "a", &got))
	require.Equal(t, Hit, c.Get(ctx, "b", &got))
	assert.Equal(t, "long-lived", got)
}

func TestCache_LastWriterWins(t *testing.T) {
	c, _, _ := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "k", "old", time.Hour)
	c.Set(ctx, "k", "new", time.Hour)

	var got string
	require.Equal(t, Hit, c.Get(ctx, "k", &got))
	assert.Equal(t, "new", got)
}

func TestCache_MissOnUnknownKey(t *testing.T) {
	c, _, _ := newTestCache(t)

	var got string
	assert.Equal(t, Miss, c.Get(context.Background(), "never-set", &got))
}

// failingStore simulates a transiently unavailable backing store.
type failingStore struct{}

var errStoreDown = errors.New("connection refused")

func (failingStore) Get(context.Context, string) ([]byte, error) { return nil, errStoreDown }
func (failingStore) Set(context.Context, string, []byte, time.Duration) error {
	return errStoreDown
}
func (failingStore) Del(context.Context, string) error { return errStoreDown }

func TestCache_StoreUnavailable(t *testing.T) {
	c := New(failingStore{}, clockwork.NewFakeClock(), DefaultTTL)
	ctx := context.Background()

	// Set degrades to a no-op, Get reports Unavailable; neither panics
	// or propagates the store failure.
	c.Set(ctx, "k", "v", time.Minute)

	var got string
	assert.Equal(t, Unavailable, c.Get(ctx, "k", &got))
}

func TestCache_UndecodableEntryEvicted(t *testing.T) {
	fakeClock := clockwork.NewFakeClock()
	store := NewInMemoryStore(fakeClock)
	c := New(store, fakeClock, DefaultTTL)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, keyPrefix+"junk", []byte("not json"), 0))

	var got string
	assert.Equal(t, Miss, c.Get(ctx, "junk", &got))

	_, err := store.Get(ctx, keyPrefix+"junk")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "hit", Hit.String())
	assert.Equal(t, "miss", Miss.String())
	assert.Equal(t, "unavailable", Unavailable.String())
}

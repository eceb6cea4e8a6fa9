package cart

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, time.Hour)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	var c Cart
	c.AddItem(cola)
	c.AddItem(cola)
	c.AddItem(chips)

	require.NoError(t, store.Save(ctx, "sess-1", c))

	loaded, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, c, loaded)
	assert.InDelta(t, 5.0, loaded.Total(), 1e-9)
}

func TestRedisStoreMissingKeyIsEmptyCart(t *testing.T) {
	store := newRedisStore(t)

	loaded, err := store.Get(context.Background(), "no-such-session")
	require.NoError(t, err)
	assert.True(t, loaded.Empty())
}

func TestRedisStoreClear(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	var c Cart
	c.AddItem(cola)
	require.NoError(t, store.Save(ctx, "sess-1", c))
	require.NoError(t, store.Clear(ctx, "sess-1"))

	loaded, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, loaded.Empty())

	// Clearing an absent cart is a no-op.
	require.NoError(t, store.Clear(ctx, "sess-1"))
}

func TestStoresAreIsolatedPerSession(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var a Cart
	a.AddItem(cola)
	require.NoError(t, store.Save(ctx, "sess-a", a))

	b, err := store.Get(ctx, "sess-b")
	require.NoError(t, err)
	assert.True(t, b.Empty())
}

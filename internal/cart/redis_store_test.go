package cart

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"clinic-web/internal/domain"
	"clinic-web/internal/observability"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, 0), mr
}

func TestRedisStore_GetEmpty(t *testing.T) {
	store, _ := newTestStore(t)

	cart, err := store.Get(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Equal(t, "unknown", cart.ID)
	assert.NotNil(t, cart.Items)
	assert.True(t, cart.IsEmpty())
}

func TestRedisStore_AddKeepsOrderAndMergesQuantity(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "c1", domain.CartItem{ProductID: "b", Name: "Folic acid", Price: 8, Quantity: 1}))
	require.NoError(t, store.Add(ctx, "c1", domain.CartItem{ProductID: "a", Name: "Heat pack", Price: 12.5, Quantity: 2}))
	require.NoError(t, store.Add(ctx, "c1", domain.CartItem{ProductID: "b", Name: "Folic acid", Price: 8, Quantity: 2}))

	cart, err := store.Get(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, "b", cart.Items[0].ProductID)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, "a", cart.Items[1].ProductID)
	assert.InDelta(t, 49.0, cart.Total(), 0.001)

	assert.Equal(t, DefaultTTL, mr.TTL("cart:c1"))
}

func TestRedisStore_AddDefaultsQuantity(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "c1", domain.CartItem{ProductID: "a", Price: 1}))
	cart, err := store.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, cart.Count())
}

func TestRedisStore_SetQuantity(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Add(ctx, "c1", domain.CartItem{ProductID: "a", Price: 5, Quantity: 1}))

	require.NoError(t, store.SetQuantity(ctx, "c1", "a", 4))
	cart, _ := store.Get(ctx, "c1")
	assert.Equal(t, 4, cart.Count())

	require.NoError(t, store.SetQuantity(ctx, "c1", "missing", 3))
	cart, _ = store.Get(ctx, "c1")
	assert.Len(t, cart.Items, 1)

	require.NoError(t, store.SetQuantity(ctx, "c1", "a", 0))
	cart, _ = store.Get(ctx, "c1")
	assert.True(t, cart.IsEmpty())
}

func TestRedisStore_QuantityIsCapped(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "c1", domain.CartItem{ProductID: "a", Price: 2, Quantity: math.MaxInt}))
	require.NoError(t, store.Add(ctx, "c1", domain.CartItem{ProductID: "a", Price: 2, Quantity: 2}))

	cart, err := store.Get(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, MaxQuantity, cart.Items[0].Quantity)
	assert.Equal(t, MaxQuantity, cart.Count())
	assert.InDelta(t, 2.0*MaxQuantity, cart.Total(), 0.001)

	require.NoError(t, store.SetQuantity(ctx, "c1", "a", 5000))
	cart, _ = store.Get(ctx, "c1")
	assert.Equal(t, MaxQuantity, cart.Items[0].Quantity)

	require.NoError(t, store.SetQuantity(ctx, "c1", "a", 98))
	require.NoError(t, store.Add(ctx, "c1", domain.CartItem{ProductID: "a", Price: 2, Quantity: 3}))
	cart, _ = store.Get(ctx, "c1")
	assert.Equal(t, MaxQuantity, cart.Items[0].Quantity)
}

func TestClampQuantity(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{math.MinInt, 1},
		{-3, 1},
		{0, 1},
		{1, 1},
		{42, 42},
		{MaxQuantity, MaxQuantity},
		{MaxQuantity + 1, MaxQuantity},
		{math.MaxInt, MaxQuantity},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampQuantity(tt.in), "ClampQuantity(%d)", tt.in)
	}
}

func TestRedisStore_RemoveAndClear(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Add(ctx, "c1", domain.CartItem{ProductID: "a", Price: 5}))
	require.NoError(t, store.Add(ctx, "c1", domain.CartItem{ProductID: "b", Price: 5}))

	require.NoError(t, store.Remove(ctx, "c1", "a"))
	cart, _ := store.Get(ctx, "c1")
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "b", cart.Items[0].ProductID)

	require.NoError(t, store.Clear(ctx, "c1"))
	assert.False(t, mr.Exists("cart:c1"))
}

func TestRedisStore_Expires(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Add(ctx, "c1", domain.CartItem{ProductID: "a", Price: 5}))

	mr.FastForward(DefaultTTL + time.Second)

	cart, err := store.Get(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestRedisStore_SkipsCorruptLines(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Add(ctx, "c1", domain.CartItem{ProductID: "a", Price: 5}))
	mr.HSet("cart:c1", "bad", "{not json")

	cart, err := store.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestRedisStore_ConcurrentAdds(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- store.Add(ctx, "c1", domain.CartItem{ProductID: "a", Price: 1, Quantity: 1})
		}()
	}
	wg.Wait()
	close(errs)

	// Lost WATCH races surface as errors rather than silently dropped units.
	failed := 0
	for err := range errs {
		if err != nil {
			failed++
		}
	}
	cart, err := store.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 5-failed, cart.Count())
}

func TestRedisStore_ErrorsWhenRedisDown(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	before := testutil.ToFloat64(observability.CartOperations.WithLabelValues("get", "error"))
	_, err := store.Get(context.Background(), "c1")
	assert.Error(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(observability.CartOperations.WithLabelValues("get", "error")))

	assert.Error(t, store.Add(context.Background(), "c1", domain.CartItem{ProductID: "a"}))
}

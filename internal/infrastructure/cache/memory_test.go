package cache

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/pricelens/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetAndGet(t *testing.T) {
	cache := NewMemoryCache()
	defer cache.Close()
	ctx := context.Background()

	tests := []struct {
		name  string
		key   string
		value interface{}
		want  string
	}{
		{
			name:  "store and retrieve string",
			key:   "test-key-1",
			value: "test-value",
			want:  `"test-value"`,
		},
		{
			name:  "store and retrieve cards",
			key:   "storefront:https://loja.example:arroz",
			value: []domain.ProductCard{{Name: "Arroz Tio Joao 5kg", Price: 27.9}},
			want:  `[{"name":"Arroz Tio Joao 5kg","price":27.9}]`,
		},
		{
			name:  "store number",
			key:   "test-key-3",
			value: 42,
			want:  `42`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, cache.Set(ctx, tt.key, tt.value, time.Minute))

			got, err := cache.Get(ctx, tt.key)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestMemoryCache_RoundTripCards(t *testing.T) {
	cache := NewMemoryCache()
	defer cache.Close()
	ctx := context.Background()

	cards := []domain.ProductCard{
		{Name: "Leite Integral Italac 1L", Price: 5.49},
		{Name: "Leite Integral Piracanjuba 1L", Price: 5.99},
	}
	require.NoError(t, cache.Set(ctx, "cards", cards, time.Minute))

	data, err := cache.Get(ctx, "cards")
	require.NoError(t, err)

	var decoded []domain.ProductCard
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, cards, decoded)
}

func TestMemoryCache_Miss(t *testing.T) {
	cache := NewMemoryCache()
	defer cache.Close()

	_, err := cache.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestMemoryCache_Expiration(t *testing.T) {
	cache := NewMemoryCache()
	defer cache.Close()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "short", "expires-soon", time.Millisecond))
	time.Sleep(10 * time.Millisecond)

	_, err := cache.Get(ctx, "short")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	exists, err := cache.Exists(ctx, "short")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryCache_SetUnencodable(t *testing.T) {
	cache := NewMemoryCache()
	defer cache.Close()

	err := cache.Set(context.Background(), "bad", make(chan int), time.Minute)
	assert.Error(t, err)
	assert.Equal(t, 0, cache.Size())
}

func TestMemoryCache_DeleteAndExists(t *testing.T) {
	cache := NewMemoryCache()
	defer cache.Close()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "key", "value", time.Minute))

	exists, err := cache.Exists(ctx, "key")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, cache.Delete(ctx, "key"))

	exists, err = cache.Exists(ctx, "key")
	require.NoError(t, err)
	assert.False(t, exists)

	// deleting a missing key is not an error
	assert.NoError(t, cache.Delete(ctx, "key"))
}

func TestMemoryCache_RemoveExpired(t *testing.T) {
	cache := NewMemoryCache()
	defer cache.Close()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "old", "a", time.Millisecond))
	require.NoError(t, cache.Set(ctx, "fresh", "b", time.Hour))

	cache.removeExpired(time.Now().Add(time.Minute))

	assert.Equal(t, 1, cache.Size())
	_, err := cache.Get(ctx, "fresh")
	assert.NoError(t, err)
}

func TestMemoryCache_CleanupGoroutine(t *testing.T) {
	cache := newMemoryCache(5 * time.Millisecond)
	defer cache.Close()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "old", "a", time.Millisecond))

	assert.Eventually(t, func() bool { return cache.Size() == 0 }, time.Second, 5*time.Millisecond)
}

func TestMemoryCache_Clear(t *testing.T) {
	cache := NewMemoryCache()
	defer cache.Close()
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, cache.Set(ctx, k, k, time.Minute))
	}
	assert.Equal(t, 3, cache.Size())

	cache.Clear()
	assert.Equal(t, 0, cache.Size())
}

func TestMemoryCache_CloseTwice(t *testing.T) {
	cache := NewMemoryCache()
	assert.NoError(t, cache.Close())
	assert.NoError(t, cache.Close())
}

func TestMemoryCache_Concurrent(t *testing.T) {
	cache := NewMemoryCache()
	defer cache.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := "k"
			if i%2 == 0 {
				_ = cache.Set(ctx, key, i, time.Minute)
				return
			}
			_, _ = cache.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	exists, err := cache.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, exists)
}

package csrf

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewNonceCache(t *testing.T) {
	t.Parallel()

	t.Run("ValidSize", func(t *testing.T) {
		t.Parallel()

		cache, err := NewNonceCache(3)
		require.NoError(t, err)
		require.NotNil(t, cache)
		require.Equal(t, 0, cache.Len())
	})

	t.Run("InvalidSize", func(t *testing.T) {
		t.Parallel()

		cache, err := NewNonceCache(0)
		require.ErrorIs(t, err, ErrInvalidCacheSize)
		require.Nil(t, cache)
	})
}

// Over capacity, the cache keeps exactly the N most recently inserted
// nonces and evicts oldest first.
func TestNonceCacheEvictionOrder(t *testing.T) {
	t.Parallel()

	cache, err := NewNonceCache(3)
	require.NoError(t, err)

	for _, n := range []string{"A", "B", "C", "D", "E"} {
		cache.Add(n)
	}

	require.Equal(t, 3, cache.Len())
	require.Equal(t, []string{"C", "D", "E"}, cache.Nonces())
	require.False(t, cache.Contains("A"))
	require.False(t, cache.Contains("B"))
	require.True(t, cache.Contains("C"))
	require.True(t, cache.Contains("E"))
}

// Re-adding a present nonce refreshes its recency instead of duplicating it.
func TestNonceCacheDuplicateRefreshesRecency(t *testing.T) {
	t.Parallel()

	cache, err := NewNonceCache(3)
	require.NoError(t, err)

	cache.Add("A")
	cache.Add("B")
	cache.Add("C")
	cache.Add("A") // A is newest again
	cache.Add("D") // evicts B, not A

	require.Equal(t, 3, cache.Len())
	require.Equal(t, []string{"C", "A", "D"}, cache.Nonces())
	require.False(t, cache.Contains("B"))
}

// The empty string is never contained, regardless of cache state.
func TestNonceCacheEmptyNeverContained(t *testing.T) {
	t.Parallel()

	cache, err := NewNonceCache(2)
	require.NoError(t, err)

	require.False(t, cache.Contains(""))

	cache.Add("A")
	require.False(t, cache.Contains(""))

	cache.Add("")
	// even an explicitly added empty string tests as not-contained
	require.False(t, cache.Contains(""))
}

// Concurrent adds from many goroutines never break the size invariant.
func TestNonceCacheConcurrentAdds(t *testing.T) {
	t.Parallel()

	const capacity = 5
	const adds = 64

	cache, err := NewNonceCache(capacity)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < adds; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cache.Add(fmt.Sprintf("nonce-%03d", i))
		}(i)
	}
	wg.Wait()

	require.Equal(t, capacity, cache.Len())
	require.Len(t, cache.Nonces(), capacity)
}

func TestGenerateNonce(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		nonce, err := generateNonce()
		require.NoError(t, err)
		require.Regexp(t, "^[0-9A-F]{32}$", nonce)

		_, dup := seen[nonce]
		require.False(t, dup, "nonce repeated: %s", nonce)
		seen[nonce] = struct{}{}
	}
}

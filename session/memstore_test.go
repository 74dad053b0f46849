package session

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T, s *MemStore) (Session, *http.Cookie) {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	sess, err := s.Session(rec, req, true)
	require.NoError(t, err)
	require.NotNil(t, sess)

	res := rec.Result()
	defer res.Body.Close()
	cookies := res.Cookies()
	require.Len(t, cookies, 1)
	return sess, cookies[0]
}

func TestMemStoreCreateAndReuse(t *testing.T) {
	t.Parallel()

	s := NewMemStore()
	sess, cookie := newSession(t, s)

	require.Equal(t, DefaultCookieName, cookie.Name)
	require.Equal(t, sess.ID(), cookie.Value)
	require.True(t, cookie.HttpOnly)

	// same cookie resolves to the same session
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	again, err := s.Session(httptest.NewRecorder(), req, false)
	require.NoError(t, err)
	require.Same(t, sess, again)
}

func TestMemStoreAbsentWithoutCreate(t *testing.T) {
	t.Parallel()

	s := NewMemStore()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := s.Session(httptest.NewRecorder(), req, false)
	require.NoError(t, err)
	require.Nil(t, sess)

	// unknown cookie value behaves the same as no cookie
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "stale"})
	sess2, err := s.Session(httptest.NewRecorder(), req2, false)
	require.NoError(t, err)
	require.Nil(t, sess2)
}

func TestSessionAttributes(t *testing.T) {
	t.Parallel()

	s := NewMemStore()
	sess, _ := newSession(t, s)

	_, ok := sess.Get("k")
	require.False(t, ok)

	sess.Set("k", 42)
	v, ok := sess.Get("k")
	require.True(t, ok)
	require.Equal(t, 42, v)

	sess.Delete("k")
	_, ok = sess.Get("k")
	require.False(t, ok)
}

// GetOrSet stores exactly once even when many goroutines race on an absent
// attribute: everyone sees the same value.
func TestSessionGetOrSetOnce(t *testing.T) {
	t.Parallel()

	s := NewMemStore()
	sess, _ := newSession(t, s)

	var mu sync.Mutex
	created := 0
	results := make([]any, 16)

	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = sess.GetOrSet("cache", func() any {
				mu.Lock()
				created++
				mu.Unlock()
				return new(int)
			})
		}(i)
	}
	wg.Wait()

	require.Equal(t, 1, created)
	for _, v := range results {
		require.Same(t, results[0], v)
	}
}

func TestMemStoreSweep(t *testing.T) {
	t.Parallel()

	s := NewMemStore(WithIdleTTL(10 * time.Millisecond))
	_, cookie := newSession(t, s)
	require.Equal(t, 1, s.Len())

	time.Sleep(20 * time.Millisecond)
	s.Sweep()
	require.Equal(t, 0, s.Len())

	// the stale cookie no longer resolves
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	sess, err := s.Session(httptest.NewRecorder(), req, false)
	require.NoError(t, err)
	require.Nil(t, sess)
}

func TestSessionIDsAreUnique(t *testing.T) {
	t.Parallel()

	s := NewMemStore()
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		sess, _ := newSession(t, s)
		_, dup := seen[sess.ID()]
		require.False(t, dup)
		seen[sess.ID()] = struct{}{}
	}
}

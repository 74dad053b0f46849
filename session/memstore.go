package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultCookieName identifies the session cookie.
	DefaultCookieName = "SESSIONID"

	// DefaultIdleTTL is how long a session survives without being touched.
	DefaultIdleTTL = 30 * time.Minute

	defaultSweepEvery = 2 * time.Minute
)

// MemStore keeps sessions in process memory, expiring them after an idle
// TTL. Good for single-instance servers and tests; state does not survive a
// restart.
type MemStore struct {
	mu      sync.Mutex
	entries map[string]*storeEntry

	cookieName string
	idleTTL    time.Duration
	sweepEvery time.Duration
	secure     bool
}

type storeEntry struct {
	sess     *memSession
	lastSeen time.Time
}

type MemStoreOption func(*MemStore)

func WithCookieName(name string) MemStoreOption {
	return func(s *MemStore) { s.cookieName = name }
}

func WithIdleTTL(d time.Duration) MemStoreOption {
	return func(s *MemStore) { s.idleTTL = d }
}

func WithSweepEvery(d time.Duration) MemStoreOption {
	return func(s *MemStore) { s.sweepEvery = d }
}

// WithSecureCookie marks the session cookie Secure (production behind HTTPS).
func WithSecureCookie(secure bool) MemStoreOption {
	return func(s *MemStore) { s.secure = secure }
}

func NewMemStore(opts ...MemStoreOption) *MemStore {
	s := &MemStore{
		entries:    make(map[string]*storeEntry),
		cookieName: DefaultCookieName,
		idleTTL:    DefaultIdleTTL,
		sweepEvery: defaultSweepEvery,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Session implements Store.
func (s *MemStore) Session(w http.ResponseWriter, r *http.Request, create bool) (Session, error) {
	now := time.Now()

	if c, err := r.Cookie(s.cookieName); err == nil && c.Value != "" {
		s.mu.Lock()
		if ent, ok := s.entries[c.Value]; ok {
			ent.lastSeen = now
			s.mu.Unlock()
			return ent.sess, nil
		}
		s.mu.Unlock()
	}

	if !create {
		return nil, nil
	}

	id, err := newSessionID()
	if err != nil {
		return nil, err
	}

	sess := &memSession{id: id, attrs: make(map[string]any)}

	s.mu.Lock()
	s.entries[id] = &storeEntry{sess: sess, lastSeen: now}
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.secure,
	})

	return sess, nil
}

// Len returns the number of live sessions.
func (s *MemStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep drops sessions idle for longer than the TTL.
func (s *MemStore) Sweep() {
	cutoff := time.Now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, ent := range s.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(s.entries, id)
			removed++
		}
	}
	if removed > 0 {
		log.Debug().Int("count", removed).Msg("session: swept expired sessions")
	}
}

// StartJanitor starts a goroutine sweeping expired sessions periodically.
// Stop it by cancelling the context.
func (s *MemStore) StartJanitor(ctx context.Context) {
	if s.sweepEvery <= 0 {
		return
	}

	t := time.NewTicker(s.sweepEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Sweep()
			}
		}
	}()
}

// Gera o ID da sessão: 24 bytes aleatórios, base64 url-safe sem padding.
func newSessionID() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

type memSession struct {
	id    string
	mu    sync.RWMutex
	attrs map[string]any
}

func (s *memSession) ID() string { return s.id }

func (s *memSession) Get(name string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.attrs[name]
	return v, ok
}

func (s *memSession) Set(name string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs[name] = value
}

func (s *memSession) GetOrSet(name string, fresh func() any) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.attrs[name]; ok {
		return v
	}
	v := fresh()
	s.attrs[name] = v
	return v
}

func (s *memSession) Delete(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attrs, name)
}

package csrf

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/JeanGrijp/go-csrf-nonce/session"
	"github.com/JeanGrijp/go-csrf-nonce/stats"
)

// Protect wraps the given next http.Handler and enforces nonce-based CSRF
// protection.
//
// Behavior:
//   - Entry points (GET requests whose path is configured in EntryPoints):
//     skip nonce validation entirely.
//   - Every other request must carry a nonce (query or form parameter) that
//     is still in the session's NonceCache; otherwise the request is
//     rejected with 403 and next is never called.
//   - A session whose cache does not exist yet (its very first request)
//     is accepted: it cannot possibly carry a previously issued nonce.
//   - On accept or bypass: a fresh nonce is generated, added to the cache,
//     and bound to the request context so downstream handlers can rewrite
//     the URLs they emit (see EncoderFromContext). Redirect Location
//     headers are rewritten automatically.
//
// A validated nonce is deliberately not removed from the cache. Any of the
// last CacheSize nonces stays valid until evicted, which tolerates multiple
// tabs and concurrent requests at the cost of a bounded replay window.
//
// Params:
// - next: downstream handler to be executed after the nonce check passes.
//
// Returns:
// - An http.Handler that performs the nonce logic before delegating to next.
func (p *Protector) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cfg := p.cfg

		skipNonceCheck := r.Method == http.MethodGet && p.isEntryPoint(r.URL.Path)

		sess, err := cfg.Store.Session(w, r, true)
		if err != nil {
			log.Error().Err(err).Msg("csrf: session lookup failed")
			http.Error(w, "session unavailable", http.StatusInternalServerError)
			return
		}

		cache := cacheFromSession(sess, cfg.SessionAttribute)

		if !skipNonceCheck {
			previousNonce := extractPreviousNonce(r, cfg.ParamName)

			if cache != nil && !cache.Contains(previousNonce) {
				p.record(r, sess, false, false)
				log.Warn().
					Str("session", sess.ID()).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Msg("csrf: request rejected, nonce missing or expired")
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
		}

		if cache == nil {
			cache = getOrCreateCache(sess, cfg.SessionAttribute, cfg.CacheSize)
		}

		newNonce, err := generateNonce()
		if err != nil {
			log.Error().Err(err).Msg("csrf: nonce generation failed")
			http.Error(w, "nonce generation failed", http.StatusInternalServerError)
			return
		}
		cache.Add(newNonce)

		p.record(r, sess, true, skipNonceCheck)

		enc := &nonceEncoder{param: cfg.ParamName, nonce: newNonce}
		r = r.WithContext(contextWithEncoder(r.Context(), enc))
		next.ServeHTTP(&responseWriter{ResponseWriter: w, enc: enc}, r)
	})
}

func (p *Protector) isEntryPoint(path string) bool {
	_, ok := p.entryPoints[path]
	return ok
}

// cacheFromSession reads the session's NonceCache without creating one.
// A nil session attribute (or one of an unexpected type) reads as absent.
func cacheFromSession(sess session.Session, attr string) *NonceCache {
	v, ok := sess.Get(attr)
	if !ok {
		return nil
	}
	cache, _ := v.(*NonceCache)
	return cache
}

// getOrCreateCache attaches a fresh NonceCache to the session, exactly once:
// when two first requests of the same session race here, both end up with
// the same instance.
func getOrCreateCache(sess session.Session, attr string, size int) *NonceCache {
	v := sess.GetOrSet(attr, func() any {
		// size was validated by New
		cache, _ := NewNonceCache(size)
		return cache
	})
	return v.(*NonceCache)
}

func (p *Protector) record(r *http.Request, sess session.Session, allowed, entryPoint bool) {
	if p.cfg.Stats == nil {
		return
	}
	// best-effort: a stats failure never affects the decision
	_ = p.cfg.Stats.Record(r.Context(), stats.Event{
		SessionID:  sess.ID(),
		Allowed:    allowed,
		EntryPoint: entryPoint,
		Method:     r.Method,
		Path:       r.URL.Path,
		At:         time.Now(),
	})
}

// EncoderFromContext returns the URL encoder bound to the nonce issued for
// the current request, if the request went through Protect.
//
// Params:
// - ctx: context potentially containing an encoder set by the middleware.
//
// Returns:
// - encoder and a boolean indicating whether one was found.
func EncoderFromContext(ctx context.Context) (URLEncoder, bool) {
	enc, ok := encoderFromContext(ctx)
	if !ok {
		return nil, false
	}
	return enc, true
}

// NonceFromContext returns the raw nonce issued for the current request.
// Useful for templates that build URLs by hand instead of going through
// the encoder.
//
// Returns:
// - nonce (string) and a boolean indicating presence.
func NonceFromContext(ctx context.Context) (string, bool) {
	enc, ok := encoderFromContext(ctx)
	if !ok {
		return "", false
	}
	return enc.nonce, true
}

// Package csrf provides nonce-based CSRF protection for Go net/http servers
// using the synchronizer-token pattern with a bounded per-session replay
// window.
//
// How it works
//   - Every request that passes validation gets a fresh random nonce. The
//     nonce is added to a small fixed-size cache stored on the session and
//     bound to the request context.
//   - Downstream handlers rewrite every URL they emit through the encoder
//     (EncoderFromContext), so the client's next request carries the nonce
//     back as a query parameter. Redirect Location headers are rewritten
//     automatically.
//   - Incoming requests must present a nonce that is still in the session's
//     cache; otherwise they are rejected with 403. Configured entry points
//     (GET only) bypass the check so clients can navigate back into the
//     application from outside.
//   - The first request of a session has nothing to validate against and is
//     accepted as-is.
//
// A validated nonce stays in the cache until capacity evicts it. Any of the
// last CacheSize nonces (default 5) is therefore accepted, not just the
// newest one. This is a deliberate trade-off: strict single-use breaks
// multi-tab browsing, while the bounded window only ever shrinks as new
// nonces are issued.
//
// # Configuration
//
// All behavior is driven by Config. Key fields include:
//   - EntryPoints (comma-separated list of GET paths exempt from validation)
//   - CacheSize (default: 5)
//   - ParamName (default: "CSRF_NONCE")
//   - SessionAttribute (default: "csrf_nonce_cache")
//   - Store (session store; defaults to an in-memory store)
//   - Stats (optional decision recorder)
//
// Config can also be loaded from a YAML file via LoadConfig.
//
// Typical usage
//
//	p := csrf.New(csrf.Config{EntryPoints: "/, /index.html"})
//	// Protect an http.Handler (router, mux, etc.)
//	protected := p.Protect(appMux)
//	http.ListenAndServe(":8080", protected)
//
// In handlers, rewrite outgoing URLs so they carry the nonce:
//
//	if enc, ok := csrf.EncoderFromContext(r.Context()); ok {
//	    fmt.Fprintf(w, `<a href=%q>edit</a>`, enc.EncodeURL("/edit"))
//	}
//
// The filter assumes that all URLs returned to the client go through the
// encoder (or through http.Redirect, whose Location header is rewritten by
// the response decorator).
package csrf

// Package session defines the session-store capability the csrf middleware
// depends on, plus an in-memory implementation suitable for single-process
// servers. Sessions are keyed by an opaque identifier carried in a cookie
// and hold named attributes.
package session

import "net/http"

// Session holds the server-side state bound to one client.
type Session interface {
	// ID returns the opaque session identifier.
	ID() string

	// Get retrieves the attribute stored under name.
	Get(name string) (any, bool)

	// Set creates or replaces the attribute stored under name.
	Set(name string, value any)

	// GetOrSet returns the attribute stored under name, atomically storing
	// fresh() when the attribute does not exist yet. Two requests racing on
	// the same absent attribute both receive the same value.
	GetOrSet(name string, fresh func() any) any

	// Delete removes the attribute stored under name.
	Delete(name string)
}

// Store resolves the session bound to a request.
type Store interface {
	// Session returns the session for the request's cookie. When no session
	// exists and create is true, a new one is created and its cookie is set
	// on w. When create is false an absent session returns nil, nil.
	Session(w http.ResponseWriter, r *http.Request, create bool) (Session, error)
}

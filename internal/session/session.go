// Package session carries the authenticated requester through service calls
// as an explicit value.
package session

import "context"

// Context is what the host's session knows about the requester.
type Context struct {
	TeamID   uint
	Admin    bool
	Verified bool
	// Nonce is the per-session anti-replay token the host checks on POSTs.
	Nonce string
	IP    string
}

// Authed reports whether the requester is logged in as a team.
func (c Context) Authed() bool {
	return c.TeamID != 0
}

type contextKey struct{}

// WithContext stores a session context in ctx.
func WithContext(ctx context.Context, sc Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, contextKey{}, sc)
}

// FromContext returns the session context stored in ctx, or an anonymous one.
func FromContext(ctx context.Context) Context {
	if ctx == nil {
		return Context{}
	}
	sc, _ := ctx.Value(contextKey{}).(Context)
	return sc
}

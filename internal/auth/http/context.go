// Package http provides HTTP handlers and middleware for the voter login flow.
package http

import (
	"context"

	authDomain "github.com/allisson/votesafe/internal/auth/domain"
)

// sessionKey is a context key type for storing the authenticated session.
type sessionKey struct{}

// WithSession stores an authenticated session in the context.
// This is called by SessionMiddleware after the session id has been validated.
func WithSession(ctx context.Context, session *authDomain.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetSession retrieves the authenticated session from the context.
// Returns (session, true) if a session is present, or (nil, false) if no session was set.
func GetSession(ctx context.Context) (*authDomain.Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(*authDomain.Session)
	return session, ok && session != nil
}

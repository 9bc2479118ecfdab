package auth

import "context"

type contextKey struct{}

// WithSession returns a context carrying the authenticated session.
func WithSession(ctx context.Context, session Session) context.Context {
	return context.WithValue(ctx, contextKey{}, session)
}

// SessionFromContext extracts the session placed by the auth middleware.
func SessionFromContext(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(contextKey{}).(Session)
	return session, ok
}

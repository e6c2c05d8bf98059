package auth

import "context"

type contextKey string

const contextKeySession contextKey = "auth.session"

// WithSession stores the request session in context.
func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, contextKeySession, session)
}

// SessionFromContext extracts the session from context.
func SessionFromContext(ctx context.Context) *Session {
	if ctx == nil {
		return nil
	}
	if session, ok := ctx.Value(contextKeySession).(*Session); ok {
		return session
	}
	return nil
}

// RoleFromContext extracts the session role from context.
func RoleFromContext(ctx context.Context) Role {
	if session := SessionFromContext(ctx); session != nil {
		return session.Role
	}
	return ""
}

// SubjectFromContext extracts the session subject from context.
func SubjectFromContext(ctx context.Context) string {
	if session := SessionFromContext(ctx); session != nil {
		return session.Subject
	}
	return ""
}

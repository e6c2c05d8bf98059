package auth

import (
	"net/http"
)

// DefaultLoginPath is where unauthenticated browsers are sent.
const DefaultLoginPath = "/login"

// Middleware loads the session and enforces the admin gate.
type Middleware struct {
	Sessions  *SessionManager
	Policy    Policy
	LoginPath string
}

// NewMiddleware constructs an auth middleware.
func NewMiddleware(sessions *SessionManager, policy Policy) *Middleware {
	return &Middleware{Sessions: sessions, Policy: policy, LoginPath: DefaultLoginPath}
}

// Wrap applies the session check to the handler.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	if m == nil || m.Sessions == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.Policy.IsExempt(r) {
			next.ServeHTTP(w, r)
			return
		}

		required, ok := m.Policy.RequiredRole(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		session, err := m.Sessions.Load(r)
		if err != nil {
			http.Redirect(w, r, m.loginPath(), http.StatusSeeOther)
			return
		}
		if !RoleAtLeast(session.Role, required) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}

func (m *Middleware) loginPath() string {
	if m.LoginPath == "" {
		return DefaultLoginPath
	}
	return m.LoginPath
}

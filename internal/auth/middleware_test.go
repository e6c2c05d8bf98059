package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAuthMiddleware_NoSessionRedirects(t *testing.T) {
	sessions := mustSessions(t)
	mw := NewMiddleware(sessions, NewDefaultPolicy(nil, nil))
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/maintenance", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.Code)
	}
	if loc := resp.Header().Get("Location"); loc != DefaultLoginPath {
		t.Fatalf("expected redirect to %s, got %q", DefaultLoginPath, loc)
	}
}

func TestAuthMiddleware_ViewerForbidden(t *testing.T) {
	sessions := mustSessions(t)
	mw := NewMiddleware(sessions, NewDefaultPolicy(nil, nil))
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/admin/maintenance", nil)
	addSessionCookie(t, sessions, req, "viewer-1", RoleViewer)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
}

func TestAuthMiddleware_AdminPassesWithSession(t *testing.T) {
	sessions := mustSessions(t)
	mw := NewMiddleware(sessions, NewDefaultPolicy(nil, nil))
	var seen *Session
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/maintenance", nil)
	addSessionCookie(t, sessions, req, "admin", RoleAdmin)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if seen == nil || seen.Subject != "admin" || seen.Role != RoleAdmin {
		t.Fatalf("session not injected: %+v", seen)
	}
}

func TestAuthMiddleware_ExemptAndUnguardedPaths(t *testing.T) {
	sessions := mustSessions(t)
	mw := NewMiddleware(sessions, NewDefaultPolicy([]string{"/healthz"}, []string{"/static/"}))
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, path := range []string{"/healthz", "/static/app.css", "/login", "/administrator"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, resp.Code)
		}
	}
}

func mustSessions(t *testing.T) *SessionManager {
	t.Helper()
	sessions, err := NewSessionManager([]byte("test-secret"))
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	return sessions
}

func addSessionCookie(t *testing.T, sessions *SessionManager, req *http.Request, subject string, role Role) *Session {
	t.Helper()
	session, err := sessions.Issue(subject, role)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	rec := httptest.NewRecorder()
	if err := sessions.Save(rec, session); err != nil {
		t.Fatalf("save: %v", err)
	}
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return session
}

package auth

import (
	"crypto/hmac"
	"errors"
	"html/template"
	"log"
	"net/http"
	"strings"

	"station-console/internal/web"
)

const loginTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>Sign in - Station Console</title>
    <style>` + web.BaseCSS + `
    .login-container { max-width: 400px; margin: 4rem auto; }
    </style>
</head>
<body>
    <div class="login-container">
        <h1 style="margin-bottom: 1rem;">Station Console</h1>
        <div class="card"><div class="card-body">
            {{if .Error}}<div class="alert alert-error">{{.Error}}</div>{{end}}
            <form method="POST" action="/login">
                <div class="form-group">
                    <label>Admin token</label>
                    <input class="form-control" type="password" name="token" autofocus required>
                </div>
                <button class="btn btn-primary" type="submit">Sign in</button>
            </form>
        </div></div>
    </div>
</body>
</html>`

// LoginHandler exchanges the admin token for a session.
type LoginHandler struct {
	sessions    *SessionManager
	adminToken  string
	landingPath string
	tpl         *template.Template
	logger      *log.Logger
}

// NewLoginHandler constructs a handler.
func NewLoginHandler(sessions *SessionManager, adminToken, landingPath string, logger *log.Logger) (*LoginHandler, error) {
	if sessions == nil {
		return nil, errors.New("login handler: nil session manager")
	}
	if adminToken == "" {
		return nil, errors.New("login handler: empty admin token")
	}
	if landingPath == "" {
		landingPath = "/"
	}
	return &LoginHandler{
		sessions:    sessions,
		adminToken:  adminToken,
		landingPath: landingPath,
		tpl:         template.Must(template.New("login").Parse(loginTemplate)),
		logger:      logger,
	}, nil
}

// ServeHTTP handles GET and POST /login.
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if _, err := h.sessions.Load(r); err == nil {
			http.Redirect(w, r, h.landingPath, http.StatusSeeOther)
			return
		}
		h.render(w, "")
	case http.MethodPost:
		h.handleSignIn(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *LoginHandler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.FormValue("token"))
	if token == "" || !hmac.Equal([]byte(token), []byte(h.adminToken)) {
		h.logf("login rejected from %s", r.RemoteAddr)
		w.WriteHeader(http.StatusUnauthorized)
		h.render(w, "Invalid token")
		return
	}

	session, err := h.sessions.Issue(string(RoleAdmin), RoleAdmin)
	if err != nil {
		h.logf("login session error: %v", err)
		http.Error(w, "session error", http.StatusInternalServerError)
		return
	}
	if err := h.sessions.Save(w, session); err != nil {
		h.logf("login session error: %v", err)
		http.Error(w, "session error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, h.landingPath, http.StatusSeeOther)
}

// Logout clears the session cookie.
func (h *LoginHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	http.Redirect(w, r, DefaultLoginPath, http.StatusSeeOther)
}

func (h *LoginHandler) render(w http.ResponseWriter, errMsg string) {
	if err := web.Render(w, h.tpl, map[string]any{"Error": errMsg}); err != nil {
		h.logf("login render error: %v", err)
	}
}

func (h *LoginHandler) logf(format string, args ...any) {
	if h.logger != nil {
		h.logger.Printf(format, args...)
	}
}

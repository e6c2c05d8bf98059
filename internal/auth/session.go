package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultSessionCookie = "console_session"
	defaultSessionTTL    = 24 * time.Hour
	csrfTokenBytes       = 32
)

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// ErrNoSession indicates the request carries no valid session.
var ErrNoSession = errors.New("auth: no session")

// Flash is a one-time notice shown on the next page render.
type Flash struct {
	Kind    string
	Message string
}

// Session is the per-browser state: identity, CSRF token and the flash slot.
type Session struct {
	Subject   string
	Role      Role
	CSRFToken string
	ExpiresAt time.Time

	flash *Flash
}

// SetFlash replaces the pending flash message.
func (s *Session) SetFlash(kind, message string) {
	if s == nil {
		return
	}
	s.flash = &Flash{Kind: kind, Message: message}
}

// PopFlash returns the pending flash message and clears it.
func (s *Session) PopFlash() *Flash {
	if s == nil {
		return nil
	}
	flash := s.flash
	s.flash = nil
	return flash
}

// ValidCSRF compares a submitted token with the session token in constant time.
func (s *Session) ValidCSRF(token string) bool {
	if s == nil || s.CSRFToken == "" || token == "" {
		return false
	}
	return hmac.Equal([]byte(token), []byte(s.CSRFToken))
}

// SessionManager stores sessions in a signed cookie.
type SessionManager struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
	now        func() time.Time
}

// SessionOption configures the manager.
type SessionOption func(*SessionManager)

// WithSessionTTL overrides the session lifetime.
func WithSessionTTL(ttl time.Duration) SessionOption {
	return func(m *SessionManager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithSecureCookies marks the session cookie Secure.
func WithSecureCookies(secure bool) SessionOption {
	return func(m *SessionManager) {
		m.secure = secure
	}
}

// WithCookieName overrides the session cookie name.
func WithCookieName(name string) SessionOption {
	return func(m *SessionManager) {
		if name != "" {
			m.cookieName = name
		}
	}
}

// NewSessionManager constructs a manager.
func NewSessionManager(secret []byte, opts ...SessionOption) (*SessionManager, error) {
	if len(secret) == 0 {
		return nil, errors.New("auth: empty session secret")
	}
	m := &SessionManager{
		secret:     secret,
		ttl:        defaultSessionTTL,
		cookieName: defaultSessionCookie,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Issue starts a new session with a fresh CSRF token.
func (m *SessionManager) Issue(subject string, role Role) (*Session, error) {
	token, err := NewCSRFToken()
	if err != nil {
		return nil, err
	}
	return &Session{
		Subject:   subject,
		Role:      role,
		CSRFToken: token,
		ExpiresAt: m.now().Add(m.ttl).UTC(),
	}, nil
}

// Load reads the session from the request cookie.
func (m *SessionManager) Load(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return nil, ErrNoSession
	}
	claims, err := ParseJWT(cookie.Value, m.secret)
	if err != nil {
		return nil, ErrNoSession
	}
	role, _ := NormalizeRole(claims.Role)
	session := &Session{
		Subject:   claims.Subject,
		Role:      role,
		CSRFToken: claims.CSRF,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	if claims.FlashKind != "" {
		session.flash = &Flash{Kind: claims.FlashKind, Message: claims.FlashMessage}
	}
	return session, nil
}

// Save writes the session cookie. The expiry is kept from Issue.
func (m *SessionManager) Save(w http.ResponseWriter, session *Session) error {
	if session == nil {
		return errors.New("auth: nil session")
	}
	claims := &Claims{
		Role: string(session.Role),
		CSRF: session.CSRFToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  session.Subject,
			IssuedAt: jwt.NewNumericDate(m.now()),
		},
	}
	if !session.ExpiresAt.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(session.ExpiresAt)
	}
	if session.flash != nil {
		claims.FlashKind = session.flash.Kind
		claims.FlashMessage = session.flash.Message
	}
	signed, err := SignJWT(claims, m.secret)
	if err != nil {
		return err
	}
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	if session.ExpiresAt.IsZero() || maxAge <= 0 {
		maxAge = int(m.ttl.Seconds())
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
	return nil
}

// Clear expires the session cookie.
func (m *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		MaxAge:   -1,
	})
}

// NewCSRFToken returns a random hex token.
func NewCSRFToken() (string, error) {
	buf := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

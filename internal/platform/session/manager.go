package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/warelane/stockscan/internal/domain"
	"github.com/warelane/stockscan/pkg/auth"
	"github.com/warelane/stockscan/pkg/logger"
)

// Manager establishes, resolves and clears the two representations of an
// authenticated identity: the signed identity cookie and the server session.
type Manager struct {
	store          Store
	secret         string
	identityTTL    time.Duration
	sessionIdleTTL time.Duration
	identityCookie string
	sessionCookie  string
	secure         bool
}

func NewManager(store Store, secret string, identityTTL, sessionIdleTTL time.Duration, identityCookie, sessionCookie string, secure bool) *Manager {
	return &Manager{
		store:          store,
		secret:         secret,
		identityTTL:    identityTTL,
		sessionIdleTTL: sessionIdleTTL,
		identityCookie: identityCookie,
		sessionCookie:  sessionCookie,
		secure:         secure,
	}
}

// Establish sets both representations: a fresh signed identity cookie and a
// new server session. Called on successful challenge verification.
func (m *Manager) Establish(w http.ResponseWriter, r *http.Request, identity domain.Identity) error {
	token, err := auth.NewIdentityToken(identity.Email, identity.Name, m.secret, m.identityTTL)
	if err != nil {
		return err
	}

	sid := uuid.NewString()
	if err := m.store.Create(r.Context(), sid, identity, m.sessionIdleTTL); err != nil {
		return err
	}

	m.setIdentityCookie(w, token)
	m.setSessionCookie(w, sid)
	return nil
}

// Current resolves the effective identity: the server session is preferred,
// the signed credential is the fallback, and when only the credential is
// present the session is reconstituted from it. Returns nil when anonymous.
func (m *Manager) Current(w http.ResponseWriter, r *http.Request) *domain.Identity {
	if c, err := r.Cookie(m.sessionCookie); err == nil && c.Value != "" {
		identity, err := m.store.Get(r.Context(), c.Value)
		if err != nil {
			logger.WarnContext(r.Context(), "session lookup failed", "error", err)
		} else if identity != nil {
			if err := m.store.Touch(r.Context(), c.Value, m.sessionIdleTTL); err != nil {
				logger.WarnContext(r.Context(), "session touch failed", "error", err)
			}
			m.renewIdentityCookie(w, r)
			return identity
		}
	}

	c, err := r.Cookie(m.identityCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	claims, err := auth.Parse(c.Value, m.secret)
	if err != nil {
		return nil
	}

	identity := domain.Identity{Email: claims.Email, Name: claims.Name}

	// Session expired but the credential is still good: rebuild the session.
	sid := uuid.NewString()
	if err := m.store.Create(r.Context(), sid, identity, m.sessionIdleTTL); err != nil {
		logger.WarnContext(r.Context(), "session rebuild failed", "error", err)
	} else {
		m.setSessionCookie(w, sid)
	}
	m.renewIdentityCookie(w, r)
	return &identity
}

// Invalidate clears both representations.
func (m *Manager) Invalidate(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(m.sessionCookie); err == nil && c.Value != "" {
		if err := m.store.Delete(r.Context(), c.Value); err != nil {
			logger.WarnContext(r.Context(), "session delete failed", "error", err)
		}
	}
	m.expireCookie(w, m.identityCookie)
	m.expireCookie(w, m.sessionCookie)
}

// renewIdentityCookie re-signs the credential once less than half the
// validity window remains, giving the 30-day cookie a sliding expiry.
func (m *Manager) renewIdentityCookie(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(m.identityCookie)
	if err != nil || c.Value == "" {
		return
	}
	claims, err := auth.Parse(c.Value, m.secret)
	if err != nil {
		return
	}
	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) > m.identityTTL/2 {
		return
	}
	token, err := auth.NewIdentityToken(claims.Email, claims.Name, m.secret, m.identityTTL)
	if err != nil {
		return
	}
	m.setIdentityCookie(w, token)
}

func (m *Manager) setIdentityCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.identityCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.identityTTL.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) setSessionCookie(w http.ResponseWriter, sid string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.sessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) expireCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"clubhouse-backend/internal/storage"
)

type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// SessionProvider authenticates with an opaque session id carried in a cookie
// and backed by a sessions row.
type SessionProvider struct {
	sessions storage.SessionStore
	cookie   CookieConfig
}

var _ Provider = (*SessionProvider)(nil)

func NewSessionProvider(sessions storage.SessionStore, cookie CookieConfig) *SessionProvider {
	return &SessionProvider{sessions: sessions, cookie: cookie}
}

func (p *SessionProvider) Name() string {
	return ModeSession
}

func (p *SessionProvider) Authenticate(r *http.Request) (string, error) {
	cookie, err := r.Cookie(p.cookie.Name)
	if err != nil || strings.TrimSpace(cookie.Value) == "" {
		return "", ErrUnauthenticated
	}

	session, err := p.sessions.Lookup(r.Context(), cookie.Value)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrUnauthenticated
		}
		return "", fmt.Errorf("lookup session: %w", err)
	}
	return session.UserID, nil
}

// Login opens a session for userID and sets the session cookie on w.
func (p *SessionProvider) Login(ctx context.Context, w http.ResponseWriter, userID string) error {
	session, err := p.sessions.Create(ctx, userID, p.cookie.TTL)
	if err != nil {
		return err
	}
	p.setCookie(w, session.ID, session.ExpiresAt, int(p.cookie.TTL.Seconds()))
	return nil
}

// Logout destroys the session named by the request cookie, if any, and
// always expires the cookie.
func (p *SessionProvider) Logout(w http.ResponseWriter, r *http.Request) error {
	if cookie, err := r.Cookie(p.cookie.Name); err == nil && cookie.Value != "" {
		if err := p.sessions.Destroy(r.Context(), cookie.Value); err != nil {
			return err
		}
	}
	p.setCookie(w, "", time.Unix(0, 0), -1)
	return nil
}

func (p *SessionProvider) setCookie(w http.ResponseWriter, value string, expires time.Time, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     p.cookie.Name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   p.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

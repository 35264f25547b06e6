// Package session keeps server-side login sessions referenced by an opaque cookie.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// DefaultCookieName names the session cookie when none is configured.
const DefaultCookieName = "taxportal.sid"

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Data is the identity stored in a session.
type Data struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Session is a stored login.
type Session struct {
	ID        string    `json:"id"`
	Data      Data      `json:"data"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session is past its lifetime at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store persists sessions by id.
type Store interface {
	Save(ctx context.Context, s Session) error
	// Get returns ErrNotFound when the id is unknown.
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Options configure a Manager.
type Options struct {
	TTL        time.Duration
	CookieName string
	Secure     bool
}

// Manager issues, resolves and revokes sessions.
type Manager struct {
	store  Store
	ttl    time.Duration
	cookie string
	secure bool
	now    func() time.Time
}

// NewManager builds a manager; a zero TTL defaults to one week.
func NewManager(store Store, opts Options) *Manager {
	if opts.TTL <= 0 {
		opts.TTL = 7 * 24 * time.Hour
	}
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	return &Manager{
		store:  store,
		ttl:    opts.TTL,
		cookie: opts.CookieName,
		secure: opts.Secure,
		now:    time.Now,
	}
}

// CookieName returns the name of the session cookie.
func (m *Manager) CookieName() string {
	return m.cookie
}

// Create stores a new session for data.
func (m *Manager) Create(ctx context.Context, data Data) (*Session, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}
	s := Session{ID: id, Data: data, ExpiresAt: m.now().Add(m.ttl).UTC()}
	if err := m.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &s, nil
}

// Load resolves a session id. Expired sessions are deleted and reported as ErrNotFound.
func (m *Manager) Load(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	s, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Expired(m.now()) {
		if err := m.store.Delete(ctx, id); err != nil {
			return nil, fmt.Errorf("delete expired session: %w", err)
		}
		return nil, ErrNotFound
	}
	return s, nil
}

// Destroy revokes a session. Unknown ids are ignored.
func (m *Manager) Destroy(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return m.store.Delete(ctx, id)
}

// Prune removes every expired session and returns how many were dropped.
func (m *Manager) Prune(ctx context.Context) (int64, error) {
	return m.store.DeleteExpired(ctx, m.now())
}

// Cookie builds the cookie that carries s to the browser.
func (m *Manager) Cookie(s *Session) *http.Cookie {
	return &http.Cookie{
		Name:     m.cookie,
		Value:    s.ID,
		Path:     "/",
		Expires:  s.ExpiresAt,
		MaxAge:   int(time.Until(s.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie builds a cookie that removes the session cookie.
func (m *Manager) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     m.cookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func newID() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

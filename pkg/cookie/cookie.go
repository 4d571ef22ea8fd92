// Package cookie writes and reads cookies with one shared set of attributes.
//
// Values are stored as given; the admin session cookie carries a token
// that is already signed by pkg/adminauth.
package cookie

import (
	"errors"
	"net/http"
)

var ErrNotFound = errors.New("cookie: not found")

// Manager applies the same Path, Domain, Secure, HttpOnly and SameSite
// attributes to every cookie it writes.
type Manager struct {
	domain   string
	path     string
	secure   bool
	httpOnly bool
	sameSite http.SameSite
}

type Option func(*Manager)

// New defaults to Path=/, HttpOnly and SameSite=Lax.
func New(opts ...Option) *Manager {
	m := &Manager{
		path:     "/",
		httpOnly: true,
		sameSite: http.SameSiteLaxMode,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func WithDomain(domain string) Option {
	return func(m *Manager) { m.domain = domain }
}

func WithPath(path string) Option {
	return func(m *Manager) { m.path = path }
}

// WithSecure sets the Secure flag; enable it behind HTTPS.
func WithSecure(secure bool) Option {
	return func(m *Manager) { m.secure = secure }
}

func WithHTTPOnly(httpOnly bool) Option {
	return func(m *Manager) { m.httpOnly = httpOnly }
}

func WithSameSite(ss http.SameSite) Option {
	return func(m *Manager) { m.sameSite = ss }
}

// Get returns ErrNotFound when the request has no such cookie.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrNotFound
		}
		return "", err
	}
	return c.Value, nil
}

// Set writes a cookie living maxAge seconds.
func (m *Manager) Set(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, m.cookie(name, value, maxAge))
}

// Delete expires the cookie immediately (Max-Age=0 on the wire).
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, m.cookie(name, "", -1))
}

func (m *Manager) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     m.path,
		Domain:   m.domain,
		MaxAge:   maxAge,
		Secure:   m.secure,
		HttpOnly: m.httpOnly,
		SameSite: m.sameSite,
	}
}

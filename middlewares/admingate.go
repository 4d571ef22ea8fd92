package middlewares

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrymomot/kennel/internal"
	"github.com/dmitrymomot/kennel/pkg/adminauth"
)

// Admin route layout guarded by AdminGate.
const (
	AdminUIPrefix      = "/admin"
	AdminAPIPrefix     = "/api/admin"
	AdminLoginPage     = "/admin/login"
	AdminLoginEndpoint = "/api/admin/login"
)

type adminTokenKey struct{}

// AdminGateOption configures AdminGate.
type AdminGateOption func(*adminGate)

type adminGate struct {
	auth     *adminauth.Authority
	denylist adminauth.Denylist
	cookie   string
}

// WithDenylist rejects tokens revoked at logout.
// A denylist lookup failure rejects the request.
func WithDenylist(d adminauth.Denylist) AdminGateOption {
	return func(g *adminGate) {
		g.denylist = d
	}
}

// AdminGate guards every path under /admin and /api/admin except the
// login page and the login endpoint. Requests without a valid session
// token get 401 on API paths and a 303 to the login page, carrying the
// original path in "next", on UI paths.
func AdminGate(auth *adminauth.Authority, opts ...AdminGateOption) internal.Middleware {
	g := &adminGate{auth: auth, cookie: adminauth.CookieName}
	for _, opt := range opts {
		opt(g)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			path := c.Request().URL.Path
			api := underPrefix(path, AdminAPIPrefix)
			if !api && !underPrefix(path, AdminUIPrefix) {
				return next(c)
			}
			if path == AdminLoginPage || path == AdminLoginEndpoint {
				return next(c)
			}

			tok, ok := g.authenticate(c)
			if !ok {
				if api {
					return internal.ErrUnauthorized("Unauthorized")
				}
				return c.Redirect(http.StatusSeeOther, LoginRedirect(c.Request().URL))
			}

			c.Set(adminTokenKey{}, tok)
			return next(c)
		}
	}
}

func (g *adminGate) authenticate(c internal.Context) (adminauth.Token, bool) {
	raw, err := c.Cookie(g.cookie)
	if err != nil {
		return adminauth.Token{}, false
	}
	tok, ok := g.auth.Parse(raw)
	if !ok {
		return adminauth.Token{}, false
	}
	if g.denylist != nil {
		revoked, err := g.denylist.IsRevoked(c.Context(), tok.Signature)
		if err != nil {
			c.LogError("admin denylist lookup failed", "error", err)
			return adminauth.Token{}, false
		}
		if revoked {
			return adminauth.Token{}, false
		}
	}
	return tok, true
}

// AdminToken returns the token verified by AdminGate for this request.
func AdminToken(c internal.Context) (adminauth.Token, bool) {
	tok, ok := c.Get(adminTokenKey{}).(adminauth.Token)
	return tok, ok
}

// LoginRedirect builds the login page URL returning to u afterwards.
func LoginRedirect(u *url.URL) string {
	return AdminLoginPage + "?next=" + url.QueryEscape(u.RequestURI())
}

// SafeNext returns next when it is a local admin path, otherwise the admin root.
// It keeps the login form from becoming an open redirect.
func SafeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return AdminUIPrefix
	}
	if !underPrefix(strings.SplitN(next, "?", 2)[0], AdminUIPrefix) {
		return AdminUIPrefix
	}
	return next
}

func underPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/kennel/internal"
	"github.com/dmitrymomot/kennel/middlewares"
	"github.com/dmitrymomot/kennel/pkg/adminauth"
)

// LogoutEndpoint sits outside the gated prefixes so it always succeeds.
const LogoutEndpoint = "/api/logout"

// Auth exchanges the admin passcode for a session cookie.
type Auth struct {
	auth     *adminauth.Authority
	denylist adminauth.Denylist
	limit    []internal.Middleware
}

// NewAuth creates the login and logout handler. The denylist may be nil,
// in which case logout only clears the cookie. limit guards the login
// endpoint against passcode guessing.
func NewAuth(auth *adminauth.Authority, denylist adminauth.Denylist, limit ...internal.Middleware) *Auth {
	return &Auth{auth: auth, denylist: denylist, limit: limit}
}

func (h *Auth) Routes(r internal.Router) {
	r.POST(middlewares.AdminLoginEndpoint, h.login, h.limit...)
	r.POST(LogoutEndpoint, h.logout)
}

type loginRequest struct {
	Passcode string `json:"passcode"`
}

func (h *Auth) login(c internal.Context) error {
	var req loginRequest
	if err := c.BindJSON(&req); err != nil {
		return err
	}
	if err := startSession(c, h.auth, req.Passcode); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// logout revokes the presented token for the rest of its lifetime and
// clears the cookie. It answers 204 whatever the cookie held.
func (h *Auth) logout(c internal.Context) error {
	endSession(c, h.auth, h.denylist)
	return c.NoContent(http.StatusNoContent)
}

// startSession checks the passcode and sets the session cookie.
func startSession(c internal.Context, auth *adminauth.Authority, passcode string) error {
	if err := auth.CheckPasscode(passcode); err != nil {
		if errors.Is(err, adminauth.ErrInvalidPasscode) {
			c.LogWarn("admin login rejected")
			return internal.ErrUnauthorized("Invalid passcode", internal.WithError(err))
		}
		return err
	}

	token, err := auth.Issue()
	if err != nil {
		return err
	}
	c.SetCookie(adminauth.CookieName, token, int(adminauth.TTL.Seconds()))
	c.LogInfo("admin login")
	return nil
}

// endSession revokes the cookie's token, if any, and clears the cookie.
// Revocation failures are logged; the cookie is cleared regardless.
func endSession(c internal.Context, auth *adminauth.Authority, denylist adminauth.Denylist) {
	if raw, err := c.Cookie(adminauth.CookieName); err == nil && denylist != nil {
		if tok, ok := auth.Parse(raw); ok {
			if err := denylist.Revoke(c.Context(), tok.Signature, auth.ExpiresIn(tok)); err != nil {
				c.LogError("admin token revocation failed", "error", err)
			}
		}
	}
	c.DeleteCookie(adminauth.CookieName)
}

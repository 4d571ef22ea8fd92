package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/kennel/pkg/adminauth"
)

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == adminauth.CookieName {
			return c
		}
	}
	return nil
}

func TestAuth_Login(t *testing.T) {
	t.Parallel()

	t.Run("correct passcode sets a session cookie", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t, passcode)

		rec := e.json(t, http.MethodPost, "/api/admin/login", `{"passcode":" s3cret "}`)
		require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

		c := sessionCookie(t, rec)
		require.NotNil(t, c)
		assert.True(t, e.auth.Verify(c.Value))
		assert.Equal(t, int(adminauth.TTL.Seconds()), c.MaxAge)
		assert.True(t, c.HttpOnly)

		rec = e.json(t, http.MethodGet, "/api/admin/dogs", "", asAdmin(c.Value))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("wrong passcode", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t, passcode)

		rec := e.json(t, http.MethodPost, "/api/admin/login", `{"passcode":"nope"}`)
		requireError(t, rec, http.StatusUnauthorized, "unauthorized")
		assert.Nil(t, sessionCookie(t, rec))
	})

	t.Run("no secret configured", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t, "")

		rec := e.json(t, http.MethodPost, "/api/admin/login", `{"passcode":""}`)
		requireError(t, rec, http.StatusInternalServerError, "server_misconfigured")
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t, passcode)

		requireError(t, e.json(t, http.MethodPost, "/api/admin/login", `{`), http.StatusBadRequest, "bad_request")
	})
}

func TestAuth_Logout(t *testing.T) {
	t.Parallel()
	e := newEnv(t, passcode)

	require.Equal(t, http.StatusOK, e.json(t, http.MethodGet, "/api/admin/dogs", "", asAdmin(e.token)).Code)

	rec := e.json(t, http.MethodPost, "/api/logout", "", asAdmin(e.token))
	require.Equal(t, http.StatusNoContent, rec.Code)
	c := sessionCookie(t, rec)
	require.NotNil(t, c)
	assert.Empty(t, c.Value)

	requireError(t, e.json(t, http.MethodGet, "/api/admin/dogs", "", asAdmin(e.token)), http.StatusUnauthorized, "unauthorized")

	// Logging out without a session still succeeds.
	require.Equal(t, http.StatusNoContent, e.json(t, http.MethodPost, "/api/logout", "").Code)
}

func TestAdminGate_Routes(t *testing.T) {
	t.Parallel()
	e := newEnv(t, passcode)

	for _, path := range []string{"/api/admin/dogs", "/api/admin/testimonials", "/api/admin/reservations"} {
		requireError(t, e.json(t, http.MethodGet, path, ""), http.StatusUnauthorized, "unauthorized")
		requireError(t, e.json(t, http.MethodGet, path, "", asAdmin("forged.token")), http.StatusUnauthorized, "unauthorized")
	}

	rec := e.json(t, http.MethodGet, "/admin", "")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/login?next="+url.QueryEscape("/admin"), rec.Header().Get("Location"))
}

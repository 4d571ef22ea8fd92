package handlers_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPages_Login(t *testing.T) {
	t.Parallel()

	t.Run("form renders with next", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t, passcode)

		rec := e.do(t, http.MethodGet, "/admin/login?next=%2Fadmin%2Fdogs", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `name="passcode"`)
		assert.Contains(t, rec.Body.String(), `value="/admin/dogs"`)
	})

	t.Run("success redirects to next", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t, passcode)

		rec := e.form(t, "/admin/login", url.Values{"passcode": {passcode}, "next": {"/admin/dogs"}})
		require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
		assert.Equal(t, "/admin/dogs", rec.Header().Get("Location"))
		require.NotNil(t, sessionCookie(t, rec))
	})

	t.Run("external next is ignored", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t, passcode)

		rec := e.form(t, "/admin/login", url.Values{"passcode": {passcode}, "next": {"https://evil.example"}})
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/admin", rec.Header().Get("Location"))
	})

	t.Run("htmx success uses HX-Redirect", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t, passcode)

		rec := e.form(t, "/admin/login", url.Values{"passcode": {passcode}}, withHeader("HX-Request", "true"))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "/admin", rec.Header().Get("HX-Redirect"))
	})

	t.Run("wrong passcode re-renders", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t, passcode)

		rec := e.form(t, "/admin/login", url.Values{"passcode": {"nope"}, "next": {"/admin/dogs"}})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid passcode")
		assert.Contains(t, rec.Body.String(), `value="/admin/dogs"`)
		assert.Nil(t, sessionCookie(t, rec))
	})
}

func TestPages_Dashboard(t *testing.T) {
	t.Parallel()
	e := newEnv(t, passcode)

	require.Equal(t, http.StatusCreated,
		e.json(t, http.MethodPost, "/api/admin/dogs", `{"name":"Milo <3","price_cents":125099}`, asAdmin(e.token)).Code)

	rec := e.do(t, http.MethodGet, "/admin", nil, "", asAdmin(e.token))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Milo &lt;3")
	assert.Contains(t, body, "$1250.99")
	assert.NotContains(t, body, "Milo <3")

	rec = e.do(t, http.MethodPost, "/admin/logout", nil, "", asAdmin(e.token))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))

	rec = e.do(t, http.MethodGet, "/admin", nil, "", asAdmin(e.token))
	require.Equal(t, http.StatusSeeOther, rec.Code)
}

package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/kennel/pkg/cookie"
)

func TestManager_SetGet(t *testing.T) {
	t.Parallel()

	m := cookie.New(cookie.WithSecure(true))

	rec := httptest.NewRecorder()
	m.Set(rec, "kennel_admin", "payload.sig", 604800)

	res := rec.Result()
	cookies := res.Cookies()
	require.Len(t, cookies, 1)

	c := cookies[0]
	require.Equal(t, "kennel_admin", c.Name)
	require.Equal(t, "payload.sig", c.Value)
	require.Equal(t, "/", c.Path)
	require.Equal(t, 604800, c.MaxAge)
	require.True(t, c.Secure)
	require.True(t, c.HttpOnly)
	require.Equal(t, http.SameSiteLaxMode, c.SameSite)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	v, err := m.Get(req, "kennel_admin")
	require.NoError(t, err)
	require.Equal(t, "payload.sig", v)
}

func TestManager_GetMissing(t *testing.T) {
	t.Parallel()

	_, err := cookie.New().Get(httptest.NewRequest(http.MethodGet, "/", nil), "kennel_admin")
	require.ErrorIs(t, err, cookie.ErrNotFound)
}

func TestManager_Delete(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	cookie.New().Delete(rec, "kennel_admin")

	header := rec.Header().Get("Set-Cookie")
	require.Contains(t, header, "kennel_admin=;")
	require.Contains(t, header, "Max-Age=0")
	require.Contains(t, header, "HttpOnly")
	require.Contains(t, header, "SameSite=Lax")
}

package handlers

import (
	"net/http"

	"github.com/dmitrymomot/kennel/internal"
	"github.com/dmitrymomot/kennel/internal/repository"
	"github.com/dmitrymomot/kennel/internal/views"
	"github.com/dmitrymomot/kennel/middlewares"
	"github.com/dmitrymomot/kennel/pkg/adminauth"
	"github.com/dmitrymomot/kennel/pkg/htmx"
)

// AdminLogoutPage ends the session from the dashboard and returns to the
// login form.
const AdminLogoutPage = middlewares.AdminUIPrefix + "/logout"

// Pages serves the server-rendered admin UI.
type Pages struct {
	auth     *adminauth.Authority
	denylist adminauth.Denylist
	dogs     DogLister
	limit    []internal.Middleware
}

func NewPages(auth *adminauth.Authority, denylist adminauth.Denylist, dogs DogLister, limit ...internal.Middleware) *Pages {
	return &Pages{auth: auth, denylist: denylist, dogs: dogs, limit: limit}
}

func (h *Pages) Routes(r internal.Router) {
	r.GET(middlewares.AdminLoginPage, h.loginPage)
	r.POST(middlewares.AdminLoginPage, h.loginForm, h.limit...)
	r.POST(AdminLogoutPage, h.logout)
	r.GET(middlewares.AdminUIPrefix, h.dashboard)
}

func (h *Pages) loginPage(c internal.Context) error {
	return c.Render(http.StatusOK, views.LoginPage(middlewares.AdminLoginPage, c.Query("next"), ""))
}

// loginForm accepts the urlencoded passcode form. A wrong passcode
// re-renders the form with 401; success redirects to the sanitized next.
func (h *Pages) loginForm(c internal.Context) error {
	if !isForm(c) {
		return internal.NewHTTPError(http.StatusUnsupportedMediaType, "Expected a form body")
	}
	r := c.Request()
	if err := r.ParseForm(); err != nil {
		return internal.ErrBadRequest("Malformed form body", internal.WithError(err))
	}
	next := r.PostForm.Get("next")

	if err := startSession(c, h.auth, r.PostForm.Get("passcode")); err != nil {
		if he := internal.AsHTTPError(err); he != nil && he.Code == http.StatusUnauthorized {
			return c.Render(http.StatusUnauthorized, views.LoginPage(middlewares.AdminLoginPage, next, he.Message))
		}
		return err
	}
	htmx.Redirect(c.Response(), r, middlewares.SafeNext(next))
	return nil
}

func (h *Pages) logout(c internal.Context) error {
	endSession(c, h.auth, h.denylist)
	htmx.Redirect(c.Response(), c.Request(), middlewares.AdminLoginPage)
	return nil
}

func (h *Pages) dashboard(c internal.Context) error {
	dogs, err := h.dogs.ListDogs(c.Context())
	if err != nil {
		return err
	}
	if dogs == nil {
		dogs = []repository.Dog{}
	}
	return c.Render(http.StatusOK, views.Dashboard(dogs, AdminLogoutPage))
}

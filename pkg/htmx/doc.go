// Package htmx lets the admin pages answer htmx form posts.
//
// An htmx request follows a plain 3xx into the swap target instead of
// navigating, so redirects after a form post go out as an HX-Redirect
// header:
//
//	if ok {
//	    htmx.Redirect(w, r, "/admin")
//	}
//
// Requests without the HX-Request header get an ordinary 303.
package htmx

package htmx

import "net/http"

const (
	HeaderRequest  = "HX-Request"
	HeaderRedirect = "HX-Redirect"
)

// IsHTMX reports whether the request was issued by htmx.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get(HeaderRequest) == "true"
}

// Redirect sends the client to url after a form post. htmx requests get
// 200 with HX-Redirect; everything else gets 303 See Other.
func Redirect(w http.ResponseWriter, r *http.Request, url string) {
	if IsHTMX(r) {
		w.Header().Set(HeaderRedirect, url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

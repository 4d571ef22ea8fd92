package internal

// Handler declares routes on a router.
//
//	func (h *Dogs) Routes(r internal.Router) {
//	    r.GET("/api/dogs", h.list)
//	    r.GET("/api/dogs/{slug}", h.show)
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc serves one request. A returned error is passed to the
// app's ErrorHandler unless the response was already written.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc. It may short-circuit by writing a
// response or returning an error without calling next.
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler renders errors returned from handlers and middleware.
type ErrorHandler func(Context, error) error

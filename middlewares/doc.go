// Package middlewares holds kennel's request middleware.
//
// Global chain, outermost first:
//
//	internal.WithMiddleware(
//	    middlewares.RequestID(),
//	    middlewares.RequestLog(),
//	    middlewares.Recover(),
//	    middlewares.Timeout(60*time.Second),
//	    middlewares.AdminGate(authority, middlewares.WithDenylist(denylist)),
//	)
//
// RequestID stores the ID on the request context; pair it with
// RequestIDExtractor in logger.New so every record carries request_id.
//
// Recover and Timeout return *PanicError and *TimeoutError to the app's
// error handler instead of writing responses.
//
// AdminGate is the only authentication in the app: one shared admin
// secret, verified through adminauth.Authority on every request under
// /admin and /api/admin.
//
// RateLimiter is attached per route to the login and public submission
// endpoints.
package middlewares

// Package internal is kennel's small HTTP kernel: a chi-backed router,
// a request Context with JSON/cookie/render helpers, structured HTTP
// errors and a server runtime with graceful shutdown.
//
// Handlers return errors instead of writing failure responses themselves;
// the ErrorHandler installed with WithErrorHandler turns them into JSON.
package internal

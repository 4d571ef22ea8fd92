// Package handlers declares kennel's HTTP routes: the public storefront
// API, the admin login and the admin API and pages behind
// middlewares.AdminGate.
//
// Handlers return errors; ErrorHandler renders every error as
//
//	{"error": {"code": "...", "message": "...", "request_id": "...", "fields": {...}}}
package handlers

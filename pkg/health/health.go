// Package health serves liveness and readiness probes.
//
// Readiness runs every named check concurrently under a shared timeout
// and reports 503 when any of them fails.
package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"

	DefaultTimeout = 5 * time.Second
)

// CheckFunc matches db.Healthcheck, redis.Healthcheck and job.Healthcheck.
type CheckFunc func(ctx context.Context) error

// Checks maps a dependency name to its probe.
type Checks map[string]CheckFunc

// Report is the readiness response body.
type Report struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Liveness always answers 200; the process is up if it can respond.
func Liveness() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, Report{Status: StatusHealthy})
	}
}

// Readiness answers 200 when every check passes within timeout, 503 otherwise.
// Failed checks are logged at warn level with their name.
func Readiness(checks Checks, timeout time.Duration, log *slog.Logger) http.HandlerFunc {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		report := Run(r.Context(), checks, timeout)
		for name, status := range report.Checks {
			if status != StatusHealthy {
				log.WarnContext(r.Context(), "readiness check failed",
					slog.String("check", name),
					slog.String("error", status),
				)
			}
		}

		code := http.StatusOK
		if report.Status != StatusHealthy {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, report)
	}
}

// Run executes all checks concurrently. A failed check's entry holds its error text.
func Run(ctx context.Context, checks Checks, timeout time.Duration) Report {
	if len(checks) == 0 {
		return Report{Status: StatusHealthy}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		mu     sync.Mutex
		g      errgroup.Group
		report = Report{Status: StatusHealthy, Checks: make(map[string]string, len(checks))}
	)
	for name, check := range checks {
		g.Go(func() error {
			status := StatusHealthy
			if err := check(ctx); err != nil {
				status = err.Error()
			}

			mu.Lock()
			defer mu.Unlock()
			report.Checks[name] = status
			if status != StatusHealthy {
				report.Status = StatusUnhealthy
			}
			return nil
		})
	}
	_ = g.Wait()

	return report
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

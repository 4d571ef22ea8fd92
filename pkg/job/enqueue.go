package job

import (
	"time"

	"github.com/riverqueue/river"
)

// EnqueueOption adjusts how a single job is inserted.
type EnqueueOption func(*river.InsertOpts)

// MaxAttempts caps retries for the job.
func MaxAttempts(n int) EnqueueOption {
	return func(o *river.InsertOpts) {
		if n > 0 {
			o.MaxAttempts = n
		}
	}
}

// ScheduledIn delays the job by d.
func ScheduledIn(d time.Duration) EnqueueOption {
	return func(o *river.InsertOpts) {
		o.ScheduledAt = time.Now().Add(d)
	}
}

// UniqueFor drops duplicates of the same task and payload within d.
func UniqueFor(d time.Duration) EnqueueOption {
	return func(o *river.InsertOpts) {
		o.UniqueOpts = river.UniqueOpts{ByArgs: true, ByPeriod: d}
	}
}

package job

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/riverqueue/river"
	"github.com/robfig/cron/v3"
)

// Task is a named handler for a JSON payload of type P.
type Task[P any] interface {
	Name() string
	Handle(ctx context.Context, payload P) error
}

// ScheduledTask runs on a five-field cron schedule without a payload.
type ScheduledTask interface {
	Name() string
	Schedule() string
	Handle(ctx context.Context) error
}

type executor func(ctx context.Context, payload json.RawMessage) error

type schedule struct {
	name string
	expr string
}

// Option registers tasks on the Manager.
type Option func(*registry)

type registry struct {
	executors map[string]executor
	schedules []schedule
}

// WithTask registers a payload-carrying task.
func WithTask[P any](task Task[P]) Option {
	return func(r *registry) {
		r.executors[task.Name()] = func(ctx context.Context, raw json.RawMessage) error {
			var payload P
			if len(raw) > 0 {
				if err := json.Unmarshal(raw, &payload); err != nil {
					return errors.Join(ErrInvalidPayload, err)
				}
			}
			return task.Handle(ctx, payload)
		}
	}
}

// WithScheduledTask registers a periodic task.
func WithScheduledTask(task ScheduledTask) Option {
	return func(r *registry) {
		r.executors[task.Name()] = func(ctx context.Context, _ json.RawMessage) error {
			return task.Handle(ctx)
		}
		r.schedules = append(r.schedules, schedule{name: task.Name(), expr: task.Schedule()})
	}
}

// envelope is the single river job kind carrying every kennel task.
type envelope struct {
	Task    string          `json:"task"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func (envelope) Kind() string { return "kennel:task" }

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

func parseSchedule(expr string) (river.PeriodicSchedule, error) {
	s, err := cronParser.Parse(expr)
	if err != nil {
		return nil, errors.Join(ErrInvalidSchedule, err)
	}
	return s, nil
}

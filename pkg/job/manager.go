// Package job runs kennel's background tasks on river, a Postgres-backed
// queue, with cron-style periodic scheduling.
//
//	m, err := job.NewManager(pool, log,
//	    job.WithTask[reservation.NoticePayload](notice),
//	    job.WithScheduledTask(sweep),
//	)
//
//	err = m.Enqueue(ctx, reservation.NoticeTask, reservation.NoticePayload{ID: id})
package job

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
)

const defaultMaxWorkers = 10

// Enqueuer is what request handlers depend on.
type Enqueuer interface {
	Enqueue(ctx context.Context, task string, payload any, opts ...EnqueueOption) error
}

// Manager owns the river client, its worker and the periodic schedule.
type Manager struct {
	pool   *pgxpool.Pool
	client *river.Client[pgx.Tx]
	tasks  map[string]executor
	log    *slog.Logger

	mu      sync.Mutex
	started bool
}

// NewManager builds the river client. Jobs may be enqueued before Start.
func NewManager(pool *pgxpool.Pool, log *slog.Logger, opts ...Option) (*Manager, error) {
	if pool == nil {
		return nil, ErrPoolRequired
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	reg := &registry{executors: make(map[string]executor)}
	for _, opt := range opts {
		opt(reg)
	}

	m := &Manager{pool: pool, tasks: reg.executors, log: log}

	periodic := make([]*river.PeriodicJob, 0, len(reg.schedules))
	for _, s := range reg.schedules {
		sched, err := parseSchedule(s.expr)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %q", err, s.name, s.expr)
		}
		name := s.name
		periodic = append(periodic, river.NewPeriodicJob(sched,
			func() (river.JobArgs, *river.InsertOpts) {
				return envelope{Task: name}, nil
			},
			&river.PeriodicJobOpts{RunOnStart: false},
		))
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, &worker{manager: m})

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues:       map[string]river.QueueConfig{river.QueueDefault: {MaxWorkers: defaultMaxWorkers}},
		Workers:      workers,
		PeriodicJobs: periodic,
		Logger:       log,
	})
	if err != nil {
		return nil, fmt.Errorf("job: create client: %w", err)
	}
	m.client = client

	return m, nil
}

// Migrate creates or upgrades river's own tables.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("job: create migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil); err != nil {
		return fmt.Errorf("job: migrate: %w", err)
	}
	return nil
}

// Enqueue inserts a job for a registered task.
func (m *Manager) Enqueue(ctx context.Context, task string, payload any, opts ...EnqueueOption) error {
	if _, ok := m.tasks[task]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTask, task)
	}

	args, insertOpts, err := buildArgs(task, payload, opts...)
	if err != nil {
		return err
	}
	if _, err := m.client.Insert(ctx, args, insertOpts); err != nil {
		return fmt.Errorf("job: enqueue %s: %w", task, err)
	}
	return nil
}

// Start begins working jobs.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return ErrAlreadyStarted
	}
	if err := m.client.Start(ctx); err != nil {
		return fmt.Errorf("job: start client: %w", err)
	}
	m.started = true
	m.log.InfoContext(ctx, "job manager started", slog.Int("tasks", len(m.tasks)))
	return nil
}

// Stop waits for running jobs to finish or ctx to expire.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return ErrNotStarted
	}
	if err := m.client.Stop(ctx); err != nil {
		return fmt.Errorf("job: stop client: %w", err)
	}
	m.started = false
	m.log.InfoContext(ctx, "job manager stopped")
	return nil
}

// Healthcheck reports unhealthy until Start succeeds, then pings the pool.
func Healthcheck(m *Manager) func(context.Context) error {
	return func(ctx context.Context) error {
		if m == nil {
			return ErrHealthcheckFailed
		}
		m.mu.Lock()
		started := m.started
		m.mu.Unlock()
		if !started {
			return fmt.Errorf("%w: %w", ErrHealthcheckFailed, ErrNotStarted)
		}
		if err := m.pool.Ping(ctx); err != nil {
			return fmt.Errorf("%w: %w", ErrHealthcheckFailed, err)
		}
		return nil
	}
}

type worker struct {
	river.WorkerDefaults[envelope]
	manager *Manager
}

func (w *worker) Work(ctx context.Context, job *river.Job[envelope]) error {
	return w.manager.execute(ctx, job.Args, job.ID, job.Attempt)
}

func (m *Manager) execute(ctx context.Context, args envelope, id int64, attempt int) error {
	exec, ok := m.tasks[args.Task]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTask, args.Task)
	}

	if err := exec(ctx, args.Payload); err != nil {
		m.log.ErrorContext(ctx, "task failed",
			slog.String("task", args.Task),
			slog.Int64("job_id", id),
			slog.Int("attempt", attempt),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}

func buildArgs(task string, payload any, opts ...EnqueueOption) (envelope, *river.InsertOpts, error) {
	args := envelope{Task: task}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return args, nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
		args.Payload = raw
	}

	insertOpts := &river.InsertOpts{}
	for _, opt := range opts {
		opt(insertOpts)
	}
	return args, insertOpts, nil
}

// Command kennel serves the storefront API, the admin UI and the
// background jobs from a single process.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/kennel/internal"
	"github.com/dmitrymomot/kennel/internal/db/migrations"
	"github.com/dmitrymomot/kennel/internal/handlers"
	"github.com/dmitrymomot/kennel/internal/listing"
	"github.com/dmitrymomot/kennel/internal/repository"
	"github.com/dmitrymomot/kennel/internal/reservation"
	"github.com/dmitrymomot/kennel/internal/tasks"
	"github.com/dmitrymomot/kennel/middlewares"
	"github.com/dmitrymomot/kennel/pkg/adminauth"
	"github.com/dmitrymomot/kennel/pkg/cache"
	"github.com/dmitrymomot/kennel/pkg/cookie"
	"github.com/dmitrymomot/kennel/pkg/db"
	"github.com/dmitrymomot/kennel/pkg/job"
	"github.com/dmitrymomot/kennel/pkg/logger"
	"github.com/dmitrymomot/kennel/pkg/mailer"
	"github.com/dmitrymomot/kennel/pkg/mailer/resend"
	"github.com/dmitrymomot/kennel/pkg/redis"
	"github.com/dmitrymomot/kennel/pkg/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "kennel: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, flush := logger.New(cfg.Log, os.Stdout, middlewares.RequestIDExtractor())
	defer flush()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		return err
	}
	if err := db.Migrate(ctx, pool, migrations.FS, cfg.DB.MigrationsTable, log); err != nil {
		pool.Close()
		return err
	}
	queries := repository.New(pool)

	blobs, err := storage.New(cfg.Storage)
	if err != nil {
		pool.Close()
		return err
	}

	shutdown := []func(context.Context) error{}

	var (
		denyCache   cache.Cache[bool]
		publicCache cache.Cache[[]byte]
		checks      = []internal.Option{internal.WithReadinessCheck("db", db.Healthcheck(pool))}
	)
	if cfg.Redis.Enabled() {
		client, err := redis.Open(ctx, cfg.Redis)
		if err != nil {
			pool.Close()
			return err
		}
		denyCache = cache.NewRedis[bool](client, "kennel:denylist", adminauth.TTL)
		publicCache = cache.NewRedis[[]byte](client, "kennel:public", cfg.App.PublicCacheTTL)
		checks = append(checks, internal.WithReadinessCheck("redis", redis.Healthcheck(client)))
		shutdown = append(shutdown, redis.Shutdown(client))
	} else {
		log.Warn("REDIS_URL not set: using in-memory caches")
		mem := cache.NewMemory[bool]()
		pub := cache.NewMemory[[]byte]()
		denyCache, publicCache = mem, pub
		shutdown = append(shutdown,
			func(context.Context) error { return mem.Close() },
			func(context.Context) error { return pub.Close() },
		)
	}

	auth := adminauth.New(cfg.App.AdminPasscode)
	if !auth.Configured() {
		log.Warn("ADMIN_PASSCODE not set: admin login is disabled")
	}
	denylist := adminauth.NewCacheDenylist(denyCache)
	public := handlers.NewPublicCache(publicCache, cfg.App.PublicCacheTTL, log)

	listings := listing.NewService(queries, blobs, listing.WithLogger(log))
	resOpts := []reservation.Option{reservation.WithLogger(log)}

	var jobs *job.Manager
	if cfg.Jobs.Enabled {
		if err := job.Migrate(ctx, pool); err != nil {
			pool.Close()
			return err
		}

		var sender mailer.Sender = mailer.LogSender{Log: log}
		if cfg.Resend.APIKey != "" {
			sender = resend.New(cfg.Resend)
		} else {
			log.Warn("RESEND_API_KEY not set: emails are logged, not sent")
		}
		mail := mailer.New(sender, mailer.NewRenderer(tasks.Templates()))

		jobOpts := []job.Option{
			job.WithTask[reservation.NoticePayload](
				tasks.NewReservationNotice(mail, queries, cfg.App.AdminEmail, cfg.App.BaseURL, log),
			),
		}
		if cfg.Jobs.OrphanSweep {
			jobOpts = append(jobOpts, job.WithScheduledTask(
				tasks.NewOrphanSweep(blobs, queries, log, tasks.WithGrace(cfg.Jobs.OrphanGrace)),
			))
		}

		jobs, err = job.NewManager(pool, log, jobOpts...)
		if err != nil {
			pool.Close()
			return err
		}
		resOpts = append(resOpts, reservation.WithEnqueuer(jobs))
		checks = append(checks, internal.WithReadinessCheck("jobs", job.Healthcheck(jobs)))
	}
	reservations := reservation.NewService(pool, resOpts...)

	loginLimit := middlewares.NewRateLimiter(cfg.RateLimit.LoginPerMinute, cfg.RateLimit.LoginBurst, 10*time.Minute)
	submitLimit := middlewares.NewRateLimiter(cfg.RateLimit.SubmitPerMinute, cfg.RateLimit.SubmitBurst, 10*time.Minute)

	opts := []internal.Option{
		internal.WithLogger(log),
		internal.WithCookies(cookie.New(cookie.WithSecure(cfg.App.Production()))),
		internal.WithHTTPMiddleware(middleware.RealIP),
		internal.WithMiddleware(
			middlewares.RequestID(),
			middlewares.Recover(),
			middlewares.RequestLog(),
			middlewares.Timeout(cfg.App.RequestTimeout),
			middlewares.AdminGate(auth, middlewares.WithDenylist(denylist)),
		),
		internal.WithErrorHandler(handlers.ErrorHandler),
		internal.WithNotFoundHandler(handlers.NotFound),
		internal.WithMethodNotAllowedHandler(handlers.MethodNotAllowed),
		internal.WithHandlers(
			handlers.NewAuth(auth, denylist, loginLimit.Middleware()),
			handlers.NewPages(auth, denylist, queries, loginLimit.Middleware()),
			handlers.NewCatalog(queries, public),
			handlers.NewAdminDogs(listings, queries, public),
			handlers.NewTestimonials(queries, public, submitLimit.Middleware()),
			handlers.NewReservations(reservations, public, submitLimit.Middleware()),
		),
	}
	app := internal.New(append(opts, checks...)...)

	runOpts := []internal.RunOption{internal.ShutdownTimeout(cfg.App.ShutdownTimeout)}
	if jobs != nil {
		runOpts = append(runOpts,
			// River stops hard when its start context ends; shutdown goes
			// through Stop instead.
			internal.StartupHook(func(ctx context.Context) error {
				return jobs.Start(context.WithoutCancel(ctx))
			}),
			internal.ShutdownHook(jobs.Stop),
		)
	}
	for _, fn := range shutdown {
		runOpts = append(runOpts, internal.ShutdownHook(fn))
	}
	runOpts = append(runOpts, internal.ShutdownHook(db.Shutdown(pool)))

	log.Info("kennel configured",
		slog.String("env", cfg.App.Env),
		slog.Bool("redis", cfg.Redis.Enabled()),
		slog.Bool("jobs", cfg.Jobs.Enabled),
	)
	return app.Run(cfg.App.Addr, runOpts...)
}

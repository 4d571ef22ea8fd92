package internal

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// RunOption configures App.Run.
type RunOption func(*runConfig)

type runConfig struct {
	baseCtx         context.Context
	logger          *slog.Logger
	address         string
	startupHooks    []hook
	shutdownHooks   []hook
	shutdownTimeout time.Duration
}

// ShutdownTimeout bounds server drain plus shutdown hooks. Default 30s.
func ShutdownTimeout(d time.Duration) RunOption {
	return func(c *runConfig) {
		if d > 0 {
			c.shutdownTimeout = d
		}
	}
}

// StartupHook runs before the listener accepts connections, in order.
// A failing hook aborts startup.
func StartupHook(fn func(context.Context) error) RunOption {
	return func(c *runConfig) {
		if fn != nil {
			c.startupHooks = append(c.startupHooks, fn)
		}
	}
}

// ShutdownHook runs after the server drained, in registration order.
//
//	internal.ShutdownHook(db.Shutdown(pool))
func ShutdownHook(fn func(context.Context) error) RunOption {
	return func(c *runConfig) {
		if fn != nil {
			c.shutdownHooks = append(c.shutdownHooks, fn)
		}
	}
}

// WithContext replaces the base context used for signal handling.
func WithContext(ctx context.Context) RunOption {
	return func(c *runConfig) {
		if ctx != nil {
			c.baseCtx = ctx
		}
	}
}

func runServer(handler http.Handler, cfg runConfig) error {
	if cfg.address == "" {
		cfg.address = ":8080"
	}
	if cfg.baseCtx == nil {
		cfg.baseCtx = context.Background()
	}
	log := cfg.logger

	server := &http.Server{
		Addr:              cfg.address,
		Handler:           handler,
		ReadTimeout:       defaultReadTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		MaxHeaderBytes:    defaultMaxHeaderBytes,
		ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelWarn),
	}

	ctx, cancel := signal.NotifyContext(cfg.baseCtx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	for _, h := range cfg.startupHooks {
		if err := h(ctx); err != nil {
			return err
		}
	}

	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", slog.String("address", ln.Addr().String()))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.shutdownTimeout)
	defer shutdownCancel()

	var errs []error
	if err := server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	for _, h := range cfg.shutdownHooks {
		if err := h(shutdownCtx); err != nil {
			errs = append(errs, err)
			log.Error("shutdown hook failed", slog.Any("error", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	log.Info("shutdown completed")
	return nil
}

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/kennel/pkg/db"
	"github.com/dmitrymomot/kennel/pkg/logger"
	"github.com/dmitrymomot/kennel/pkg/mailer/resend"
	"github.com/dmitrymomot/kennel/pkg/redis"
	"github.com/dmitrymomot/kennel/pkg/storage"
)

type AppConfig struct {
	Addr    string `env:"ADDR" envDefault:":8080"`
	Env     string `env:"APP_ENV" envDefault:"development"`
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	// AdminPasscode is both the login passcode and the token signing key.
	// Left empty, admin login answers 500 server_misconfigured.
	AdminPasscode string `env:"ADMIN_PASSCODE"`
	AdminEmail    string `env:"ADMIN_EMAIL"`

	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	PublicCacheTTL  time.Duration `env:"PUBLIC_CACHE_TTL" envDefault:"5m"`
}

func (c AppConfig) Production() bool { return c.Env == "production" }

type RateLimitConfig struct {
	LoginPerMinute  float64 `env:"RATE_LOGIN_PER_MINUTE" envDefault:"10"`
	LoginBurst      int     `env:"RATE_LOGIN_BURST" envDefault:"5"`
	SubmitPerMinute float64 `env:"RATE_SUBMIT_PER_MINUTE" envDefault:"6"`
	SubmitBurst     int     `env:"RATE_SUBMIT_BURST" envDefault:"3"`
}

type JobsConfig struct {
	Enabled     bool          `env:"JOBS_ENABLED" envDefault:"true"`
	OrphanSweep bool          `env:"JOBS_ORPHAN_SWEEP" envDefault:"true"`
	OrphanGrace time.Duration `env:"JOBS_ORPHAN_GRACE" envDefault:"1h"`
}

type Config struct {
	App       AppConfig
	Log       logger.Config
	DB        db.Config
	Storage   storage.Config
	Redis     redis.Config
	Resend    resend.Config
	RateLimit RateLimitConfig
	Jobs      JobsConfig
}

// loadConfig reads an optional .env file, then the process environment.
// Variables already set in the environment win over .env.
func loadConfig(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

package db

import "errors"

var (
	ErrParseConfig       = errors.New("db: failed to parse database configuration")
	ErrConnect           = errors.New("db: failed to open database connection")
	ErrHealthcheckFailed = errors.New("db: healthcheck failed")
	ErrMigrate           = errors.New("db: failed to apply migrations")
)

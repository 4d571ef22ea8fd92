// Package db wraps pgxpool with startup retries, goose migrations and
// transaction helpers.
//
//	pool, err := db.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	if err := db.Migrate(ctx, pool, migrations.FS, cfg.MigrationsTable, log); err != nil {
//		return err
//	}
//
// Environment:
//
//	DATABASE_URL                - PostgreSQL connection URL (required)
//	DATABASE_MIGRATIONS_TABLE   - goose version table (default: schema_migrations)
//	DATABASE_MAX_CONNS          - pool size (default: 10)
//	DATABASE_RETRY_ATTEMPTS     - connect attempts at startup (default: 3)
package db

// Package migrations embeds kennel's goose SQL migrations.
package migrations

import "embed"

// FS holds the migration files at its root, as pkg/db.Migrate expects.
//
//go:embed *.sql
var FS embed.FS

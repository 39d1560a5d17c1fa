// Package migrations embeds the SQL migration files for the chunk store.
package migrations

import "embed"

// FS holds every migration file embedded at compile time. Each
// *.up.sql file records its own version in schema_migrations.
//
//go:embed *.sql
var FS embed.FS

package migrations

import "embed"

// FS contains embedded SQLite migrations for health-tracking storage.
//
//go:embed *.sql
var FS embed.FS

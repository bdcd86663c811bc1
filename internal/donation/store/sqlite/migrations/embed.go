package migrations

import "embed"

// FS contains embedded SQLite migrations for donation storage.
//
//go:embed *.sql
var FS embed.FS

package migrations

import "embed"

// FS contains embedded PostgreSQL migrations for donation storage.
//
//go:embed *.sql
var FS embed.FS

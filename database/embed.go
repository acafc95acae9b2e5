package database

import "embed"

// EmbeddedMigrations holds migrations/*.sql. Use Migrations for a view
// rooted at the directory.
//
//go:embed migrations/*.sql
var EmbeddedMigrations embed.FS

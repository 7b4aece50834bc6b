package catalog

import "embed"

// MigrationsFS embeds the golang-migrate source tree for the device catalog
// schema (spec §4.4).
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS

// Package migrations embeds the schema for each supported driver.
package migrations

import "embed"

// FS holds one directory of ordered .sql files per driver.
//
//go:embed mysql/*.sql sqlite/*.sql
var FS embed.FS

// Package migrations embeds SQL migration files.
package migrations

import "embed"

// PostgresFS contains the license_keys schema migrations.
// Files follow {version}_{name}_up.sql / {version}_{name}_down.sql.
//
//go:embed *.sql
var PostgresFS embed.FS

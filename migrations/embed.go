// Package migrations embeds the SQL schema migrations for each supported
// database backend. Files are named NNN_description.sql and applied in order.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS

// Package migrations embeds the SQL schema migrations so binaries can
// migrate without the directory on disk.
package migrations

import "embed"

// FS holds every NNNNNN_name.{up,down}.sql file
//
//go:embed *.sql
var FS embed.FS

// Package migrations embeds the SQL schema migrations so the binaries do not
// depend on the working directory.
package migrations

import "embed"

// FS holds the *.up.sql and *.down.sql files
//
//go:embed *.sql
var FS embed.FS

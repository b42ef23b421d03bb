// Package migrations embeds the SQL schema so the server can migrate the
// database at boot without shipping loose files.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

// Package migrations embeds the SQL schema migrations so the server binary
// can bring the database up to date at startup without shipping files
// alongside it.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

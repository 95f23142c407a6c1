// Package migrations embeds the PostgreSQL schema of the note store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

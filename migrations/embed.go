// Package migrations embeds the SQL schema files so the server binary can
// bootstrap its own database without external tooling.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

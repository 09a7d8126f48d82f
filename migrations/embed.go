// Package migrations embeds the goose SQL migrations so they can be applied
// at startup and inside integration tests without a copy of the source tree.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

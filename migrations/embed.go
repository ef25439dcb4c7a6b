// Package migrations embeds the ordered SQL files applied at startup.
// Migrations are forward-only; fixing a mistake means adding a new file,
// never editing an applied one.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS

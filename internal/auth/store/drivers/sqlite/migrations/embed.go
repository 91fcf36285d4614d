package migrations

import "embed"

// Migrations holds the golang-migrate up/down scripts compiled into the
// binary.
//
//go:embed *.sql
var Migrations embed.FS

// Package migrations compiles the schema for both backends into the
// binary and applies it in lexical order at startup.
package migrations

import "embed"

// PostgresFS holds the wallet, settings and position table migrations.
//
//go:embed postgres/*.sql
var PostgresFS embed.FS

// ClickhouseFS holds the executed-trade log migrations.
//
//go:embed clickhouse/*.sql
var ClickhouseFS embed.FS

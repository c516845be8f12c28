/*
Package migrations embeds the database schema migrations for both supported
drivers. SQLite and PostgreSQL are close enough for most of our schema, but
not identical (SERIAL vs AUTOINCREMENT, boolean affinity, timestamp types),
so each driver keeps its own copy of every migration file.

The migration runner in internal/core/db selects the right set at runtime
from the connection's driver name and applies files in lexical order, so
new migrations must sort after existing ones (002_..., 003_..., etc.) and
must be added to both directories.
*/
package migrations

import "embed"

// SqliteMigrations contains schema migrations for SQLite databases.
//
//go:embed sqlite/*.sql
var SqliteMigrations embed.FS

// PostgresMigrations contains schema migrations for PostgreSQL databases.
//
//go:embed postgres/*.sql
var PostgresMigrations embed.FS

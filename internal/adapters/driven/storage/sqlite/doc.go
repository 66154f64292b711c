// Package sqlite provides a read-only SQLite implementation of the asset catalog.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation onto signage players. The database is
// opened with mode=ro so the catalog can never be modified by a migration.
//
// # Schema
//
// The adapter reads the single assets table of the player:
//
//	asset_id, name, uri, start_date, end_date, duration, mimetype,
//	is_enabled, is_processing, nocache, play_order
//
// # Data Location
//
// By default, the database is stored at ~/.screenly/screenly.db
package sqlite

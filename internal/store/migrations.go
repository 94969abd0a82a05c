package store

import "database/sql"

// Migration represents a single schema migration step.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

// migrations is the ordered list of all schema migrations.
// Append new migrations to the end with incrementing Version numbers.
var migrations = []Migration{
	{
		Version:     1,
		Description: "initial schema",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS statements (
    id TEXT PRIMARY KEY,
    user TEXT NOT NULL,
    version INTEGER NOT NULL,
    text TEXT NOT NULL,
    overall REAL NOT NULL,
    grade TEXT NOT NULL,
    report TEXT NOT NULL,
    created_at TEXT NOT NULL,
    UNIQUE (user, version)
);`)
			return err
		},
	},
	{
		Version:     2,
		Description: "target and length columns",
		Up: func(tx *sql.Tx) error {
			for _, stmt := range []string{
				"ALTER TABLE statements ADD COLUMN university TEXT NOT NULL DEFAULT ''",
				"ALTER TABLE statements ADD COLUMN course TEXT NOT NULL DEFAULT ''",
				"ALTER TABLE statements ADD COLUMN chars INTEGER NOT NULL DEFAULT 0",
			} {
				if _, err := tx.Exec(stmt); err != nil {
					return err
				}
			}
			return nil
		},
	},
}

func latestVersion() int {
	if len(migrations) == 0 {
		return 0
	}
	return migrations[len(migrations)-1].Version
}

package storage

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Migrate runs all database migrations
func Migrate(db *sqlx.DB) error {
	migrations := []string{
		createKVTable,
		createRunsTable,
		createIndexes,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	// Columns added after the first release
	if err := ensureColumn(db, "plugin_runs", "duration_ms",
		"ALTER TABLE plugin_runs ADD COLUMN duration_ms INTEGER NOT NULL DEFAULT 0"); err != nil {
		return fmt.Errorf("duration migration failed: %w", err)
	}

	return nil
}

// ensureColumn adds a column to table if it does not exist
func ensureColumn(db *sqlx.DB, table, column, alterSQL string) error {
	var columnExists int
	err := db.Get(&columnExists,
		fmt.Sprintf("SELECT COUNT(*) FROM pragma_table_info('%s') WHERE name=?", table), column)
	if err != nil {
		return fmt.Errorf("failed to check for %s column: %w", column, err)
	}

	if columnExists == 0 {
		if _, err := db.Exec(alterSQL); err != nil {
			// Ignore "duplicate column" errors
			if !strings.Contains(err.Error(), "duplicate column") {
				return fmt.Errorf("failed to add %s column: %w", column, err)
			}
		}
	}
	return nil
}

const createKVTable = `
CREATE TABLE IF NOT EXISTS kv_entries (
	namespace TEXT NOT NULL,
	key TEXT NOT NULL,
	value TEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (namespace, key)
);
`

const createRunsTable = `
CREATE TABLE IF NOT EXISTS plugin_runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	plugin TEXT NOT NULL,
	action TEXT NOT NULL DEFAULT '',
	success BOOLEAN NOT NULL DEFAULT 1,
	message TEXT NOT NULL DEFAULT '',
	timestamp TIMESTAMP NOT NULL
);
`

const createIndexes = `
CREATE INDEX IF NOT EXISTS idx_plugin_runs_plugin_time ON plugin_runs(plugin, timestamp);
CREATE INDEX IF NOT EXISTS idx_plugin_runs_timestamp ON plugin_runs(timestamp);
`

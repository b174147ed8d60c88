package db

import (
	"database/sql"
	"fmt"
	"os"
)

const recordsTableDDL = `
CREATE TABLE IF NOT EXISTS records (
    id INTEGER PRIMARY KEY,
    seq INTEGER NOT NULL,
    name TEXT NOT NULL,
    parent_id INTEGER,
    size INTEGER NOT NULL
);
`

const categoriesTableDDL = `
CREATE TABLE IF NOT EXISTS record_categories (
    record_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    category TEXT NOT NULL,
    PRIMARY KEY (record_id, position)
);
`

const rollupsTableDDL = `
CREATE TABLE IF NOT EXISTS rollups (
    record_id INTEGER PRIMARY KEY,
    total_size INTEGER NOT NULL,
    descendants INTEGER NOT NULL,
    depth INTEGER NOT NULL
);
`

const loadMetaTableDDL = `
CREATE TABLE IF NOT EXISTS load_meta (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    load_id TEXT NOT NULL,
    source TEXT NOT NULL,
    start_time INTEGER NOT NULL,
    end_time INTEGER,
    record_count INTEGER DEFAULT 0,
    leaf_count INTEGER DEFAULT 0,
    category_count INTEGER DEFAULT 0,
    total_size INTEGER DEFAULT 0,
    largest_id INTEGER,
    largest_size INTEGER DEFAULT 0
);
`

const recordsSeqIndexDDL = `CREATE UNIQUE INDEX IF NOT EXISTS idx_records_seq ON records(seq);`
const recordsParentIndexDDL = `CREATE INDEX IF NOT EXISTS idx_records_parent ON records(parent_id);`
const categoriesNameIndexDDL = `CREATE INDEX IF NOT EXISTS idx_categories_name ON record_categories(category);`
const rollupsSizeIndexDDL = `CREATE INDEX IF NOT EXISTS idx_rollups_size ON rollups(total_size DESC);`

// InitSchema creates all tables in the database.
func InitSchema(db *sql.DB) error {
	ddls := []string{
		recordsTableDDL,
		categoriesTableDDL,
		rollupsTableDDL,
		loadMetaTableDDL,
	}

	for _, ddl := range ddls {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("failed to execute DDL: %w", err)
		}
	}

	return nil
}

// ApplyWritePragmas configures SQLite for bulk ingestion.
func ApplyWritePragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = -64000", // 64MB cache
		"PRAGMA temp_store = MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to apply pragma %q: %w", pragma, err)
		}
	}

	return nil
}

// ApplyReadPragmas configures SQLite for read-only sessions.
func ApplyReadPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA cache_size = -64000",
		"PRAGMA temp_store = MEMORY",
		"PRAGMA query_only = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to apply pragma %q: %w", pragma, err)
		}
	}

	return nil
}

// ApplyIndexPragmas configures SQLite for index builds.
// When diskTemp is true, temp files are stored on disk to reduce RAM usage.
func ApplyIndexPragmas(db *sql.DB, diskTemp bool, tmpDir string) error {
	if tmpDir != "" {
		if err := os.MkdirAll(tmpDir, 0755); err != nil {
			return fmt.Errorf("failed to create sqlite temp dir: %w", err)
		}
		if err := os.Setenv("SQLITE_TMPDIR", tmpDir); err != nil {
			return fmt.Errorf("failed to set SQLITE_TMPDIR: %w", err)
		}
	}

	pragma := "PRAGMA temp_store = MEMORY"
	if diskTemp {
		pragma = "PRAGMA temp_store = FILE"
	}
	if _, err := db.Exec(pragma); err != nil {
		return fmt.Errorf("failed to set temp_store: %w", err)
	}

	return nil
}

// BuildIndexes creates indexes after the initial load.
func BuildIndexes(db *sql.DB) error {
	indexes := []string{
		recordsSeqIndexDDL,
		recordsParentIndexDDL,
		categoriesNameIndexDDL,
		rollupsSizeIndexDDL,
	}

	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// Finalize prepares the database for read-only access.
func Finalize(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA optimize"); err != nil {
		return fmt.Errorf("failed to optimize: %w", err)
	}

	// WAL sidecar files do not survive the rename into place
	if _, err := db.Exec("PRAGMA journal_mode = DELETE"); err != nil {
		return fmt.Errorf("failed to set journal mode: %w", err)
	}

	return nil
}

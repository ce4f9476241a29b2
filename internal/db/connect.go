package db

import (
	"database/sql"
	"fmt"
	"path/filepath"

	"task_tracker/internal/logger"

	_ "modernc.org/sqlite"
)

// Open opens the SQLite database file and ensures the tasks schema exists.
// Foreign-key enforcement stays on as a defensive default even though the
// schema has a single table.
func Open(path string) (*sql.DB, error) {
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := sqlDB.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := ensureSchema(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	logger.Info("database connected", "path", path)
	return sqlDB, nil
}

// MustOpen opens the database or exits the process.
func MustOpen(path string) *sql.DB {
	sqlDB, err := Open(path)
	if err != nil {
		logger.Fatal("failed to open database", "error", err)
	}
	return sqlDB
}

// ensureSchema creates the tasks table and backfills columns missing from
// files created by older builds, so queries never need a legacy fallback.
func ensureSchema(sqlDB *sql.DB) error {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		description TEXT NOT NULL,
		is_completed INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL DEFAULT 0
	)`)
	if err != nil {
		return fmt.Errorf("create tasks table: %w", err)
	}

	cols, err := tableColumns(sqlDB, "tasks")
	if err != nil {
		return err
	}

	if !cols["is_completed"] {
		if _, err := sqlDB.Exec(`ALTER TABLE tasks ADD COLUMN is_completed INTEGER NOT NULL DEFAULT 0`); err != nil {
			return fmt.Errorf("add is_completed column: %w", err)
		}
		logger.Info("added is_completed column to legacy schema")
	}
	if !cols["created_at"] {
		if _, err := sqlDB.Exec(`ALTER TABLE tasks ADD COLUMN created_at INTEGER NOT NULL DEFAULT 0`); err != nil {
			return fmt.Errorf("add created_at column: %w", err)
		}
		logger.Info("added created_at column to legacy schema")
	}
	return nil
}

func tableColumns(sqlDB *sql.DB, table string) (map[string]bool, error) {
	rows, err := sqlDB.Query(`SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, fmt.Errorf("read table info: %w", err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan column name: %w", err)
		}
		cols[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate table info: %w", err)
	}
	return cols, nil
}

package db

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"weekly-tracker/pkg/logger"
)

const memoryPath = ":memory:"

// NewSQLite opens (or creates) the database at path with foreign keys and
// WAL enabled on every connection, then applies pending migrations. An
// in-memory database is pinned to a single connection.
func NewSQLite(path string, log logger.Logger) (*sqlx.DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = memoryPath
	}

	if path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == memoryPath {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}

	if err := MigrateSQLite(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}

	log.Info("db: connected", "driver", "sqlite", "path", path)
	return db, nil
}

func sqliteDSN(path string) string {
	params := url.Values{}
	params.Add("_pragma", "foreign_keys(1)")
	params.Add("_pragma", "busy_timeout(5000)")
	if path != memoryPath {
		params.Add("_pragma", "journal_mode(WAL)")
	}
	return path + "?" + params.Encode()
}

type sqliteMigration struct {
	version int
	sql     string
}

// sqliteMigrations must stay ordered with sequential versions.
var sqliteMigrations = []sqliteMigration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS weeks (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	week_start_date TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS weekly_items (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	week_id     INTEGER NOT NULL REFERENCES weeks(id) ON DELETE CASCADE,
	name        TEXT NOT NULL,
	category    TEXT,
	order_index INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_weekly_items_week_id ON weekly_items(week_id);

CREATE TABLE IF NOT EXISTS daily_checks (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	weekly_item_id INTEGER NOT NULL REFERENCES weekly_items(id) ON DELETE CASCADE,
	date           TEXT NOT NULL,
	status         INTEGER NOT NULL DEFAULT 0 CHECK (status BETWEEN 0 AND 2),
	minutes        INTEGER CHECK (minutes >= 0),
	note           TEXT,
	CONSTRAINT uq_weekly_item_date UNIQUE (weekly_item_id, date)
);
`,
	},
}

// MigrateSQLite applies the migrations above the recorded schema version.
func MigrateSQLite(db *sqlx.DB) error {
	if _, err := db.Exec("CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)"); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	var current int
	if err := db.Get(&current, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, m := range sqliteMigrations {
		if m.version <= current {
			continue
		}

		tx, err := db.Beginx()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration v%d: %w", m.version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration v%d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}

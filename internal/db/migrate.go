package db

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"weekly-tracker/pkg/logger"
)

//go:embed migrations/postgres/*.sql
var postgresMigrations embed.FS

const postgresMigrationsDir = "migrations/postgres"

type sqlMigration struct {
	name string
	sql  string
}

// Migrate applies every embedded postgres migration not yet recorded in
// schema_migrations, in filename order, each in its own transaction.
func Migrate(db *gorm.DB, log logger.Logger) error {
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`).Error; err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	migrations, err := loadMigrations(postgresMigrations, postgresMigrationsDir)
	if err != nil {
		return err
	}

	var names []string
	if err := db.Raw("SELECT filename FROM schema_migrations").Scan(&names).Error; err != nil {
		return fmt.Errorf("read schema_migrations: %w", err)
	}
	applied := make(map[string]struct{}, len(names))
	for _, name := range names {
		applied[name] = struct{}{}
	}

	pending := 0
	for _, m := range migrations {
		if _, ok := applied[m.name]; ok {
			continue
		}
		pending++

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(m.sql).Error; err != nil {
				return err
			}
			return tx.Exec("INSERT INTO schema_migrations (filename, applied_at) VALUES (?, ?)", m.name, time.Now().UTC()).Error
		})
		if err != nil {
			return fmt.Errorf("apply migration %s: %w", m.name, err)
		}
		log.Info("db.migrate: applied", "file", m.name)
	}

	if pending == 0 {
		log.Debug("db.migrate: schema up to date", "migrations", len(migrations))
	}
	return nil
}

// loadMigrations reads the non-empty .sql files of dir sorted by name.
func loadMigrations(fsys fs.FS, dir string) ([]sqlMigration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	var migrations []sqlMigration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		contents, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		if sql := strings.TrimSpace(string(contents)); sql != "" {
			migrations = append(migrations, sqlMigration{name: entry.Name(), sql: sql})
		}
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].name < migrations[j].name
	})
	return migrations, nil
}

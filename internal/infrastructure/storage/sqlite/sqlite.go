// Package sqlite persists terminal client state in a local SQLite file.
package sqlite

import (
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/exp/slog"

	"cattus/internal/infrastructure/migration"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Storage struct {
	db  *sql.DB
	log *slog.Logger
}

// Open opens (creating if needed) the database at path and applies the
// embedded migrations through engine.
func Open(path string, log *slog.Logger, engine migration.MigrationEngine) (*Storage, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия базы данных: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ошибка открытия базы данных: %w", err)
	}

	if err := migration.NewMigration(migrations, "migrations", "sqlite3://"+path, engine).Up(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ошибка применения миграций: %w", err)
	}

	return &Storage{
		db:  db,
		log: log.With(slog.String("component", "sqlite")),
	}, nil
}

func (s *Storage) DB() *sql.DB {
	return s.db
}

func (s *Storage) Close() error {
	return s.db.Close()
}

package migration

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	// Blank import required for SQLite driver registration for migrations
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Migrator is the part of migrate.Migrate used here.
type Migrator interface {
	Up() error
	Close() (error, error)
}

// MigrationEngine создает мигратор; в тестах подменяется.
type MigrationEngine func(source fs.FS, dir, databaseURL string) (Migrator, error)

type Migration struct {
	source      fs.FS
	dir         string
	databaseURL string
	engine      MigrationEngine
}

// NewMigration prepares the migrations found in dir of source for
// databaseURL, e.g. "sqlite3:///home/u/.cattus/state.db".
func NewMigration(source fs.FS, dir, databaseURL string, engine MigrationEngine) *Migration {
	return &Migration{
		source:      source,
		dir:         dir,
		databaseURL: databaseURL,
		engine:      engine,
	}
}

// DefaultEngine читает миграции из встроенной ФС.
func DefaultEngine(source fs.FS, dir, databaseURL string) (Migrator, error) {
	d, err := iofs.New(source, dir)
	if err != nil {
		return nil, fmt.Errorf("open migrations: %w", err)
	}
	return migrate.NewWithSourceInstance("iofs", d, databaseURL)
}

func (mg *Migration) Up() (err error) {
	m, err := mg.engine(mg.source, mg.dir, mg.databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		serr, dberr := m.Close()
		if serr != nil {
			serr = fmt.Errorf("migration source error: %w", serr)
		}
		if dberr != nil {
			dberr = fmt.Errorf("migration database error: %w", dberr)
		}
		err = errors.Join(err, serr, dberr)
	}()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up: %w", err)
	}
	return nil
}

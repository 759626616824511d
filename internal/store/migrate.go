package store

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

var migrated sync.Map // sqlite path -> *migrateResult

type migrateResult struct {
	once sync.Once
	err  error
}

func migrateOnce(path string) error {
	v, _ := migrated.LoadOrStore(path, &migrateResult{})
	r := v.(*migrateResult)
	r.once.Do(func() { r.err = runMigrations(path) })
	if r.err != nil {
		// Let a later open retry (e.g. after the directory was fixed).
		migrated.CompareAndDelete(path, r)
	}
	return r.err
}

// runMigrations applies every embedded up migration. It uses its own
// connection because closing the migrator closes the database.
func runMigrations(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("migrate: %w", err)
	}
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("migrate: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("migrate: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

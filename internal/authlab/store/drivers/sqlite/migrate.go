package sqlite

import (
	"errors"
	"fmt"

	"github.com/aussiebroadwan/authlab/internal/authlab/store/drivers/sqlite/migrations"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// migrator binds golang-migrate to the open handle. Its Close would close
// s.db as well, so callers drop it instead.
func (s *Store) migrator() (*migrate.Migrate, error) {
	driver, err := migratesqlite.WithInstance(s.db, &migratesqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("migrate driver: %w", err)
	}
	src, err := iofs.New(migrations.Migrations, ".")
	if err != nil {
		return nil, fmt.Errorf("migrate source: %w", err)
	}
	return migrate.NewWithInstance("iofs", src, "sqlite", driver)
}

// ApplyMigrations brings the file up to the latest embedded schema. A file
// that is already current is left untouched.
func (s *Store) ApplyMigrations() error {
	m, err := s.migrator()
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// SchemaVersion reports the applied migration version. ok is false for a
// file that was never migrated. Like ApplyMigrations it creates the version
// table when missing, so read-only commands do not call it.
func (s *Store) SchemaVersion() (version uint, dirty, ok bool, err error) {
	m, err := s.migrator()
	if err != nil {
		return 0, false, false, err
	}
	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, false, nil
	}
	if err != nil {
		return 0, false, false, err
	}
	return version, dirty, true, nil
}

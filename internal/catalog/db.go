// Package catalog implements the device catalog (spec §4.4): a SQLite-backed
// table keyed by product_id/software_version ranges, yielding the
// protocol/datatype tuple a device's capability negotiation should assume
// before (or absent) an A001 Protocol Array reply.
package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

// DB wraps the catalog's SQLite connection.
type DB struct {
	*sql.DB
}

// Open opens (creating if necessary) the SQLite database at path and applies
// the embedded migrations. Use ":memory:" for an ephemeral catalog, as tests
// do.
func Open(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	db := &DB{sqlDB}
	if err := db.migrateUp(MigrationsFS); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// migrateUp runs all pending migrations up to the latest version.
func (db *DB) migrateUp(migrationsFS fs.FS) error {
	m, err := db.newMigrate(migrationsFS)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("catalog: migration up failed: %w", err)
	}
	return nil
}

// newMigrate builds a migrate.Migrate bound to db's connection and the
// embedded migration source. The returned instance is intentionally not
// closed: the sqlite driver's Close() would close the shared *sql.DB, which
// DB owns and closes itself.
func (db *DB) newMigrate(migrationsFS fs.FS) (*migrate.Migrate, error) {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("catalog: iofs source: %w", err)
	}
	dbDriver, err := sqlite.WithInstance(db.DB, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("catalog: sqlite driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", dbDriver)
	if err != nil {
		return nil, fmt.Errorf("catalog: migrate instance: %w", err)
	}
	m.Log = migrateLogger{}
	return m, nil
}

type migrateLogger struct{}

func (migrateLogger) Printf(format string, v ...interface{}) { log.Printf("[catalog migrate] "+format, v...) }
func (migrateLogger) Verbose() bool                          { return false }

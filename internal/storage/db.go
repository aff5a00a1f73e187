// Package storage implements the persistence boundary behind the store:
// a pure-Go SQLite driver for the default on-device style deployment and a
// PostgreSQL driver for self-hosted multi-device setups. Only the profile
// and the completed workout history are persisted; battle history and
// in-flight sessions live in memory only.
package storage

import (
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations applies all pending migrations from the given directory.
// databaseURL carries the driver scheme (sqlite:// or postgres://).
func RunMigrations(databaseURL, migrationsPath string) error {
	m, err := migrate.New("file://"+migrationsPath, databaseURL)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

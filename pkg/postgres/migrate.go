package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// MigrateUp applies all pending migrations from sourceURL (for example
// "file://migrations") against the database. An already up-to-date schema is
// not an error.
func MigrateUp(sourceURL string, cfg Config) error {
	m, err := migrate.New(sourceURL, cfg.DSN())
	if err != nil {
		return fmt.Errorf("postgres: open migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("postgres: apply migrations: %w", err)
	}
	return nil
}

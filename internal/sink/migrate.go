package sink

import (
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// ApplyMigrations runs every pending migration in migrationsDir
// against dsn, in the vanducng-goclaw example's file-source idiom
// (migrate.New("file://<dir>", dsn)) rather than the teacher's own
// hand-applied schema, since golang-migrate/migrate/v4 is the
// dedicated tool the pack reaches for.
func ApplyMigrations(dsn, migrationsDir string) error {
	m, err := migrate.New("file://"+migrationsDir, dsn)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

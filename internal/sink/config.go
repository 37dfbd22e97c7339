package sink

import "time"

// Config configures the Persistence Sink's connection pool and flush
// cadence, mirroring the teacher's storage.CockroachConfig.
type Config struct {
	DSN             string
	MigrationsDir   string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	FlushInterval   time.Duration
}

// DefaultConfig mirrors storage.DefaultCockroachConfig's pool sizing,
// plus a 5s flush tick for fallback retries.
func DefaultConfig(dsn, migrationsDir string) Config {
	return Config{
		DSN:             dsn,
		MigrationsDir:   migrationsDir,
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		FlushInterval:   5 * time.Second,
	}
}

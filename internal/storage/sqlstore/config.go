package sqlstore

import "time"

// Supported database/sql driver names
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

// Config holds database connection settings
type Config struct {
	// Driver is DriverSQLite or DriverPostgres
	Driver string
	// DSN is a file path for SQLite or a connection string for Postgres
	DSN string

	// Pool settings, ignored for SQLite which always uses one connection
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns a SQLite configuration writing to kmapgame.db
func DefaultConfig() Config {
	return Config{
		Driver:          DriverSQLite,
		DSN:             "kmapgame.db",
		MaxOpenConns:    25,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

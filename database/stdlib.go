package database

import (
	"database/sql"
	"fmt"
)

// openStdlibConnection opens a database/sql connection for golang-migrate,
// which requires the stdlib driver rather than a pgx pool
func openStdlibConnection(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open stdlib connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

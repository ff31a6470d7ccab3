package store

import (
	"database/sql"
	"fmt"

	"github.com/praetorian-inc/uaparser/pkg/types"
)

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// CreateSchema creates the database schema if it doesn't exist.
func CreateSchema(db *sql.DB) error {
	if err := createSchemaVersionTable(db); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	if err := createObservationsTable(db); err != nil {
		return fmt.Errorf("creating observations table: %w", err)
	}

	return nil
}

func createSchemaVersionTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Insert version if table is empty
	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&count)
	if err != nil {
		return err
	}

	if count == 0 {
		_, err = db.Exec("INSERT INTO schema_version (version) VALUES (?)", SchemaVersion)
		return err
	}

	return nil
}

// The family columns duplicate client_json so reports can group in SQL.
func createObservationsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS observations (
			user_agent TEXT PRIMARY KEY NOT NULL,
			occurrences INTEGER NOT NULL,
			ua_family TEXT NOT NULL,
			os_family TEXT NOT NULL,
			device_family TEXT NOT NULL,
			client_json TEXT NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	for _, column := range []string{"ua_family", "os_family", "device_family"} {
		_, err = db.Exec(fmt.Sprintf(
			"CREATE INDEX IF NOT EXISTS idx_observations_%s ON observations(%s)", column, column))
		if err != nil {
			return err
		}
	}

	return nil
}

// familyColumn maps a family kind to its observations column.
func familyColumn(kind types.Kind) (string, error) {
	switch kind {
	case types.KindUserAgent:
		return "ua_family", nil
	case types.KindOS:
		return "os_family", nil
	case types.KindDevice:
		return "device_family", nil
	}
	return "", fmt.Errorf("unknown family kind %q", kind)
}

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/praetorian-inc/uaparser/pkg/types"
	_ "modernc.org/sqlite"
)

// driverName is the database/sql name registered by modernc.org/sqlite.
const driverName = "sqlite"

const upsertObservation = `
	INSERT INTO observations (user_agent, occurrences, ua_family, os_family, device_family, client_json)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(user_agent) DO UPDATE SET
		occurrences = occurrences + excluded.occurrences,
		ua_family = excluded.ua_family,
		os_family = excluded.os_family,
		device_family = excluded.device_family,
		client_json = excluded.client_json
`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a SQLite-based store.
// Use ":memory:" for a private in-memory database (useful for testing).
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Every connection to ":memory:" would see its own empty database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Initialize schema
	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// AddObservation records occurrences of a user-agent string.
func (s *SQLiteStore) AddObservation(o *types.Observation) error {
	if o == nil {
		return fmt.Errorf("observation is nil")
	}
	return insertObservation(s.db, o.UserAgent, occurrences(o), o.Client)
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertObservation(db execer, userAgent string, count int64, client types.Client) error {
	clientJSON, err := json.Marshal(client)
	if err != nil {
		return fmt.Errorf("marshaling client: %w", err)
	}

	_, err = db.Exec(upsertObservation,
		userAgent,
		count,
		client.UserAgent.Family,
		client.OS.Family,
		client.Device.Family,
		string(clientJSON),
	)
	if err != nil {
		return fmt.Errorf("inserting observation: %w", err)
	}
	return nil
}

// GetObservations returns all observations, most frequent first.
func (s *SQLiteStore) GetObservations() ([]*types.Observation, error) {
	rows, err := s.db.Query(`
		SELECT user_agent, occurrences, client_json
		FROM observations
		ORDER BY occurrences DESC, user_agent ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying observations: %w", err)
	}
	defer rows.Close()

	var observations []*types.Observation
	for rows.Next() {
		var o types.Observation
		var clientJSON string

		if err := rows.Scan(&o.UserAgent, &o.Count, &clientJSON); err != nil {
			return nil, fmt.Errorf("scanning observation: %w", err)
		}
		if err := json.Unmarshal([]byte(clientJSON), &o.Client); err != nil {
			return nil, fmt.Errorf("unmarshaling client: %w", err)
		}

		observations = append(observations, &o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating observations: %w", err)
	}

	return observations, nil
}

// FamilyCounts sums occurrences by family for kind.
func (s *SQLiteStore) FamilyCounts(kind types.Kind) ([]types.FamilyCount, error) {
	column, err := familyColumn(kind)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(fmt.Sprintf(`
		SELECT %[1]s, SUM(occurrences) AS total
		FROM observations
		GROUP BY %[1]s
		ORDER BY total DESC, %[1]s ASC
	`, column))
	if err != nil {
		return nil, fmt.Errorf("querying family counts: %w", err)
	}
	defer rows.Close()

	counts := []types.FamilyCount{}
	for rows.Next() {
		var fc types.FamilyCount
		if err := rows.Scan(&fc.Family, &fc.Count); err != nil {
			return nil, fmt.Errorf("scanning family count: %w", err)
		}
		counts = append(counts, fc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating family counts: %w", err)
	}

	return counts, nil
}

// Total returns the number of occurrences recorded.
func (s *SQLiteStore) Total() (int64, error) {
	var total int64
	err := s.db.QueryRow("SELECT COALESCE(SUM(occurrences), 0) FROM observations").Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("counting observations: %w", err)
	}
	return total, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

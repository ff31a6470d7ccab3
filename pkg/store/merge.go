package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/praetorian-inc/uaparser/pkg/types"
)

// MergeConfig configures the merge operation.
type MergeConfig struct {
	// SourcePaths are the database files to merge from.
	SourcePaths []string
	// DestPath is the destination database file.
	DestPath string
}

// MergeStats tracks merge operation statistics.
type MergeStats struct {
	ObservationsMerged int
	OccurrencesMerged  int64
	SourcesProcessed   int
}

// Merge combines multiple observation databases into one.
// Counts for the same user-agent string are summed; the last source's records win.
func Merge(cfg MergeConfig) (*MergeStats, error) {
	if len(cfg.SourcePaths) == 0 {
		return nil, fmt.Errorf("no source databases specified")
	}
	if cfg.DestPath == "" {
		return nil, fmt.Errorf("destination path is required")
	}

	// Open/create destination database
	destDB, err := sql.Open(driverName, cfg.DestPath)
	if err != nil {
		return nil, fmt.Errorf("opening destination database: %w", err)
	}
	defer destDB.Close()

	// Initialize schema on destination
	if err := CreateSchema(destDB); err != nil {
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	stats := &MergeStats{}

	for _, sourcePath := range cfg.SourcePaths {
		sourceStats, err := mergeFrom(destDB, sourcePath)
		if err != nil {
			return stats, fmt.Errorf("merging from %s: %w", sourcePath, err)
		}
		stats.ObservationsMerged += sourceStats.ObservationsMerged
		stats.OccurrencesMerged += sourceStats.OccurrencesMerged
		stats.SourcesProcessed++
	}

	return stats, nil
}

// mergeFrom copies observations from a source database to the destination.
func mergeFrom(destDB *sql.DB, sourcePath string) (*MergeStats, error) {
	sourceDB, err := sql.Open(driverName, sourcePath)
	if err != nil {
		return nil, fmt.Errorf("opening source database: %w", err)
	}
	defer sourceDB.Close()

	rows, err := sourceDB.Query("SELECT user_agent, occurrences, client_json FROM observations")
	if err != nil {
		return nil, fmt.Errorf("querying observations: %w", err)
	}
	defer rows.Close()

	// Start transaction for efficiency
	tx, err := destDB.Begin()
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	stats := &MergeStats{}
	for rows.Next() {
		var userAgent, clientJSON string
		var count int64
		if err := rows.Scan(&userAgent, &count, &clientJSON); err != nil {
			return nil, fmt.Errorf("scanning observation: %w", err)
		}

		var client types.Client
		if err := json.Unmarshal([]byte(clientJSON), &client); err != nil {
			return nil, fmt.Errorf("unmarshaling client for %q: %w", userAgent, err)
		}

		if err := insertObservation(tx, userAgent, count, client); err != nil {
			return nil, err
		}
		stats.ObservationsMerged++
		stats.OccurrencesMerged += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating observations: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return stats, nil
}

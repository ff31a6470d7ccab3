package store

import (
	"fmt"

	"github.com/praetorian-inc/uaparser/pkg/types"
)

// Store provides persistence for parse observations.
// This interface abstracts the underlying storage implementation,
// allowing for different backends.
type Store interface {
	// AddObservation records o.Count occurrences of o.UserAgent (at least one).
	// The stored records are replaced with o.Client.
	AddObservation(o *types.Observation) error

	// GetObservations returns every distinct user agent, most frequent first.
	GetObservations() ([]*types.Observation, error)

	// FamilyCounts sums occurrences by the family reported for kind,
	// most frequent first and ties by family name.
	FamilyCounts(kind types.Kind) ([]types.FamilyCount, error)

	// Total returns the number of occurrences recorded.
	Total() (int64, error)

	// Close closes the database connection.
	Close() error
}

// Config for store initialization.
type Config struct {
	// Path is the database file path.
	// Use ":memory:" for a process-local MemoryStore.
	Path string
}

// New creates a new Store.
// ":memory:" returns a MemoryStore; any other path opens SQLite.
func New(cfg Config) (Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	if cfg.Path == ":memory:" {
		return NewMemory(), nil
	}

	return NewSQLite(cfg.Path)
}

func occurrences(o *types.Observation) int64 {
	if o.Count < 1 {
		return 1
	}
	return o.Count
}

package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/praetorian-inc/uaparser/pkg/types"
)

// MemoryStore implements Store using in-memory data structures.
type MemoryStore struct {
	mu           sync.RWMutex
	observations map[string]*types.Observation // keyed by user-agent string
}

// NewMemory creates a new in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		observations: make(map[string]*types.Observation),
	}
}

// AddObservation records occurrences of a user-agent string.
func (m *MemoryStore) AddObservation(o *types.Observation) error {
	if o == nil {
		return fmt.Errorf("observation is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.observations[o.UserAgent]
	if !ok {
		m.observations[o.UserAgent] = &types.Observation{
			UserAgent: o.UserAgent,
			Client:    o.Client,
			Count:     occurrences(o),
		}
		return nil
	}

	existing.Client = o.Client
	existing.Count += occurrences(o)
	return nil
}

// GetObservations returns copies of all observations, most frequent first.
func (m *MemoryStore) GetObservations() ([]*types.Observation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*types.Observation, 0, len(m.observations))
	for _, o := range m.observations {
		cp := *o
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].UserAgent < result[j].UserAgent
	})
	return result, nil
}

// FamilyCounts sums occurrences by family for kind.
func (m *MemoryStore) FamilyCounts(kind types.Kind) ([]types.FamilyCount, error) {
	if _, err := familyColumn(kind); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	totals := make(map[string]int64)
	for _, o := range m.observations {
		totals[o.Client.FamilyOf(kind)] += o.Count
	}

	counts := make([]types.FamilyCount, 0, len(totals))
	for family, n := range totals {
		counts = append(counts, types.FamilyCount{Family: family, Count: n})
	}
	sortFamilyCounts(counts)
	return counts, nil
}

// Total returns the number of occurrences recorded.
func (m *MemoryStore) Total() (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var total int64
	for _, o := range m.observations {
		total += o.Count
	}
	return total, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}

func sortFamilyCounts(counts []types.FamilyCount) {
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Family < counts[j].Family
	})
}

package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/anchorrisk/anchorrisk-backend/internal/domain/household"
)

// MemoryHouseholdStore serves snapshots held in process. It backs local runs
// without Neo4j and the CLI, which loads households from a JSON fixture file.
type MemoryHouseholdStore struct {
	mu         sync.RWMutex
	households map[string]household.Snapshot
}

func NewMemoryHouseholdStore() *MemoryHouseholdStore {
	return &MemoryHouseholdStore{households: map[string]household.Snapshot{}}
}

// LoadFixtures reads a JSON array of snapshots, each with a household_id.
func LoadFixtures(path string) (*MemoryHouseholdStore, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	var snaps []household.Snapshot
	if err := json.Unmarshal(raw, &snaps); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	s := NewMemoryHouseholdStore()
	for _, snap := range snaps {
		if snap.HouseholdID == "" {
			return nil, fmt.Errorf("fixture without household_id: %w", household.ErrInvalidInput)
		}
		s.Put(snap)
	}
	return s, nil
}

func (s *MemoryHouseholdStore) Put(snap household.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.households[snap.HouseholdID] = household.Snapshot{
		HouseholdID: snap.HouseholdID,
		Members:     household.CloneMembers(snap.Members),
		Supports:    append([]household.SupportEdge(nil), snap.Supports...),
	}
}

func (s *MemoryHouseholdStore) FetchSnapshot(_ context.Context, householdID string) (*household.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.households[householdID]
	if !ok {
		return nil, fmt.Errorf("household %q: %w", householdID, household.ErrNotFound)
	}
	out := household.Snapshot{
		HouseholdID: snap.HouseholdID,
		Members:     household.CloneMembers(snap.Members),
		Supports:    append([]household.SupportEdge{}, snap.Supports...),
	}
	if out.Members == nil {
		out.Members = []household.Member{}
	}
	return &out, nil
}

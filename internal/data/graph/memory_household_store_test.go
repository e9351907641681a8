package graph

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/anchorrisk/anchorrisk-backend/internal/domain/household"
)

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := NewMemoryHouseholdStore()
	s.Put(household.Snapshot{
		HouseholdID: "h1",
		Members: []household.Member{
			{ID: "a", Role: household.RoleEarner, IncomeStability: household.Float(0.7)},
		},
	})

	snap, err := s.FetchSnapshot(context.Background(), "h1")
	if err != nil {
		t.Fatalf("FetchSnapshot: %v", err)
	}
	*snap.Members[0].IncomeStability = 0.1

	again, err := s.FetchSnapshot(context.Background(), "h1")
	if err != nil {
		t.Fatalf("FetchSnapshot: %v", err)
	}
	if got := again.Members[0].Stability(); got != 0.7 {
		t.Fatalf("stored member mutated: want=0.7 got=%v", got)
	}
	if again.Supports == nil {
		t.Fatalf("supports should be an empty slice, not nil")
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	_, err := NewMemoryHouseholdStore().FetchSnapshot(context.Background(), "missing")
	if !errors.Is(err, household.ErrNotFound) {
		t.Fatalf("want ErrNotFound got %v", err)
	}
}

func TestMemoryStoreEmptyHousehold(t *testing.T) {
	s := NewMemoryHouseholdStore()
	s.Put(household.Snapshot{HouseholdID: "empty"})
	snap, err := s.FetchSnapshot(context.Background(), "empty")
	if err != nil {
		t.Fatalf("FetchSnapshot: %v", err)
	}
	if snap.Members == nil || len(snap.Members) != 0 {
		t.Fatalf("members: want empty slice got %#v", snap.Members)
	}
}

func TestLoadFixtures(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "households.json")
	body := `[
	  {"household_id": "h1",
	   "members": [
	     {"id": "a", "role": "earner", "income_sources": [{"type": "job", "stability": 0.9, "volatility": 0.1, "is_primary": true}]},
	     {"id": "b", "role": "dependent", "income_stability": 0}
	   ],
	   "supports": [{"from": "a", "to": "b", "strength": 0.8}]}
	]`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	s, err := LoadFixtures(path)
	if err != nil {
		t.Fatalf("LoadFixtures: %v", err)
	}
	snap, err := s.FetchSnapshot(context.Background(), "h1")
	if err != nil {
		t.Fatalf("FetchSnapshot: %v", err)
	}
	if len(snap.Members) != 2 || len(snap.Supports) != 1 {
		t.Fatalf("snapshot shape: %+v", snap)
	}
	if snap.Members[1].IncomeStability == nil || *snap.Members[1].IncomeStability != 0 {
		t.Fatalf("explicit zero stability lost: %+v", snap.Members[1])
	}
	if len(snap.Members[0].IncomeSources) != 1 || !snap.Members[0].IncomeSources[0].IsPrimary {
		t.Fatalf("income sources: %+v", snap.Members[0].IncomeSources)
	}
}

func TestLoadFixturesRejectsMissingID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`[{"members": []}]`), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := LoadFixtures(path); !errors.Is(err, household.ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput got %v", err)
	}
}

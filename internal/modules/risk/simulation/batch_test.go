package simulation

import (
	"context"
	"errors"
	"testing"

	"github.com/anchorrisk/anchorrisk-backend/internal/domain/household"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/scorer"
)

func TestSimulateBatchKeepsOrder(t *testing.T) {
	e := newEngine(t, scorer.Heuristic{})
	snap := earnerWithDependent()
	scenarios := []Scenario{
		{AffectedMember: "e"},
		{AffectedMember: "ghost"},
		{AffectedMember: "d", ShockType: ShockMemberExit},
		{AffectedMember: "e", ShockType: "job_loss"},
	}
	out, err := e.SimulateBatch(context.Background(), snap, scenarios)
	if err != nil {
		t.Fatalf("SimulateBatch: %v", err)
	}
	if len(out) != len(scenarios) {
		t.Fatalf("results: want=%d got=%d", len(scenarios), len(out))
	}
	for i, r := range out {
		if r.Scenario != scenarios[i] {
			t.Fatalf("result %d out of order: %+v", i, r.Scenario)
		}
	}
	if out[0].Result == nil || out[0].Result.After != 1.0 {
		t.Fatalf("scenario 0: %+v", out[0])
	}
	if out[1].Result != nil || out[1].Error == "" {
		t.Fatalf("scenario 1 should carry an error: %+v", out[1])
	}
	if out[2].Result == nil || out[2].Result.Details.RemainingMembers != 1 {
		t.Fatalf("scenario 2: %+v", out[2])
	}
	if out[3].Result == nil || out[3].Result.Details.ShockType != "job_loss" {
		t.Fatalf("scenario 3: %+v", out[3])
	}

	if *snap.Members[0].IncomeStability != 0.8 || snap.Members[0].Role != household.RoleEarner {
		t.Fatalf("snapshot mutated: %+v", snap.Members[0])
	}
}

func TestSimulateBatchAbortsOnScorerFailure(t *testing.T) {
	e := newEngine(t, &scriptedScorer{err: household.ErrScorerUnavailable})
	_, err := e.SimulateBatch(context.Background(), earnerWithDependent(), []Scenario{{AffectedMember: "e"}, {AffectedMember: "d"}})
	if !errors.Is(err, household.ErrScorerUnavailable) {
		t.Fatalf("want ErrScorerUnavailable got %v", err)
	}
}

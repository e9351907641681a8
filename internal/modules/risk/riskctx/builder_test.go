package riskctx

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/anchorrisk/anchorrisk-backend/internal/domain/household"
	"github.com/anchorrisk/anchorrisk-backend/internal/modules/risk/income"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/logger"
)

func newBuilder(t *testing.T, store HouseholdStore, sc *fakeScorer) *Builder {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	b, err := NewBuilder(log, store, sc)
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	return b
}

func sampleSnapshot() *household.Snapshot {
	f := household.Float
	return &household.Snapshot{
		HouseholdID: "hh",
		Members: []household.Member{
			{
				ID:          "earner",
				Role:        household.RoleEarner,
				IsApplicant: true,
				IncomeSources: []household.IncomeSource{
					{Type: household.SourceJob, Stability: f(0.2), Volatility: f(0.9), IsPrimary: true},
				},
			},
			{
				ID:              "second",
				Role:            household.RoleEarner,
				IncomeStability: f(0.6),
				IncomeSources: []household.IncomeSource{
					{Type: household.SourceRental, Stability: f(0.8), Volatility: f(0.3)},
					{Type: household.SourceFreelance, Stability: f(0.6), Volatility: f(0.5), IsPrimary: true},
				},
			},
			{ID: "kid", Role: household.RoleDependent, IncomeStability: f(0)},
		},
		Supports: []household.SupportEdge{
			{From: "earner", To: "kid", Strength: f(0.9)},
			{From: "second", To: "earner", Strength: f(0.4)},
			{From: "kid", To: "kid", Strength: f(0.1)},
		},
	}
}

func TestBuild(t *testing.T) {
	snap := sampleSnapshot()
	sc := &fakeScorer{result: &household.ScoreResult{
		FragilityScore: 0.55,
		RiskBand:       "MEDIUM",
		Features:       map[string]any{"dependency_ratio": 0.5},
	}}
	b := newBuilder(t, fakeStore{snaps: map[string]*household.Snapshot{"hh": snap}}, sc)

	rc, err := b.Build(context.Background(), "hh")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if rc.HouseholdID != "hh" || rc.FragilityScore != 0.55 || rc.RiskBand != "MEDIUM" {
		t.Fatalf("score fields: %+v", rc)
	}
	if rc.Applicant == nil || rc.Applicant.ID != "earner" {
		t.Fatalf("applicant: %+v", rc.Applicant)
	}

	wantInsights := []string{
		income.InsightPrimaryDependence,
		income.InsightHighVolatility,
		income.InsightLowStability,
		income.InsightModerateDiversity,
	}
	if diff := cmp.Diff(wantInsights, rc.IncomeInsights); diff != "" {
		t.Fatalf("insights (-want +got):\n%s", diff)
	}

	if got := *rc.Members[1].IncomeStability; got != 0.7 {
		t.Fatalf("enriched stability: want=0.7 got=%v", got)
	}
	if snap.Members[1].IncomeFeatures != nil || *snap.Members[1].IncomeStability != 0.6 {
		t.Fatalf("snapshot was mutated: %+v", snap.Members[1])
	}

	if len(sc.payloads) != 1 {
		t.Fatalf("scorer calls: want=1 got=%d", len(sc.payloads))
	}
	wantPayload := household.ScorePayload{
		Members: []household.ScoreMember{
			{ID: "earner", Role: household.RoleEarner, IncomeStability: 0.2},
			{ID: "second", Role: household.RoleEarner, IncomeStability: 0.7},
			{ID: "kid", Role: household.RoleDependent, IncomeStability: 0},
		},
		Supports: []household.ScoreSupport{
			{From: "earner", To: "kid", Strength: 0.9},
			{From: "second", To: "earner", Strength: 0.4},
		},
	}
	if diff := cmp.Diff(wantPayload, sc.payloads[0]); diff != "" {
		t.Fatalf("scorer payload (-want +got):\n%s", diff)
	}

	gm := rc.GraphMetrics
	if gm.NumMembers != 3 || gm.NumEarners != 2 || gm.MaxChainDepth != 3 || !gm.HasChainRisk {
		t.Fatalf("graph metrics: %+v", gm)
	}
	if diff := cmp.Diff([]string{"earner", "second"}, gm.CriticalMembers); diff != "" {
		t.Fatalf("critical members (-want +got):\n%s", diff)
	}
}

func TestBuildDefaultsPartialScorerData(t *testing.T) {
	sc := &fakeScorer{result: &household.ScoreResult{FragilityScore: 0.3}}
	b := newBuilder(t, fakeStore{snaps: map[string]*household.Snapshot{"hh": sampleSnapshot()}}, sc)
	rc, err := b.Build(context.Background(), "hh")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if rc.RiskBand != "UNKNOWN" || rc.Features == nil {
		t.Fatalf("defaults: band=%q features=%v", rc.RiskBand, rc.Features)
	}
}

func TestBuildErrors(t *testing.T) {
	empty := &household.Snapshot{HouseholdID: "empty"}
	store := fakeStore{snaps: map[string]*household.Snapshot{"empty": empty, "hh": sampleSnapshot()}}

	sc := &fakeScorer{result: &household.ScoreResult{FragilityScore: 0.3}}
	b := newBuilder(t, store, sc)

	_, err := b.Build(context.Background(), "missing")
	if !errors.Is(err, household.ErrNotFound) || errors.Is(err, household.ErrNoMembers) {
		t.Fatalf("missing household: got %v", err)
	}

	_, err = b.Build(context.Background(), "empty")
	if !errors.Is(err, household.ErrNoMembers) || !errors.Is(err, household.ErrNotFound) {
		t.Fatalf("empty household: got %v", err)
	}
	if len(sc.payloads) != 0 {
		t.Fatalf("scorer called for empty household")
	}

	failing := &fakeScorer{err: household.ErrScorerUnavailable}
	_, err = newBuilder(t, store, failing).Build(context.Background(), "hh")
	if !errors.Is(err, household.ErrScorerUnavailable) {
		t.Fatalf("scorer failure: got %v", err)
	}
}

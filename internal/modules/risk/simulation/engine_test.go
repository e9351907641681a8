package simulation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/anchorrisk/anchorrisk-backend/internal/domain/household"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/logger"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/scorer"
)

// scriptedScorer returns scores in call order and records every payload.
type scriptedScorer struct {
	mu       sync.Mutex
	scores   []float64
	err      error
	payloads []household.ScorePayload
}

func (s *scriptedScorer) Score(_ context.Context, p household.ScorePayload) (*household.ScoreResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads = append(s.payloads, p)
	if s.err != nil {
		return nil, s.err
	}
	score := s.scores[0]
	s.scores = s.scores[1:]
	return &household.ScoreResult{FragilityScore: score, RiskBand: scorer.Band(score), Features: map[string]any{}}, nil
}

func newEngine(t *testing.T, sc scorer.Scorer) *Engine {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	e, err := NewEngine(log, sc)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func earnerWithDependent() *household.Snapshot {
	f := household.Float
	return &household.Snapshot{
		Members: []household.Member{
			{ID: "e", Role: household.RoleEarner, IncomeStability: f(0.8)},
			{ID: "d", Role: household.RoleDependent, IncomeStability: f(0)},
		},
		Supports: []household.SupportEdge{{From: "e", To: "d", Strength: f(0.9)}},
	}
}

func TestLosingTheOnlyEarnerForcesCollapse(t *testing.T) {
	sc := &scriptedScorer{scores: []float64{0.4, 0.5}}
	res, err := newEngine(t, sc).Simulate(context.Background(), earnerWithDependent(), "e", "")
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	want := &household.SimulationResult{
		Before:           0.4,
		After:            1.0,
		Impact:           household.ImpactSevere,
		ShockDescription: "Complete income loss",
		Details: household.SimulationDetails{
			AffectedMember:   "e",
			ShockType:        ShockMemberLoss,
			IsEarner:         true,
			PreShockRole:     household.RoleEarner,
			IncomeStability:  0.8,
			RemainingMembers: 2,
			RemainingEarners: 0,
			ScoreChange:      0.6,
		},
	}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Fatalf("result (-want +got):\n%s", diff)
	}

	if len(sc.payloads) != 2 {
		t.Fatalf("scorer calls: want=2 got=%d", len(sc.payloads))
	}
	shockedMember := sc.payloads[1].Members[0]
	if shockedMember.Role != household.RoleDependent || shockedMember.IncomeStability != 0 {
		t.Fatalf("shocked member: %+v", shockedMember)
	}
	if len(sc.payloads[1].Supports) != 1 {
		t.Fatalf("supports must be unchanged by member_loss: %+v", sc.payloads[1].Supports)
	}
}

func TestEmptyHouseholdAfterShockIsCatastrophic(t *testing.T) {
	f := household.Float
	snap := &household.Snapshot{Members: []household.Member{{ID: "solo", Role: household.RoleEarner, IncomeStability: f(0.7)}}}
	sc := &scriptedScorer{scores: []float64{0.35}}

	res, err := newEngine(t, sc).Simulate(context.Background(), snap, "solo", ShockMemberExit)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if res.After != 1.0 || res.Impact != household.ImpactCatastrophic {
		t.Fatalf("want after=1.0 CATASTROPHIC got after=%v %s", res.After, res.Impact)
	}
	if res.Details.RemainingMembers != 0 || res.Details.ScoreChange != 0.65 {
		t.Fatalf("details: %+v", res.Details)
	}
	if len(sc.payloads) != 1 {
		t.Fatalf("scorer calls: want=1 got=%d", len(sc.payloads))
	}
}

func TestMemberExitDropsSupports(t *testing.T) {
	sc := &scriptedScorer{scores: []float64{0.4, 0.45}}
	res, err := newEngine(t, sc).Simulate(context.Background(), earnerWithDependent(), "d", ShockMemberExit)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	after := sc.payloads[1]
	if len(after.Members) != 1 || len(after.Supports) != 0 {
		t.Fatalf("after payload: %+v", after)
	}
	if res.Impact != household.ImpactLow || res.Details.RemainingEarners != 1 {
		t.Fatalf("result: %+v", res)
	}
}

// A source shock that zeroes an earner's income without changing their role
// does not trigger the collapse override.
func TestSourceShockKeepsScorerValueWhenRoleUnchanged(t *testing.T) {
	f := household.Float
	snap := &household.Snapshot{
		Members: []household.Member{
			{ID: "e", Role: household.RoleEarner, IncomeSources: []household.IncomeSource{
				{Type: household.SourceJob, Stability: f(0.9), Volatility: f(0.2), IsPrimary: true},
			}},
			{ID: "d", Role: household.RoleDependent},
		},
		Supports: []household.SupportEdge{{From: "e", To: "d", Strength: f(0.9)}},
	}
	sc := &scriptedScorer{scores: []float64{0.3, 0.5}}
	res, err := newEngine(t, sc).Simulate(context.Background(), snap, "e", "job_loss")
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if res.After != 0.5 || res.Impact != household.ImpactModerate {
		t.Fatalf("want after=0.5 MODERATE got after=%v %s", res.After, res.Impact)
	}
	if res.Details.RemainingEarners != 1 || res.Details.IncomeStability != 0.9 {
		t.Fatalf("details: %+v", res.Details)
	}
	if res.ShockDescription != "Job loss scenario - disabled all job-type income" {
		t.Fatalf("description: %q", res.ShockDescription)
	}
	if got := sc.payloads[1].Members[0]; got.Role != household.RoleEarner || got.IncomeStability != 0 {
		t.Fatalf("shocked member: %+v", got)
	}
	if *snap.Members[0].IncomeSources[0].Stability != 0.9 {
		t.Fatalf("snapshot sources were mutated")
	}
}

func TestNamedShockWithoutSourcesFallsBackToIncomeLoss(t *testing.T) {
	sc := &scriptedScorer{scores: []float64{0.4, 0.5}}
	res, err := newEngine(t, sc).Simulate(context.Background(), earnerWithDependent(), "e", "rental_vacancy")
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if res.ShockDescription != "Complete income loss" || res.After != 1.0 {
		t.Fatalf("result: %+v", res)
	}
	if res.Details.ShockType != "rental_vacancy" {
		t.Fatalf("shock type: want=rental_vacancy got=%q", res.Details.ShockType)
	}
}

func TestFreelanceShockRecomputesStability(t *testing.T) {
	f := household.Float
	snap := &household.Snapshot{
		Members: []household.Member{
			{ID: "a", Role: household.RoleEarner, IncomeSources: []household.IncomeSource{
				{Type: household.SourceFreelance, Stability: f(0.5), Volatility: f(0.4)},
				{Type: household.SourcePension, Stability: f(0.9), Volatility: f(0.1), IsPrimary: true},
			}},
			{ID: "b", Role: household.RoleEarner, IncomeStability: f(0.6)},
		},
	}
	sc := &scriptedScorer{scores: []float64{0.2, 0.2}}
	res, err := newEngine(t, sc).Simulate(context.Background(), snap, "a", "freelance_shock")
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if got := sc.payloads[0].Members[0].IncomeStability; got != 0.7 {
		t.Fatalf("before stability: want=0.7 got=%v", got)
	}
	if got := sc.payloads[1].Members[0].IncomeStability; got != 0.6 {
		t.Fatalf("after stability: want=0.6 got=%v", got)
	}
	if res.Impact != household.ImpactMinimal || res.Details.ScoreChange != 0 {
		t.Fatalf("result: %+v", res)
	}
}

func TestSimulateErrors(t *testing.T) {
	sc := &scriptedScorer{scores: []float64{0.1}}
	e := newEngine(t, sc)

	_, err := e.Simulate(context.Background(), earnerWithDependent(), "ghost", "")
	if !errors.Is(err, household.ErrInvalidMember) {
		t.Fatalf("unknown member: got %v", err)
	}
	_, err = e.Simulate(context.Background(), &household.Snapshot{}, "e", "")
	if !errors.Is(err, household.ErrNoMembers) {
		t.Fatalf("empty household: got %v", err)
	}
	_, err = e.Simulate(context.Background(), nil, "e", "")
	if !errors.Is(err, household.ErrNotFound) {
		t.Fatalf("nil snapshot: got %v", err)
	}
	if len(sc.payloads) != 0 {
		t.Fatalf("scorer called on invalid input")
	}

	failing := &scriptedScorer{err: household.ErrScorerUnavailable}
	_, err = newEngine(t, failing).Simulate(context.Background(), earnerWithDependent(), "e", "")
	if !errors.Is(err, household.ErrScorerUnavailable) {
		t.Fatalf("scorer failure: got %v", err)
	}
	if len(failing.payloads) != 1 {
		t.Fatalf("after-shock scoring attempted after before-score failed")
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		before, after float64
		want          household.Impact
	}{
		{0.1, 0.8, household.ImpactSevere},
		{0.7, 0.85, household.ImpactSevere},
		{0.2, 0.45, household.ImpactSevere},
		{0.2, 0.35, household.ImpactModerate},
		{0.2, 0.25, household.ImpactLow},
		{0.2, 0.2, household.ImpactMinimal},
		{0.5, 0.3, household.ImpactMinimal},
	}
	for _, tc := range cases {
		if got := Classify(tc.before, tc.after); got != tc.want {
			t.Fatalf("Classify(%v, %v): want=%s got=%s", tc.before, tc.after, tc.want, got)
		}
	}
}

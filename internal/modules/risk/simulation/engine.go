// Package simulation answers "what happens to this household's fragility if
// member X is hit by shock Y" by scoring the household before and after.
package simulation

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/anchorrisk/anchorrisk-backend/internal/domain/household"
	"github.com/anchorrisk/anchorrisk-backend/internal/modules/risk/income"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/logger"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/scorer"
)

// collapseScore is reported when the household is left with no members or,
// after losing an earner, with no earners at all.
const collapseScore = 1.0

type Engine struct {
	scorer      scorer.Scorer
	log         *logger.Logger
	parallelism int
}

func NewEngine(log *logger.Logger, sc scorer.Scorer) (*Engine, error) {
	if log == nil {
		return nil, errors.New("simulation: logger required")
	}
	if sc == nil {
		return nil, errors.New("simulation: scorer required")
	}
	return &Engine{
		scorer:      sc,
		log:         log.With("service", "SimulationEngine"),
		parallelism: 4,
	}, nil
}

// Simulate scores snap as-is, applies the shock to affectedID and scores the
// result. The before score is always obtained before the shocked household is
// scored. snap is never modified.
func (e *Engine) Simulate(ctx context.Context, snap *household.Snapshot, affectedID, shockType string) (*household.SimulationResult, error) {
	if err := checkSnapshot(snap); err != nil {
		return nil, err
	}
	return e.simulate(ctx, snap, Scenario{AffectedMember: affectedID, ShockType: shockType})
}

func checkSnapshot(snap *household.Snapshot) error {
	if snap == nil {
		return household.ErrNotFound
	}
	if len(snap.Members) == 0 {
		return fmt.Errorf("%w: %w", household.ErrNotFound, household.ErrNoMembers)
	}
	return nil
}

func (e *Engine) simulate(ctx context.Context, snap *household.Snapshot, sc Scenario) (*household.SimulationResult, error) {
	original, ok := snap.FindMember(sc.AffectedMember)
	if !ok {
		return nil, fmt.Errorf("member %q: %w", sc.AffectedMember, household.ErrInvalidMember)
	}
	shockType := sc.shockType()

	enriched := income.EnrichAll(snap.Members)
	before, err := e.score(ctx, enriched, snap.Supports)
	if err != nil {
		return nil, fmt.Errorf("score before shock: %w", err)
	}

	preShock := income.Enrich(original)
	wasEarner := original.IsEarner()
	details := household.SimulationDetails{
		AffectedMember:  sc.AffectedMember,
		ShockType:       shockType,
		IsEarner:        wasEarner,
		PreShockRole:    household.NormalizeRole(original.Role),
		IncomeStability: preShock.Stability(),
	}

	after := apply(enriched, snap.Supports, sc.AffectedMember, shockType)
	if len(after.members) == 0 {
		details.ScoreChange = round3(collapseScore - before)
		return &household.SimulationResult{
			Before:           before,
			After:            collapseScore,
			Impact:           household.ImpactCatastrophic,
			ShockDescription: after.description,
			Details:          details,
		}, nil
	}

	afterScore, err := e.score(ctx, after.members, after.supports)
	if err != nil {
		return nil, fmt.Errorf("score after shock: %w", err)
	}

	remainingEarners := 0
	for _, m := range after.members {
		if m.IsEarner() {
			remainingEarners++
		}
	}
	// Only a role change away from earner triggers the collapse override; a
	// source shock that leaves the member an earner keeps the scorer's value.
	if wasEarner && remainingEarners == 0 {
		afterScore = collapseScore
	}

	details.RemainingMembers = len(after.members)
	details.RemainingEarners = remainingEarners
	details.ScoreChange = round3(afterScore - before)

	res := &household.SimulationResult{
		Before:           before,
		After:            afterScore,
		Impact:           Classify(before, afterScore),
		ShockDescription: after.description,
		Details:          details,
	}
	e.log.Debug("simulation complete",
		"affected_member", sc.AffectedMember,
		"shock_type", shockType,
		"before", before,
		"after", afterScore,
		"impact", string(res.Impact),
	)
	return res, nil
}

func (e *Engine) score(ctx context.Context, members []household.Member, supports []household.SupportEdge) (float64, error) {
	res, err := e.scorer.Score(ctx, household.NewScorePayload(members, supports))
	if err != nil {
		return 0, err
	}
	if res == nil {
		return 0, household.ErrScorerUnavailable
	}
	return res.FragilityScore, nil
}

// Classify grades the change from before to after. CATASTROPHIC is never
// returned here; it is reserved for a household left with no members.
func Classify(before, after float64) household.Impact {
	diff := after - before
	switch {
	case after >= 0.8 || diff >= 0.25:
		return household.ImpactSevere
	case diff >= 0.10:
		return household.ImpactModerate
	case diff > 0:
		return household.ImpactLow
	default:
		return household.ImpactMinimal
	}
}

func round3(v float64) float64 {
	out, _ := decimal.NewFromFloat(v).Round(3).Float64()
	return out
}

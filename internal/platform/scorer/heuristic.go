package scorer

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/anchorrisk/anchorrisk-backend/internal/domain/household"
)

// Assumed household-level constants; the payload carries nothing to derive them from.
const (
	expenseRigidity = 0.6
	medicalRisk     = 0.4
)

// Heuristic scores households in-process with the blended formula the
// hosted model was trained to reproduce. It backs the CLI and local
// development when no scorer URL is configured.
type Heuristic struct{}

func (Heuristic) Score(ctx context.Context, payload household.ScorePayload) (*household.ScoreResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", household.ErrScorerUnavailable, err)
	}
	if len(payload.Members) == 0 {
		return nil, fmt.Errorf("scorer: %w", household.ErrNoMembers)
	}
	f := extractFeatures(payload)

	score := f.dependencyConcentration*0.35 +
		f.shockAmplification*0.30 +
		(1-f.incomeStability)*0.25 +
		f.singlePointFailure*0.10
	score = round(clamp01(score), 2)

	return &household.ScoreResult{
		FragilityScore: score,
		RiskBand:       Band(score),
		Features: map[string]any{
			"dependency_ratio":     f.dependencyRatio,
			"single_point_failure": int(f.singlePointFailure),
			"shock_amplification":  f.shockAmplification,
		},
	}, nil
}

// Band maps a fragility score onto LOW / MEDIUM / HIGH.
func Band(score float64) string {
	switch {
	case score < 0.3:
		return "LOW"
	case score < 0.6:
		return "MEDIUM"
	default:
		return "HIGH"
	}
}

type features struct {
	numMembers              int
	numEarners              int
	dependencyRatio         float64
	incomeStability         float64
	avgSupportStrength      float64
	singlePointFailure      float64
	dependencyConcentration float64
	earnerInterdependency   float64
	shockAmplification      float64
}

func extractFeatures(p household.ScorePayload) features {
	var f features
	f.numMembers = len(p.Members)

	earnerIDs := map[string]struct{}{}
	stabilitySum := 0.0
	earners := 0
	for _, m := range p.Members {
		if m.Role != household.RoleEarner {
			continue
		}
		earners++
		stabilitySum += m.IncomeStability
		earnerIDs[m.ID] = struct{}{}
	}
	f.numEarners = max(1, earners)
	f.dependencyRatio = float64(f.numMembers-f.numEarners) / float64(f.numEarners)
	if earners > 0 {
		f.incomeStability = stabilitySum / float64(earners)
	}

	f.avgSupportStrength = household.DefaultStability
	if len(p.Supports) > 0 {
		sum := 0.0
		earnerToEarner := 0
		for _, s := range p.Supports {
			sum += s.Strength
			_, fromEarner := earnerIDs[s.From]
			_, toEarner := earnerIDs[s.To]
			if fromEarner && toEarner {
				earnerToEarner++
			}
		}
		f.avgSupportStrength = sum / float64(len(p.Supports))
		f.earnerInterdependency = float64(earnerToEarner) / float64(len(p.Supports))
	}

	if f.numEarners == 1 {
		f.singlePointFailure = 1
	}
	f.dependencyConcentration = min(1.0, f.dependencyRatio/3)

	if f.numMembers == f.numEarners && f.numMembers > 1 {
		f.shockAmplification = (1-f.incomeStability)*0.4 +
			f.earnerInterdependency*0.2 +
			medicalRisk*0.2 +
			expenseRigidity*0.2
	} else {
		f.shockAmplification = f.dependencyConcentration*0.4 +
			medicalRisk*0.3 +
			expenseRigidity*0.3
	}
	return f
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}

func round(v float64, places int32) float64 {
	out, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return out
}

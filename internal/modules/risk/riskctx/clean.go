package riskctx

import (
	"math"

	"github.com/anchorrisk/anchorrisk-backend/internal/domain/household"
)

// Clean turns enriched members and raw supports into the scorer payload.
// Records that cannot be defaulted are dropped: members without an id, and
// supports missing an endpoint, pointing at themselves, or carrying a strength
// that is absent or outside [0,1]. Roles are coerced and stability that is
// absent or out of range becomes 0.5.
func Clean(members []household.Member, supports []household.SupportEdge) household.ScorePayload {
	out := household.ScorePayload{
		Members:  make([]household.ScoreMember, 0, len(members)),
		Supports: make([]household.ScoreSupport, 0, len(supports)),
	}
	for _, m := range members {
		if m.ID == "" {
			continue
		}
		stability := household.DefaultStability
		if m.IncomeStability != nil && inUnit(*m.IncomeStability) {
			stability = *m.IncomeStability
		}
		out.Members = append(out.Members, household.ScoreMember{
			ID:              m.ID,
			Role:            household.NormalizeRole(m.Role),
			IncomeStability: stability,
		})
	}
	for _, s := range supports {
		if s.From == "" || s.To == "" || s.From == s.To {
			continue
		}
		if s.Strength == nil || !inUnit(*s.Strength) {
			continue
		}
		out.Supports = append(out.Supports, household.ScoreSupport{From: s.From, To: s.To, Strength: *s.Strength})
	}
	return out
}

func inUnit(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

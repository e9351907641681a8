package graph

import (
	"math"

	"github.com/anchorrisk/anchorrisk-backend/internal/domain/household"
)

// Neo4j hands back integers as int64 and decimals as float64; both are
// accepted wherever a fraction is expected.
func num(v any) *float64 {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) {
			return nil
		}
		return household.Float(t)
	case int64:
		return household.Float(float64(t))
	case int:
		return household.Float(float64(t))
	default:
		return nil
	}
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func boolean(v any) bool {
	b, _ := v.(bool)
	return b
}

func memberFromProps(p map[string]any) household.Member {
	return household.Member{
		ID:              str(p["id"]),
		Role:            household.Role(str(p["role"])),
		IncomeStability: num(p["income_stability"]),
		IsApplicant:     boolean(p["is_applicant"]),
	}
}

func sourceFromProps(p map[string]any) household.IncomeSource {
	return household.IncomeSource{
		Type:       household.SourceType(str(p["type"])),
		Stability:  num(p["stability"]),
		Volatility: num(p["volatility"]),
		IsPrimary:  boolean(p["is_primary"]),
		AmountBand: household.AmountBand(str(p["amount_band"])),
	}
}

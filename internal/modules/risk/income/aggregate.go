// Package income turns a member's income sources, or the legacy stability
// scalar, into the normalized features the risk engine and its explanations use.
package income

import (
	"github.com/anchorrisk/anchorrisk-backend/internal/domain/household"
)

// legacyVolatility is assumed for members that never recorded income sources.
const legacyVolatility = 0.5

// Aggregate computes the income features for a single member.
func Aggregate(m household.Member) household.IncomeFeatures {
	switch data := m.Income().(type) {
	case household.Sources:
		return aggregateSources(data)
	case household.LegacyStability:
		return aggregateLegacy(float64(data))
	default:
		return aggregateLegacy(household.DefaultStability)
	}
}

func aggregateSources(sources household.Sources) household.IncomeFeatures {
	n := len(sources)
	sum := 0.0
	maxVol := 0.0
	for i, src := range sources {
		sum += src.EffectiveStability()
		if v := src.EffectiveVolatility(); i == 0 || v > maxVol {
			maxVol = v
		}
	}
	return household.IncomeFeatures{
		AvgIncomeStability:    sum / float64(n),
		IncomeDiversification: 1 / float64(n),
		PrimaryIncomeRisk:     1 - primarySource(sources).EffectiveStability(),
		MaxIncomeVolatility:   maxVol,
		HasMultipleSources:    n > 1,
		NumIncomeSources:      n,
	}
}

// primarySource returns the flagged primary source or, when none is flagged,
// the most stable one (first wins on ties). sources must be non-empty.
func primarySource(sources household.Sources) household.IncomeSource {
	for _, src := range sources {
		if src.IsPrimary {
			return src
		}
	}
	best := sources[0]
	for _, src := range sources[1:] {
		if src.EffectiveStability() > best.EffectiveStability() {
			best = src
		}
	}
	return best
}

func aggregateLegacy(stability float64) household.IncomeFeatures {
	num := 0
	if stability > 0 {
		num = 1
	}
	return household.IncomeFeatures{
		AvgIncomeStability:    stability,
		IncomeDiversification: 0,
		PrimaryIncomeRisk:     1 - stability,
		MaxIncomeVolatility:   legacyVolatility,
		HasMultipleSources:    false,
		NumIncomeSources:      num,
	}
}

// Enrich returns a copy of m carrying aggregated features, with the legacy
// scalar overwritten by the average source stability. Members without income
// sources come back as an unchanged copy.
func Enrich(m household.Member) household.Member {
	out := m.Clone()
	if len(out.IncomeSources) == 0 {
		return out
	}
	f := Aggregate(out)
	out.IncomeStability = household.Float(f.AvgIncomeStability)
	out.IncomeFeatures = &f
	return out
}

// EnrichAll applies Enrich to every member, preserving order.
func EnrichAll(members []household.Member) []household.Member {
	out := make([]household.Member, len(members))
	for i, m := range members {
		out[i] = Enrich(m)
	}
	return out
}

package income

import (
	"math"

	"github.com/anchorrisk/anchorrisk-backend/internal/domain/household"
)

// Shock is a hypothetical event that hits one kind of income source.
type Shock int

const (
	// ShockUnknown leaves every source untouched.
	ShockUnknown Shock = iota
	ShockJobLoss
	ShockFreelance
	ShockRentalVacancy
)

// ParseShock maps a wire name onto a Shock; unrecognised names are ShockUnknown.
func ParseShock(name string) Shock {
	switch name {
	case "job_loss":
		return ShockJobLoss
	case "freelance_shock":
		return ShockFreelance
	case "rental_vacancy":
		return ShockRentalVacancy
	default:
		return ShockUnknown
	}
}

func (s Shock) String() string {
	switch s {
	case ShockJobLoss:
		return "job_loss"
	case ShockFreelance:
		return "freelance_shock"
	case ShockRentalVacancy:
		return "rental_vacancy"
	default:
		return "unknown"
	}
}

// Target is the source type a shock applies to. ShockUnknown targets nothing.
func (s Shock) Target() household.SourceType {
	switch s {
	case ShockJobLoss:
		return household.SourceJob
	case ShockFreelance:
		return household.SourceFreelance
	case ShockRentalVacancy:
		return household.SourceRental
	default:
		return ""
	}
}

func (s Shock) Description() string {
	switch s {
	case ShockJobLoss:
		return "Job loss scenario - disabled all job-type income"
	case ShockFreelance:
		return "Freelance income shock - reduced freelance stability by 40%"
	case ShockRentalVacancy:
		return "Rental vacancy - increased rental income volatility to maximum"
	default:
		return ""
	}
}

// transform is the per-variant pure function; src is already a private copy.
func (s Shock) transform(src household.IncomeSource) household.IncomeSource {
	switch s {
	case ShockJobLoss:
		src.Stability = household.Float(0)
		src.Volatility = household.Float(1.0)
	case ShockFreelance:
		src.Stability = household.Float(math.Max(0, src.EffectiveStability()*0.6))
		src.Volatility = household.Float(math.Min(1.0, src.EffectiveVolatility()+0.3))
	case ShockRentalVacancy:
		src.Volatility = household.Float(1.0)
		src.Stability = household.Float(math.Max(0, src.EffectiveStability()*0.5))
	}
	return src
}

// ApplyShock returns a new source list in which only sources of the shock's
// target type are transformed. The input slice is never modified.
func ApplyShock(sources []household.IncomeSource, shock Shock) []household.IncomeSource {
	out := make([]household.IncomeSource, len(sources))
	target := shock.Target()
	for i, src := range sources {
		cp := src.Clone()
		if target != "" && src.Type == target {
			cp = shock.transform(cp)
		}
		out[i] = cp
	}
	return out
}

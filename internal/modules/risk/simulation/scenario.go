package simulation

import (
	"github.com/anchorrisk/anchorrisk-backend/internal/domain/household"
	"github.com/anchorrisk/anchorrisk-backend/internal/modules/risk/income"
)

const (
	// ShockMemberLoss is the default: the member stays in the household but
	// becomes a dependent with no income.
	ShockMemberLoss = "member_loss"
	// ShockMemberExit removes the member and every support edge touching them.
	ShockMemberExit = "member_exit"
)

const (
	descIncomeLoss = "Complete income loss"
	descMemberExit = "Member leaves the household - income and support links removed"
)

// Scenario is one requested what-if: who is hit and by what.
type Scenario struct {
	AffectedMember string `json:"affected_member" validate:"required"`
	ShockType      string `json:"shock_type,omitempty"`
}

func (s Scenario) shockType() string {
	if s.ShockType == "" {
		return ShockMemberLoss
	}
	return s.ShockType
}

type shocked struct {
	members     []household.Member
	supports    []household.SupportEdge
	description string
}

// apply builds the post-shock household from enriched members. Neither input
// slice is modified.
func apply(members []household.Member, supports []household.SupportEdge, affectedID, shockType string) shocked {
	if shockType == ShockMemberExit {
		return exit(members, supports, affectedID)
	}

	shock := income.ParseShock(shockType)
	out := shocked{
		members:     make([]household.Member, len(members)),
		supports:    supports,
		description: descIncomeLoss,
	}
	for i, m := range members {
		if m.ID != affectedID {
			out.members[i] = m.Clone()
			continue
		}
		if shock != income.ShockUnknown && len(m.IncomeSources) > 0 {
			hit := m.Clone()
			hit.IncomeSources = income.ApplyShock(m.IncomeSources, shock)
			out.members[i] = income.Enrich(hit)
			out.description = shock.Description()
			continue
		}
		lost := m.Clone()
		lost.Role = household.RoleDependent
		lost.IncomeStability = household.Float(0)
		out.members[i] = lost
	}
	return out
}

func exit(members []household.Member, supports []household.SupportEdge, affectedID string) shocked {
	out := shocked{
		members:     make([]household.Member, 0, len(members)),
		supports:    make([]household.SupportEdge, 0, len(supports)),
		description: descMemberExit,
	}
	for _, m := range members {
		if m.ID != affectedID {
			out.members = append(out.members, m.Clone())
		}
	}
	for _, s := range supports {
		if s.From != affectedID && s.To != affectedID {
			out.supports = append(out.supports, s)
		}
	}
	return out
}

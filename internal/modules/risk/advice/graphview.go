package advice

import (
	"github.com/anchorrisk/anchorrisk-backend/internal/domain/household"
)

type GraphNode struct {
	ID              string         `json:"id"`
	Label           string         `json:"label"`
	Role            household.Role `json:"role"`
	IncomeStability float64        `json:"income_stability"`
	IsCritical      bool           `json:"is_critical"`
	IsApplicant     bool           `json:"is_applicant"`
}

type GraphEdge struct {
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Strength float64 `json:"strength"`
}

type GraphViewMetrics struct {
	FragilityScore  float64 `json:"fragility_score"`
	DependencyRatio float64 `json:"dependency_ratio"`
	IncomeStability float64 `json:"income_stability"`
	SupportStrength float64 `json:"support_strength"`
}

type Composition struct {
	Earners    int `json:"earners"`
	Dependents int `json:"dependents"`
}

// GraphView is the node/edge shape the household graph visualisation draws.
type GraphView struct {
	Nodes       []GraphNode      `json:"nodes"`
	Edges       []GraphEdge      `json:"edges"`
	Metrics     GraphViewMetrics `json:"metrics"`
	Composition Composition      `json:"composition"`
}

// BuildGraphView lays out rc's enriched members with the snapshot's support
// edges. Edges missing an endpoint are skipped.
func BuildGraphView(rc *household.RiskContext, supports []household.SupportEdge) GraphView {
	out := GraphView{
		Nodes: make([]GraphNode, 0, len(rc.Members)),
		Edges: make([]GraphEdge, 0, len(supports)),
	}

	stabilitySum := 0.0
	for _, m := range rc.Members {
		role := household.NormalizeRole(m.Role)
		out.Nodes = append(out.Nodes, GraphNode{
			ID:              m.ID,
			Label:           m.ID,
			Role:            role,
			IncomeStability: m.Stability(),
			IsCritical:      rc.GraphMetrics.IsCritical(m.ID),
			IsApplicant:     m.IsApplicant,
		})
		if role == household.RoleEarner {
			out.Composition.Earners++
			stabilitySum += m.Stability()
		}
	}
	out.Composition.Dependents = len(rc.Members) - out.Composition.Earners

	strengthSum := 0.0
	for _, s := range supports {
		if s.From == "" || s.To == "" {
			continue
		}
		strength := household.DefaultStability
		if s.Strength != nil {
			strength = *s.Strength
		}
		strengthSum += strength
		out.Edges = append(out.Edges, GraphEdge{Source: s.From, Target: s.To, Strength: strength})
	}

	out.Metrics = GraphViewMetrics{
		FragilityScore:  rc.FragilityScore,
		IncomeStability: household.DefaultStability,
		SupportStrength: household.DefaultStability,
	}
	if out.Composition.Earners > 0 {
		out.Metrics.IncomeStability = stabilitySum / float64(out.Composition.Earners)
		out.Metrics.DependencyRatio = float64(out.Composition.Dependents) / float64(out.Composition.Earners)
	}
	if len(out.Edges) > 0 {
		out.Metrics.SupportStrength = strengthSum / float64(len(out.Edges))
	}
	return out
}

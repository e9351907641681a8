package household

type ChainDetail struct {
	Earner          string `json:"earner"`
	ChainDepth      int    `json:"chainDepth"`
	TotalDependents int    `json:"totalDependents"`
}

type GraphMetrics struct {
	NumMembers      int           `json:"num_members"`
	NumEarners      int           `json:"num_earners"`
	CriticalMembers []string      `json:"critical_members"`
	MaxChainDepth   int           `json:"max_chain_depth"`
	HasChainRisk    bool          `json:"has_chain_risk"`
	ChainDetails    []ChainDetail `json:"chain_details"`
}

func (g GraphMetrics) IsCritical(id string) bool {
	for _, c := range g.CriticalMembers {
		if c == id {
			return true
		}
	}
	return false
}

// RiskContext is the unified per-request view every advisory derives from.
type RiskContext struct {
	HouseholdID    string         `json:"householdId"`
	FragilityScore float64        `json:"fragility_score"`
	RiskBand       string         `json:"risk_band"`
	Features       map[string]any `json:"features"`
	GraphMetrics   GraphMetrics   `json:"graph_metrics"`
	Applicant      *Member        `json:"applicant"`
	IncomeInsights []string       `json:"income_insights"`
	Members        []Member       `json:"members"`
}

type Impact string

const (
	ImpactMinimal      Impact = "MINIMAL"
	ImpactLow          Impact = "LOW"
	ImpactModerate     Impact = "MODERATE"
	ImpactSevere       Impact = "SEVERE"
	ImpactCatastrophic Impact = "CATASTROPHIC"
)

type SimulationDetails struct {
	AffectedMember   string  `json:"affected_member"`
	ShockType        string  `json:"shock_type"`
	IsEarner         bool    `json:"is_earner"`
	PreShockRole     Role    `json:"pre_shock_role"`
	IncomeStability  float64 `json:"income_stability"`
	RemainingMembers int     `json:"remaining_members"`
	RemainingEarners int     `json:"remaining_earners"`
	ScoreChange      float64 `json:"score_change"`
}

type SimulationResult struct {
	Before           float64           `json:"before"`
	After            float64           `json:"after"`
	Impact           Impact            `json:"impact"`
	ShockDescription string            `json:"shock_description"`
	Details          SimulationDetails `json:"details"`
}

// ScoreMember and ScoreSupport are the only fields the fragility scorer sees.
type ScoreMember struct {
	ID              string  `json:"id"`
	Role            Role    `json:"role"`
	IncomeStability float64 `json:"income_stability"`
}

type ScoreSupport struct {
	From     string  `json:"from"`
	To       string  `json:"to"`
	Strength float64 `json:"strength"`
}

type ScorePayload struct {
	Members  []ScoreMember  `json:"members"`
	Supports []ScoreSupport `json:"supports"`
}

type ScoreResult struct {
	FragilityScore float64        `json:"fragility_score"`
	RiskBand       string         `json:"risk_band"`
	Features       map[string]any `json:"features"`
}

// NewScorePayload projects members and supports onto the scorer request with
// the minimal defaults the scorer contract requires: empty roles become
// dependent, unset stability and strength become 0.5, and edges without both
// endpoints are dropped.
func NewScorePayload(members []Member, supports []SupportEdge) ScorePayload {
	out := ScorePayload{
		Members:  make([]ScoreMember, 0, len(members)),
		Supports: make([]ScoreSupport, 0, len(supports)),
	}
	for _, m := range members {
		role := m.Role
		if role == "" {
			role = RoleDependent
		}
		out.Members = append(out.Members, ScoreMember{ID: m.ID, Role: role, IncomeStability: m.Stability()})
	}
	for _, s := range supports {
		if s.From == "" || s.To == "" {
			continue
		}
		strength := DefaultStability
		if s.Strength != nil {
			strength = *s.Strength
		}
		out.Supports = append(out.Supports, ScoreSupport{From: s.From, To: s.To, Strength: strength})
	}
	return out
}

package household

// Role is the position a person holds in the household's income structure.
type Role string

const (
	RoleEarner    Role = "earner"
	RoleDependent Role = "dependent"
)

// NormalizeRole coerces anything that is not exactly earner or dependent to dependent.
func NormalizeRole(r Role) Role {
	switch r {
	case RoleEarner, RoleDependent:
		return r
	default:
		return RoleDependent
	}
}

type SourceType string

const (
	SourceJob       SourceType = "job"
	SourceFreelance SourceType = "freelance"
	SourceRental    SourceType = "rental"
	SourceBusiness  SourceType = "business"
	SourcePension   SourceType = "pension"
)

type AmountBand string

const (
	AmountLow    AmountBand = "low"
	AmountMedium AmountBand = "medium"
	AmountHigh   AmountBand = "high"
)

// DefaultStability is assumed for any stability or volatility value that was never recorded.
const DefaultStability = 0.5

type IncomeSource struct {
	Type       SourceType `json:"type"`
	Stability  *float64   `json:"stability,omitempty"`
	Volatility *float64   `json:"volatility,omitempty"`
	IsPrimary  bool       `json:"is_primary"`
	AmountBand AmountBand `json:"amount_band,omitempty"`
}

func (s IncomeSource) EffectiveStability() float64 {
	if s.Stability == nil {
		return DefaultStability
	}
	return *s.Stability
}

func (s IncomeSource) EffectiveVolatility() float64 {
	if s.Volatility == nil {
		return DefaultStability
	}
	return *s.Volatility
}

// Clone returns a copy that shares no pointers with s.
func (s IncomeSource) Clone() IncomeSource {
	out := s
	if s.Stability != nil {
		out.Stability = Float(*s.Stability)
	}
	if s.Volatility != nil {
		out.Volatility = Float(*s.Volatility)
	}
	return out
}

type IncomeFeatures struct {
	AvgIncomeStability    float64 `json:"avg_income_stability"`
	IncomeDiversification float64 `json:"income_diversification"`
	PrimaryIncomeRisk     float64 `json:"primary_income_risk"`
	MaxIncomeVolatility   float64 `json:"max_income_volatility"`
	HasMultipleSources    bool    `json:"has_multiple_sources"`
	NumIncomeSources      int     `json:"num_income_sources"`
}

// Member is a person in a household as read from storage. Members are treated
// as values: enrichment and shocks produce copies via Clone.
type Member struct {
	ID              string          `json:"id"`
	Role            Role            `json:"role"`
	IncomeStability *float64        `json:"income_stability,omitempty"`
	IncomeSources   []IncomeSource  `json:"income_sources,omitempty"`
	IsApplicant     bool            `json:"is_applicant"`
	IncomeFeatures  *IncomeFeatures `json:"income_features,omitempty"`
}

// Stability is the legacy scalar, defaulting to 0.5 when it was never recorded.
func (m Member) Stability() float64 {
	if m.IncomeStability == nil {
		return DefaultStability
	}
	return *m.IncomeStability
}

func (m Member) IsEarner() bool { return m.Role == RoleEarner }

// Income reports which of the two income representations this member carries.
func (m Member) Income() IncomeData {
	if len(m.IncomeSources) > 0 {
		return Sources(m.IncomeSources)
	}
	return LegacyStability(m.Stability())
}

func (m Member) Clone() Member {
	out := m
	if m.IncomeStability != nil {
		out.IncomeStability = Float(*m.IncomeStability)
	}
	if m.IncomeSources != nil {
		out.IncomeSources = make([]IncomeSource, len(m.IncomeSources))
		for i, src := range m.IncomeSources {
			out.IncomeSources[i] = src.Clone()
		}
	}
	if m.IncomeFeatures != nil {
		f := *m.IncomeFeatures
		out.IncomeFeatures = &f
	}
	return out
}

// IncomeData is either LegacyStability or Sources.
type IncomeData interface {
	isIncomeData()
}

// LegacyStability is the single scalar recorded before income sources existed.
type LegacyStability float64

// Sources is a non-empty, ordered list of income sources.
type Sources []IncomeSource

func (LegacyStability) isIncomeData() {}
func (Sources) isIncomeData()         {}

type SupportEdge struct {
	From     string   `json:"from"`
	To       string   `json:"to"`
	Strength *float64 `json:"strength,omitempty"`
}

// Snapshot is the household graph as fetched for a single request.
type Snapshot struct {
	HouseholdID string        `json:"household_id,omitempty"`
	Members     []Member      `json:"members"`
	Supports    []SupportEdge `json:"supports"`
}

// CloneMembers deep-copies a member list.
func CloneMembers(in []Member) []Member {
	if in == nil {
		return nil
	}
	out := make([]Member, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

func (s *Snapshot) FindMember(id string) (Member, bool) {
	if s == nil || id == "" {
		return Member{}, false
	}
	for _, m := range s.Members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

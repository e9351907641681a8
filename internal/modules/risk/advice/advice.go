package advice

import (
	"fmt"

	"github.com/anchorrisk/anchorrisk-backend/internal/domain/household"
)

const (
	highFragility     = 0.6
	moderateFragility = 0.3
)

type SummaryView struct {
	Score    float64 `json:"score"`
	RiskBand string  `json:"risk_band"`
	Summary  string  `json:"summary"`
}

func Summary(rc *household.RiskContext) SummaryView {
	out := SummaryView{Score: rc.FragilityScore, RiskBand: rc.RiskBand}
	if out.RiskBand == "" {
		out.RiskBand = "UNKNOWN"
	}
	switch {
	case rc.FragilityScore > highFragility:
		out.Summary = "Household is highly vulnerable to financial shocks."
	case rc.FragilityScore >= moderateFragility:
		out.Summary = "Household has moderate financial resilience."
	default:
		out.Summary = "Household shows good financial resilience."
	}
	return out
}

// Explain lists income insights first, then structural reasons.
func Explain(rc *household.RiskContext) []string {
	reasons := append([]string{}, rc.IncomeInsights...)
	if flag(rc.Features, "single_point_failure") {
		reasons = append(reasons, "Single income source supports the household")
	}
	if number(rc.Features, "dependency_ratio") > 2 {
		reasons = append(reasons, "High number of dependents per earner")
	}
	if number(rc.Features, "shock_amplification") > 0.6 {
		reasons = append(reasons, "Expenses and medical risk amplify financial stress")
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "Household structure shows strong financial resilience")
	}
	return reasons
}

type WeakLinksView struct {
	CriticalMembers []string `json:"critical_members"`
	Reason          string   `json:"reason"`
}

func WeakLinks(rc *household.RiskContext) WeakLinksView {
	critical := rc.GraphMetrics.CriticalMembers
	if critical == nil {
		critical = []string{}
	}
	out := WeakLinksView{CriticalMembers: critical, Reason: "No critical single points of failure detected."}
	if len(critical) > 0 {
		out.Reason = "Failure of these members would cause cascading financial stress."
	}
	return out
}

func Recommendations(rc *household.RiskContext) []string {
	out := []string{}
	spf := flag(rc.Features, "single_point_failure")

	singleSourceEarner := false
	for _, m := range rc.Members {
		if m.IsEarner() && len(m.IncomeSources) <= 1 {
			singleSourceEarner = true
			break
		}
	}
	if singleSourceEarner && spf {
		out = append(out, "Diversify income sources - consider secondary income streams")
	}
	if spf {
		out = append(out, "Add a secondary income source")
	}
	if number(rc.Features, "dependency_ratio") > 2 {
		out = append(out, "Reduce dependency burden")
	}
	if number(rc.Features, "shock_amplification") > 0.6 {
		out = append(out, "Create emergency fund")
	}
	if len(out) == 0 {
		out = append(out, "No immediate risk-reducing actions required")
	}
	return out
}

type LoanRisk string

const (
	LoanRiskLow    LoanRisk = "LOW"
	LoanRiskMedium LoanRisk = "MEDIUM"
	LoanRiskHigh   LoanRisk = "HIGH"
)

type ChainAnalysis struct {
	HasChainRisk  bool                    `json:"has_chain_risk"`
	MaxChainDepth int                     `json:"max_chain_depth"`
	ChainDetails  []household.ChainDetail `json:"chain_details"`
}

type LoanEvaluation struct {
	LoanRisk      LoanRisk      `json:"loan_risk"`
	Suggestions   []string      `json:"suggestions"`
	ApplicantID   *string       `json:"applicant_id"`
	ChainAnalysis ChainAnalysis `json:"chain_analysis"`
}

// EvaluateLoan grades lending risk from the fragility score and escalates it
// on structural red flags only when fragility is already high.
func EvaluateLoan(rc *household.RiskContext) LoanEvaluation {
	score := rc.FragilityScore
	gm := rc.GraphMetrics

	var risk LoanRisk
	var suggestions []string
	switch {
	case score > highFragility:
		risk = LoanRiskHigh
		suggestions = []string{
			"Household has high fragility. Recommend additional collateral or co-applicant.",
			"Reduce loan tenure to minimize exposure.",
		}
	case score >= moderateFragility:
		risk = LoanRiskMedium
		suggestions = []string{
			"Household has moderate fragility. Advise on income stability measures.",
			"Review budget for non-essential expenses to free up cash flow.",
			"Explore options to build a small emergency fund.",
		}
	default:
		risk = LoanRiskLow
		suggestions = []string{"Household shows good financial resilience. Proceed with standard loan terms."}
	}

	if flag(rc.Features, "single_point_failure") {
		suggestions = append(suggestions, "Require income backup or guarantor")
		if score > highFragility {
			risk = LoanRiskHigh
		}
	}

	if gm.HasChainRisk && score > moderateFragility {
		suggestions = append(suggestions,
			"Mitigate cascading dependency risk",
			"Ensure earners have emergency fund coverage",
		)
		for _, chain := range gm.ChainDetails {
			if chain.ChainDepth > 3 {
				suggestions = append(suggestions, fmt.Sprintf("Member %s has %d-level dependency chain - monitor closely", chain.Earner, chain.ChainDepth))
			}
		}
		if gm.MaxChainDepth > 3 && score > highFragility {
			risk = LoanRiskHigh
		}
	}

	if gm.MaxChainDepth > 2 && score > moderateFragility {
		suggestions = append(suggestions, "Consider shorter loan period due to dependency chain depth")
	}

	if len(gm.CriticalMembers) > 0 && gm.NumEarners > 0 && score > moderateFragility {
		if float64(len(gm.CriticalMembers))/float64(gm.NumEarners) > 0.7 {
			suggestions = append(suggestions, "High concentration of critical earners - require additional security")
		}
	}

	if len(suggestions) == 0 {
		suggestions = append(suggestions, "No additional safeguards required - household shows good financial resilience")
	}

	out := LoanEvaluation{
		LoanRisk:    risk,
		Suggestions: suggestions,
		ChainAnalysis: ChainAnalysis{
			HasChainRisk:  gm.HasChainRisk,
			MaxChainDepth: gm.MaxChainDepth,
			ChainDetails:  gm.ChainDetails,
		},
	}
	if out.ChainAnalysis.ChainDetails == nil {
		out.ChainAnalysis.ChainDetails = []household.ChainDetail{}
	}
	if rc.Applicant != nil {
		id := rc.Applicant.ID
		out.ApplicantID = &id
	}
	return out
}

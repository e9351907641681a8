package income

import "github.com/anchorrisk/anchorrisk-backend/internal/domain/household"

const (
	InsightDiversified       = "Risk reduced due to diversified income sources"
	InsightModerateDiversity = "Moderate income diversification from dual sources"
	InsightPrimaryDependence = "High fragility due to dependence on a single primary income"
	InsightHighVolatility    = "High income volatility increases financial stress"
	InsightLowStability      = "Low average income stability increases vulnerability"
)

// Insights explains a feature set in a fixed order.
func Insights(f household.IncomeFeatures) []string {
	out := []string{}
	if f.HasMultipleSources {
		if f.IncomeDiversification < 0.5 {
			out = append(out, InsightDiversified)
		} else if f.IncomeDiversification == 0.5 {
			out = append(out, InsightModerateDiversity)
		}
	}
	if f.PrimaryIncomeRisk > 0.7 {
		out = append(out, InsightPrimaryDependence)
	}
	if f.MaxIncomeVolatility > 0.8 {
		out = append(out, InsightHighVolatility)
	}
	if f.AvgIncomeStability < 0.3 {
		out = append(out, InsightLowStability)
	}
	return out
}

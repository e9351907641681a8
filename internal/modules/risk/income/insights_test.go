package income

import (
	"reflect"
	"testing"

	"github.com/anchorrisk/anchorrisk-backend/internal/domain/household"
)

func TestInsights(t *testing.T) {
	cases := []struct {
		name string
		in   household.IncomeFeatures
		want []string
	}{
		{
			name: "diversified",
			in:   household.IncomeFeatures{AvgIncomeStability: 0.7, IncomeDiversification: 1.0 / 3.0, PrimaryIncomeRisk: 0.2, MaxIncomeVolatility: 0.4, HasMultipleSources: true, NumIncomeSources: 3},
			want: []string{InsightDiversified},
		},
		{
			name: "dual sources",
			in:   household.IncomeFeatures{AvgIncomeStability: 0.7, IncomeDiversification: 0.5, PrimaryIncomeRisk: 0.2, MaxIncomeVolatility: 0.4, HasMultipleSources: true, NumIncomeSources: 2},
			want: []string{InsightModerateDiversity},
		},
		{
			name: "fragile single source",
			in:   household.IncomeFeatures{AvgIncomeStability: 0.1, IncomeDiversification: 1, PrimaryIncomeRisk: 0.9, MaxIncomeVolatility: 0.95, NumIncomeSources: 1},
			want: []string{InsightPrimaryDependence, InsightHighVolatility, InsightLowStability},
		},
		{
			name: "legacy diversification zero without multiple sources",
			in:   household.IncomeFeatures{AvgIncomeStability: 0.6, IncomeDiversification: 0, PrimaryIncomeRisk: 0.4, MaxIncomeVolatility: 0.5, NumIncomeSources: 1},
			want: []string{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Insights(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("want=%q got=%q", tc.want, got)
			}
		})
	}
}

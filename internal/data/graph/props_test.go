package graph

import (
	"math"
	"testing"

	"github.com/anchorrisk/anchorrisk-backend/internal/domain/household"
)

func TestNumAcceptsDriverNumerics(t *testing.T) {
	if got := num(int64(1)); got == nil || *got != 1 {
		t.Fatalf("int64: got %v", got)
	}
	if got := num(0.25); got == nil || *got != 0.25 {
		t.Fatalf("float64: got %v", got)
	}
	if num(nil) != nil || num("0.5") != nil || num(math.NaN()) != nil {
		t.Fatalf("non-numeric values should map to nil")
	}
}

func TestMemberFromProps(t *testing.T) {
	m := memberFromProps(map[string]any{
		"id":               "p1",
		"role":             "earner",
		"income_stability": int64(0),
		"is_applicant":     true,
	})
	if m.ID != "p1" || m.Role != household.RoleEarner || !m.IsApplicant {
		t.Fatalf("member: %+v", m)
	}
	if m.IncomeStability == nil || *m.IncomeStability != 0 {
		t.Fatalf("explicit zero stability lost: %+v", m.IncomeStability)
	}

	bare := memberFromProps(map[string]any{"id": "p2"})
	if bare.IncomeStability != nil || bare.IsApplicant {
		t.Fatalf("absent properties should stay unset: %+v", bare)
	}
}

func TestSourceFromProps(t *testing.T) {
	src := sourceFromProps(map[string]any{
		"type":        "rental",
		"stability":   0.8,
		"is_primary":  false,
		"amount_band": "medium",
	})
	if src.Type != household.SourceRental || src.AmountBand != household.AmountMedium {
		t.Fatalf("source: %+v", src)
	}
	if src.Volatility != nil || src.EffectiveVolatility() != household.DefaultStability {
		t.Fatalf("missing volatility should default: %+v", src)
	}
}

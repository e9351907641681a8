// Package riskctx assembles the per-request RiskContext every risk advisory
// is derived from.
package riskctx

import (
	"context"
	"errors"
	"fmt"

	"github.com/anchorrisk/anchorrisk-backend/internal/domain/household"
	"github.com/anchorrisk/anchorrisk-backend/internal/modules/risk/graphmetrics"
	"github.com/anchorrisk/anchorrisk-backend/internal/modules/risk/income"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/logger"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/scorer"
)

// HouseholdStore loads a household graph. A missing household is reported as
// household.ErrNotFound; an existing household with nobody in it is returned
// as a snapshot with no members.
type HouseholdStore interface {
	FetchSnapshot(ctx context.Context, householdID string) (*household.Snapshot, error)
}

type Builder struct {
	store   HouseholdStore
	scorer  scorer.Scorer
	metrics graphmetrics.Engine
	log     *logger.Logger
}

func NewBuilder(log *logger.Logger, store HouseholdStore, sc scorer.Scorer) (*Builder, error) {
	if log == nil {
		return nil, errors.New("riskctx: logger required")
	}
	if sc == nil {
		return nil, errors.New("riskctx: scorer required")
	}
	return &Builder{
		store:  store,
		scorer: sc,
		log:    log.With("service", "RiskContextBuilder"),
	}, nil
}

// Build fetches the household and assembles its RiskContext.
func (b *Builder) Build(ctx context.Context, householdID string) (*household.RiskContext, error) {
	if b.store == nil {
		return nil, errors.New("riskctx: household store not configured")
	}
	snap, err := b.store.FetchSnapshot(ctx, householdID)
	if err != nil {
		return nil, fmt.Errorf("fetch household: %w", err)
	}
	return b.BuildFromSnapshot(ctx, householdID, snap)
}

// BuildFromSnapshot assembles a RiskContext from an already-loaded snapshot.
// The snapshot is not modified.
func (b *Builder) BuildFromSnapshot(ctx context.Context, householdID string, snap *household.Snapshot) (*household.RiskContext, error) {
	if snap == nil {
		return nil, fmt.Errorf("household %q: %w", householdID, household.ErrNotFound)
	}
	if len(snap.Members) == 0 {
		return nil, fmt.Errorf("%w: %w", household.ErrNotFound, household.ErrNoMembers)
	}

	enriched := income.EnrichAll(snap.Members)

	res, err := b.scorer.Score(ctx, Clean(enriched, snap.Supports))
	if err != nil {
		return nil, fmt.Errorf("score household: %w", err)
	}

	rc := &household.RiskContext{
		HouseholdID:    householdID,
		FragilityScore: res.FragilityScore,
		RiskBand:       res.RiskBand,
		Features:       res.Features,
		GraphMetrics:   b.metrics.Compute(enriched, snap.Supports),
		Applicant:      graphmetrics.ExtractApplicant(enriched),
		IncomeInsights: []string{},
		Members:        enriched,
	}
	if rc.RiskBand == "" {
		rc.RiskBand = "UNKNOWN"
	}
	if rc.Features == nil {
		rc.Features = map[string]any{}
	}
	for _, m := range enriched {
		if m.IncomeFeatures != nil {
			rc.IncomeInsights = append(rc.IncomeInsights, income.Insights(*m.IncomeFeatures)...)
		}
	}

	b.log.Debug("risk context built",
		"household_id", householdID,
		"members", len(enriched),
		"fragility_score", rc.FragilityScore,
		"risk_band", rc.RiskBand,
		"critical_members", len(rc.GraphMetrics.CriticalMembers),
	)
	return rc, nil
}

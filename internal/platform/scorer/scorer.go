// Package scorer talks to the fragility scorer: the external model that turns
// a cleaned household payload into a fragility score, a risk band and the
// feature vector it used.
package scorer

import (
	"context"
	"time"

	"github.com/anchorrisk/anchorrisk-backend/internal/domain/household"
	"github.com/anchorrisk/anchorrisk-backend/internal/observability"
)

// Scorer is the fragility scorer contract. Implementations must reject an
// empty member list with household.ErrNoMembers and report a response that
// carries no fragility_score as household.ErrScorerUnavailable.
type Scorer interface {
	Score(ctx context.Context, payload household.ScorePayload) (*household.ScoreResult, error)
}

type instrumented struct {
	next    Scorer
	backend string
	metrics *observability.Metrics
}

// Instrument records call counts and latency for next under the backend label.
func Instrument(next Scorer, backend string, m *observability.Metrics) Scorer {
	if m == nil {
		return next
	}
	return &instrumented{next: next, backend: backend, metrics: m}
}

func (s *instrumented) Score(ctx context.Context, payload household.ScorePayload) (*household.ScoreResult, error) {
	start := time.Now()
	res, err := s.next.Score(ctx, payload)
	s.metrics.ObserveScorer(s.backend, err, time.Since(start))
	return res, err
}

package riskctx

import (
	"context"
	"fmt"

	"github.com/anchorrisk/anchorrisk-backend/internal/domain/household"
)

type fakeStore struct {
	snaps map[string]*household.Snapshot
}

func (s fakeStore) FetchSnapshot(_ context.Context, id string) (*household.Snapshot, error) {
	snap, ok := s.snaps[id]
	if !ok {
		return nil, fmt.Errorf("household %q: %w", id, household.ErrNotFound)
	}
	return snap, nil
}

type fakeScorer struct {
	result   *household.ScoreResult
	err      error
	payloads []household.ScorePayload
}

func (s *fakeScorer) Score(_ context.Context, p household.ScorePayload) (*household.ScoreResult, error) {
	s.payloads = append(s.payloads, p)
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

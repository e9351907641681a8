package simulation

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/anchorrisk/anchorrisk-backend/internal/domain/household"
)

// BatchResult pairs a scenario with its outcome. Error is set instead of
// Result when the scenario named a member that is not in the household.
type BatchResult struct {
	Scenario Scenario                    `json:"scenario"`
	Result   *household.SimulationResult `json:"result,omitempty"`
	Error    string                      `json:"error,omitempty"`
}

// SimulateBatch runs independent scenarios against the same snapshot
// concurrently. Results keep the order of scenarios. Any failure other than
// an unknown member aborts the whole batch.
func (e *Engine) SimulateBatch(ctx context.Context, snap *household.Snapshot, scenarios []Scenario) ([]BatchResult, error) {
	if err := checkSnapshot(snap); err != nil {
		return nil, err
	}
	out := make([]BatchResult, len(scenarios))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallelism)
	for i, sc := range scenarios {
		out[i].Scenario = sc
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := e.simulate(gctx, snap, sc)
			switch {
			case errors.Is(err, household.ErrInvalidMember):
				out[i].Error = err.Error()
				return nil
			case err != nil:
				return err
			}
			out[i].Result = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/anchorrisk/anchorrisk-backend/internal/domain/household"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/logger"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/scorer"
)

const defaultHouseholdID = "local"

func loadSnapshot(path string) (*household.Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var snap household.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	if snap.HouseholdID == "" {
		snap.HouseholdID = defaultHouseholdID
	}
	return &snap, nil
}

func newLogger(mode string) (*logger.Logger, error) {
	log, err := logger.New(mode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

func newScorer(log *logger.Logger, url string) (scorer.Scorer, error) {
	if url == "" {
		return scorer.Heuristic{}, nil
	}
	return scorer.New(log, scorer.Options{BaseURL: url})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

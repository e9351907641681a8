package app

import (
	"context"
	"fmt"

	"github.com/anchorrisk/anchorrisk-backend/internal/data/graph"
	"github.com/anchorrisk/anchorrisk-backend/internal/modules/risk/riskctx"
	"github.com/anchorrisk/anchorrisk-backend/internal/observability"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/gcp"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/logger"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/neo4jdb"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/scorer"
	"github.com/anchorrisk/anchorrisk-backend/internal/realtime/bus"
)

const (
	backendHTTP      = "http"
	backendHeuristic = "heuristic"
)

type Clients struct {
	Neo4j   *neo4jdb.Client
	Store   riskctx.HouseholdStore
	Scorer  scorer.Scorer
	Backend string
	Bus     bus.Bus
	Archive gcp.ReportArchive
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config, metrics *observability.Metrics) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	// Neo4j
	n4j, err := neo4jdb.New(log, cfg.Neo4j)
	if err != nil {
		return Clients{}, fmt.Errorf("init neo4j: %w", err)
	}
	out.Neo4j = n4j
	if n4j != nil {
		store, err := graph.NewNeo4jHouseholdStore(log, n4j)
		if err != nil {
			out.Close(ctx)
			return Clients{}, fmt.Errorf("init household store: %w", err)
		}
		out.Store = store
	} else {
		store := graph.NewMemoryHouseholdStore()
		if cfg.FixturesPath != "" {
			store, err = graph.LoadFixtures(cfg.FixturesPath)
			if err != nil {
				out.Close(ctx)
				return Clients{}, fmt.Errorf("load household fixtures: %w", err)
			}
		}
		log.Warn("NEO4J_URI not set; using in-memory household store", "fixtures", cfg.FixturesPath)
		out.Store = store
	}

	// Scorer
	if cfg.Scorer.URL != "" {
		client, err := scorer.New(log, scorer.Options{
			BaseURL:    cfg.Scorer.URL,
			APIKey:     cfg.Scorer.APIKey,
			Timeout:    cfg.Scorer.Timeout,
			MaxRetries: cfg.Scorer.MaxRetries,
		})
		if err != nil {
			out.Close(ctx)
			return Clients{}, fmt.Errorf("init scorer: %w", err)
		}
		out.Scorer = client
		out.Backend = backendHTTP
	} else {
		log.Warn("ML_SERVICE_URL not set; using heuristic scorer")
		out.Scorer = scorer.Heuristic{}
		out.Backend = backendHeuristic
	}
	out.Scorer = scorer.Instrument(out.Scorer, out.Backend, metrics)

	// Redis
	b, err := bus.New(log, cfg.Bus)
	if err != nil {
		out.Close(ctx)
		return Clients{}, fmt.Errorf("init event bus: %w", err)
	}
	out.Bus = b

	// Gcs
	archive, err := gcp.NewReportArchive(ctx, log, cfg.Archive)
	if err != nil {
		out.Close(ctx)
		return Clients{}, fmt.Errorf("init report archive: %w", err)
	}
	out.Archive = archive

	return out, nil
}

func (c *Clients) Close(ctx context.Context) {
	if c == nil {
		return
	}
	if c.Archive != nil {
		_ = c.Archive.Close()
	}
	if c.Bus != nil {
		_ = c.Bus.Close()
	}
	if c.Neo4j != nil {
		_ = c.Neo4j.Close(ctx)
	}
}

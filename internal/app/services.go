package app

import (
	"fmt"

	"github.com/anchorrisk/anchorrisk-backend/internal/data/repos"
	"github.com/anchorrisk/anchorrisk-backend/internal/observability"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/idhash"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/logger"
	"github.com/anchorrisk/anchorrisk-backend/internal/services"
)

type Services struct {
	Risk services.RiskService
}

func wireServices(log *logger.Logger, cfg Config, clients Clients, reposet repos.Repos, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")
	risk, err := services.NewRiskService(log, services.RiskServiceDeps{
		Store:          clients.Store,
		Scorer:         clients.Scorer,
		Backend:        clients.Backend,
		Hasher:         idhash.New(cfg.IDs.HashSalt),
		HashIDs:        cfg.IDs.HashIDs,
		Assessments:    reposet.Assessments,
		SimulationRuns: reposet.SimulationRuns,
		Bus:            clients.Bus,
		Archive:        clients.Archive,
		Metrics:        metrics,
	})
	if err != nil {
		return Services{}, fmt.Errorf("init risk service: %w", err)
	}
	return Services{Risk: risk}, nil
}

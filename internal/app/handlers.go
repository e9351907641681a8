package app

import (
	"context"

	"gorm.io/gorm"

	httpH "github.com/anchorrisk/anchorrisk-backend/internal/http/handlers"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/logger"
	"github.com/anchorrisk/anchorrisk-backend/internal/realtime"
)

type Handlers struct {
	Health   *httpH.HealthHandler
	Risk     *httpH.RiskHandler
	Realtime *httpH.RealtimeHandler
}

func wireHandlers(log *logger.Logger, services Services, hub *realtime.Hub, db *gorm.DB, clients Clients) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(readinessChecks(db, clients)),
		Risk:     httpH.NewRiskHandler(log, services.Risk),
		Realtime: httpH.NewRealtimeHandler(log, hub, services.Risk),
	}
}

func readinessChecks(db *gorm.DB, clients Clients) map[string]httpH.Pinger {
	checks := map[string]httpH.Pinger{}
	if db != nil {
		checks["database"] = func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}
	if clients.Neo4j != nil {
		checks["neo4j"] = func(ctx context.Context) error {
			return clients.Neo4j.Driver.VerifyConnectivity(ctx)
		}
	}
	return checks
}

package repos

import (
	"gorm.io/gorm"

	"github.com/anchorrisk/anchorrisk-backend/internal/data/repos/audit"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/logger"
)

type AssessmentRepo = audit.AssessmentRepo
type SimulationRunRepo = audit.SimulationRunRepo

type Repos struct {
	Assessments    AssessmentRepo
	SimulationRuns SimulationRunRepo
}

func New(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		Assessments:    audit.NewAssessmentRepo(db, log),
		SimulationRuns: audit.NewSimulationRunRepo(db, log),
	}
}

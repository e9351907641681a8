package audit

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/anchorrisk/anchorrisk-backend/internal/domain/audit"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/dbctx"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/logger"
)

type SimulationRunRepo interface {
	Create(dbc dbctx.Context, runs []*types.SimulationRun) ([]*types.SimulationRun, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.SimulationRun, error)
	ListByHousehold(dbc dbctx.Context, householdID string, limit int) ([]*types.SimulationRun, error)
}

type simulationRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSimulationRunRepo(db *gorm.DB, baseLog *logger.Logger) SimulationRunRepo {
	return &simulationRunRepo{db: db, log: baseLog.With("repo", "SimulationRunRepo")}
}

func (r *simulationRunRepo) Create(dbc dbctx.Context, runs []*types.SimulationRun) ([]*types.SimulationRun, error) {
	if len(runs) == 0 {
		return []*types.SimulationRun{}, nil
	}
	if err := dbc.DB(r.db).Create(&runs).Error; err != nil {
		return nil, MapError("create simulation runs", err)
	}
	return runs, nil
}

func (r *simulationRunRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.SimulationRun, error) {
	var out types.SimulationRun
	if err := dbc.DB(r.db).Where("id = ?", id).First(&out).Error; err != nil {
		return nil, MapError("get simulation run", err)
	}
	return &out, nil
}

func (r *simulationRunRepo) ListByHousehold(dbc dbctx.Context, householdID string, limit int) ([]*types.SimulationRun, error) {
	out := []*types.SimulationRun{}
	err := dbc.DB(r.db).
		Where("household_id = ?", householdID).
		Order("created_at DESC").
		Limit(clampLimit(limit)).
		Find(&out).Error
	if err != nil {
		return nil, MapError("list simulation runs", err)
	}
	return out, nil
}

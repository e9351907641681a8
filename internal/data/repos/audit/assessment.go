package audit

import (
	"gorm.io/gorm"

	types "github.com/anchorrisk/anchorrisk-backend/internal/domain/audit"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/dbctx"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/logger"
)

type AssessmentRepo interface {
	Create(dbc dbctx.Context, a *types.Assessment) error
	Latest(dbc dbctx.Context, householdID string) (*types.Assessment, error)
	ListByHousehold(dbc dbctx.Context, householdID string, limit int) ([]*types.Assessment, error)
}

type assessmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssessmentRepo(db *gorm.DB, baseLog *logger.Logger) AssessmentRepo {
	return &assessmentRepo{db: db, log: baseLog.With("repo", "AssessmentRepo")}
}

func (r *assessmentRepo) Create(dbc dbctx.Context, a *types.Assessment) error {
	if err := dbc.DB(r.db).Create(a).Error; err != nil {
		return MapError("create assessment", err)
	}
	return nil
}

func (r *assessmentRepo) Latest(dbc dbctx.Context, householdID string) (*types.Assessment, error) {
	var out types.Assessment
	err := dbc.DB(r.db).
		Where("household_id = ?", householdID).
		Order("created_at DESC").
		First(&out).Error
	if err != nil {
		return nil, MapError("latest assessment", err)
	}
	return &out, nil
}

func (r *assessmentRepo) ListByHousehold(dbc dbctx.Context, householdID string, limit int) ([]*types.Assessment, error) {
	out := []*types.Assessment{}
	err := dbc.DB(r.db).
		Where("household_id = ?", householdID).
		Order("created_at DESC").
		Limit(clampLimit(limit)).
		Find(&out).Error
	if err != nil {
		return nil, MapError("list assessments", err)
	}
	return out, nil
}

const (
	defaultListLimit = 20
	maxListLimit     = 200
)

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultListLimit
	case limit > maxListLimit:
		return maxListLimit
	default:
		return limit
	}
}

// Package audit holds the persisted record of risk assessments and shock
// simulations. Household and member ids are stored hashed.
package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Assessment struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	HouseholdID string    `gorm:"column:household_id;not null;index" json:"household_id"`

	FragilityScore float64 `gorm:"column:fragility_score;not null" json:"fragility_score"`
	RiskBand       string  `gorm:"column:risk_band;not null;index" json:"risk_band"`
	NumMembers     int     `gorm:"column:num_members;not null" json:"num_members"`
	NumEarners     int     `gorm:"column:num_earners;not null" json:"num_earners"`
	LoanRisk       string  `gorm:"column:loan_risk" json:"loan_risk,omitempty"`
	ScorerBackend  string  `gorm:"column:scorer_backend;not null" json:"scorer_backend"`

	Context   datatypes.JSON `gorm:"column:context" json:"context"`
	ReportURI string         `gorm:"column:report_uri" json:"report_uri,omitempty"`
	TraceID   string         `gorm:"column:trace_id;index" json:"trace_id,omitempty"`

	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Assessment) TableName() string { return "risk_assessments" }

func (a *Assessment) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

type SimulationRun struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	HouseholdID    string    `gorm:"column:household_id;not null;index" json:"household_id"`
	AffectedMember string    `gorm:"column:affected_member;not null" json:"affected_member"`
	ShockType      string    `gorm:"column:shock_type;not null;index" json:"shock_type"`

	BeforeScore   float64 `gorm:"column:before_score;not null" json:"before_score"`
	AfterScore    float64 `gorm:"column:after_score;not null" json:"after_score"`
	Delta         float64 `gorm:"column:delta;not null" json:"delta"`
	Impact        string  `gorm:"column:impact;not null;index" json:"impact"`
	RiskBandAfter string  `gorm:"column:risk_band_after" json:"risk_band_after"`

	Details datatypes.JSON `gorm:"column:details" json:"details"`
	TraceID string         `gorm:"column:trace_id;index" json:"trace_id,omitempty"`

	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (SimulationRun) TableName() string { return "simulation_runs" }

func (s *SimulationRun) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Models lists every audit table for migrations.
func Models() []any {
	return []any{&Assessment{}, &SimulationRun{}}
}

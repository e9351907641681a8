package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/anchorrisk/anchorrisk-backend/internal/data/repos"
	"github.com/anchorrisk/anchorrisk-backend/internal/domain/audit"
	"github.com/anchorrisk/anchorrisk-backend/internal/domain/household"
	"github.com/anchorrisk/anchorrisk-backend/internal/modules/risk/advice"
	"github.com/anchorrisk/anchorrisk-backend/internal/modules/risk/render"
	"github.com/anchorrisk/anchorrisk-backend/internal/modules/risk/riskctx"
	"github.com/anchorrisk/anchorrisk-backend/internal/modules/risk/simulation"
	"github.com/anchorrisk/anchorrisk-backend/internal/observability"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/ctxutil"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/dbctx"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/gcp"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/idhash"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/logger"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/scorer"
	"github.com/anchorrisk/anchorrisk-backend/internal/realtime"
	"github.com/anchorrisk/anchorrisk-backend/internal/realtime/bus"
)

type RiskService interface {
	Context(ctx context.Context, householdID string) (*household.RiskContext, error)
	GraphMetrics(ctx context.Context, householdID string) (household.GraphMetrics, error)
	Summary(ctx context.Context, householdID string) (advice.SummaryView, error)
	Explain(ctx context.Context, householdID string) ([]string, error)
	WeakLinks(ctx context.Context, householdID string) (advice.WeakLinksView, error)
	Recommendations(ctx context.Context, householdID string) ([]string, error)
	LoanEvaluation(ctx context.Context, householdID string) (advice.LoanEvaluation, error)
	GraphData(ctx context.Context, householdID string) (advice.GraphView, error)
	GraphImage(ctx context.Context, householdID string) ([]byte, error)

	Simulate(ctx context.Context, householdID string, sc simulation.Scenario) (*household.SimulationResult, error)
	SimulateBatch(ctx context.Context, householdID string, scenarios []simulation.Scenario) ([]simulation.BatchResult, error)
	RecentSimulations(ctx context.Context, householdID string, limit int) ([]*audit.SimulationRun, error)

	// Channel is the event stream channel for a caller-supplied household id.
	Channel(householdID string) string
}

type RiskServiceDeps struct {
	Store   riskctx.HouseholdStore
	Scorer  scorer.Scorer
	Backend string
	Hasher  idhash.Hasher
	// HashIDs controls whether path ids are hashed before lookup.
	HashIDs bool

	Assessments    repos.AssessmentRepo
	SimulationRuns repos.SimulationRunRepo
	Bus            bus.Bus
	Archive        gcp.ReportArchive
	Metrics        *observability.Metrics
}

type riskService struct {
	log     *logger.Logger
	deps    RiskServiceDeps
	builder *riskctx.Builder
	engine  *simulation.Engine
	now     func() time.Time
}

func NewRiskService(log *logger.Logger, deps RiskServiceDeps) (RiskService, error) {
	if deps.Store == nil || deps.Scorer == nil {
		return nil, errors.New("risk service: store and scorer required")
	}
	builder, err := riskctx.NewBuilder(log, deps.Store, deps.Scorer)
	if err != nil {
		return nil, err
	}
	engine, err := simulation.NewEngine(log, deps.Scorer)
	if err != nil {
		return nil, err
	}
	if deps.Backend == "" {
		deps.Backend = "unknown"
	}
	return &riskService{
		log:     log.With("service", "RiskService"),
		deps:    deps,
		builder: builder,
		engine:  engine,
		now:     time.Now,
	}, nil
}

func (s *riskService) householdKey(id string) string {
	if !s.deps.HashIDs {
		return id
	}
	return s.deps.Hasher.Ensure(id)
}

func (s *riskService) memberKey(id string) string {
	if !s.deps.HashIDs {
		return id
	}
	return s.deps.Hasher.Ensure(id)
}

func (s *riskService) Channel(householdID string) string {
	return s.householdKey(householdID)
}

func (s *riskService) build(ctx context.Context, householdID string) (*household.RiskContext, *household.Snapshot, error) {
	key := s.householdKey(householdID)
	if key == "" {
		return nil, nil, mapRiskError(household.ErrInvalidInput)
	}
	snap, err := s.deps.Store.FetchSnapshot(ctx, key)
	if err != nil {
		return nil, nil, mapRiskError(err)
	}
	rc, err := s.builder.BuildFromSnapshot(ctx, key, snap)
	if err != nil {
		return nil, nil, mapRiskError(err)
	}
	return rc, snap, nil
}

func (s *riskService) Context(ctx context.Context, householdID string) (*household.RiskContext, error) {
	rc, _, err := s.build(ctx, householdID)
	if err != nil {
		return nil, err
	}
	s.recordAssessment(ctx, rc, "")
	return rc, nil
}

func (s *riskService) GraphMetrics(ctx context.Context, householdID string) (household.GraphMetrics, error) {
	rc, _, err := s.build(ctx, householdID)
	if err != nil {
		return household.GraphMetrics{}, err
	}
	return rc.GraphMetrics, nil
}

func (s *riskService) Summary(ctx context.Context, householdID string) (advice.SummaryView, error) {
	rc, _, err := s.build(ctx, householdID)
	if err != nil {
		return advice.SummaryView{}, err
	}
	return advice.Summary(rc), nil
}

func (s *riskService) Explain(ctx context.Context, householdID string) ([]string, error) {
	rc, _, err := s.build(ctx, householdID)
	if err != nil {
		return nil, err
	}
	return advice.Explain(rc), nil
}

func (s *riskService) WeakLinks(ctx context.Context, householdID string) (advice.WeakLinksView, error) {
	rc, _, err := s.build(ctx, householdID)
	if err != nil {
		return advice.WeakLinksView{}, err
	}
	return advice.WeakLinks(rc), nil
}

func (s *riskService) Recommendations(ctx context.Context, householdID string) ([]string, error) {
	rc, _, err := s.build(ctx, householdID)
	if err != nil {
		return nil, err
	}
	return advice.Recommendations(rc), nil
}

func (s *riskService) LoanEvaluation(ctx context.Context, householdID string) (advice.LoanEvaluation, error) {
	rc, _, err := s.build(ctx, householdID)
	if err != nil {
		return advice.LoanEvaluation{}, err
	}
	eval := advice.EvaluateLoan(rc)
	s.recordAssessment(ctx, rc, string(eval.LoanRisk))
	return eval, nil
}

func (s *riskService) GraphData(ctx context.Context, householdID string) (advice.GraphView, error) {
	rc, snap, err := s.build(ctx, householdID)
	if err != nil {
		return advice.GraphView{}, err
	}
	return advice.BuildGraphView(rc, snap.Supports), nil
}

func (s *riskService) GraphImage(ctx context.Context, householdID string) ([]byte, error) {
	view, err := s.GraphData(ctx, householdID)
	if err != nil {
		return nil, err
	}
	png, err := render.GraphPNG(view, render.Options{})
	if err != nil {
		s.log.Error("render graph image failed", "household_id", householdID, "error", err)
		return nil, err
	}
	if s.deps.Archive != nil {
		if _, err := s.deps.Archive.Put(ctx, s.householdKey(householdID), gcp.ReportGraphImage, "png", png); err != nil {
			s.log.Warn("archive graph image failed", "household_id", householdID, "error", err)
		}
	}
	return png, nil
}

func (s *riskService) snapshot(ctx context.Context, householdID string) (string, *household.Snapshot, error) {
	key := s.householdKey(householdID)
	if key == "" {
		return "", nil, mapRiskError(household.ErrInvalidInput)
	}
	snap, err := s.deps.Store.FetchSnapshot(ctx, key)
	if err != nil {
		return "", nil, mapRiskError(err)
	}
	return key, snap, nil
}

func (s *riskService) Simulate(ctx context.Context, householdID string, sc simulation.Scenario) (*household.SimulationResult, error) {
	key, snap, err := s.snapshot(ctx, householdID)
	if err != nil {
		return nil, err
	}
	sc.AffectedMember = s.memberKey(sc.AffectedMember)
	res, err := s.engine.Simulate(ctx, snap, sc.AffectedMember, sc.ShockType)
	if err != nil {
		return nil, mapRiskError(err)
	}
	s.recordSimulations(ctx, key, []*household.SimulationResult{res})
	return res, nil
}

func (s *riskService) SimulateBatch(ctx context.Context, householdID string, scenarios []simulation.Scenario) ([]simulation.BatchResult, error) {
	key, snap, err := s.snapshot(ctx, householdID)
	if err != nil {
		return nil, err
	}
	hashed := make([]simulation.Scenario, len(scenarios))
	for i, sc := range scenarios {
		hashed[i] = simulation.Scenario{AffectedMember: s.memberKey(sc.AffectedMember), ShockType: sc.ShockType}
	}
	out, err := s.engine.SimulateBatch(ctx, snap, hashed)
	if err != nil {
		return nil, mapRiskError(err)
	}
	results := make([]*household.SimulationResult, 0, len(out))
	for _, r := range out {
		if r.Result != nil {
			results = append(results, r.Result)
		}
	}
	s.recordSimulations(ctx, key, results)
	return out, nil
}

func (s *riskService) RecentSimulations(ctx context.Context, householdID string, limit int) ([]*audit.SimulationRun, error) {
	if s.deps.SimulationRuns == nil {
		return []*audit.SimulationRun{}, nil
	}
	key := s.householdKey(householdID)
	if key == "" {
		return nil, mapRiskError(household.ErrInvalidInput)
	}
	runs, err := s.deps.SimulationRuns.ListByHousehold(dbctx.Context{Ctx: ctx}, key, limit)
	if err != nil {
		return nil, mapRiskError(err)
	}
	return runs, nil
}

func traceID(ctx context.Context) string {
	if td := ctxutil.GetTraceData(ctx); td != nil {
		return td.TraceID
	}
	return ""
}

// recordAssessment is best effort: audit, archive and event failures are
// logged and never fail the request.
func (s *riskService) recordAssessment(ctx context.Context, rc *household.RiskContext, loanRisk string) {
	s.deps.Metrics.IncAssessment(rc.RiskBand)
	raw, err := json.Marshal(rc)
	if err != nil {
		s.log.Warn("marshal risk context failed", "error", err)
		raw = []byte("{}")
	}

	var reportURI string
	if s.deps.Archive != nil {
		uri, err := s.deps.Archive.Put(ctx, rc.HouseholdID, gcp.ReportAssessment, "json", raw)
		if err != nil {
			s.log.Warn("archive assessment failed", "household_id", rc.HouseholdID, "error", err)
		}
		reportURI = uri
	}

	if s.deps.Assessments != nil {
		a := &audit.Assessment{
			HouseholdID:    rc.HouseholdID,
			FragilityScore: rc.FragilityScore,
			RiskBand:       rc.RiskBand,
			NumMembers:     rc.GraphMetrics.NumMembers,
			NumEarners:     rc.GraphMetrics.NumEarners,
			LoanRisk:       loanRisk,
			ScorerBackend:  s.deps.Backend,
			Context:        datatypes.JSON(raw),
			ReportURI:      reportURI,
			TraceID:        traceID(ctx),
			CreatedAt:      s.now(),
		}
		if err := s.deps.Assessments.Create(dbctx.Context{Ctx: ctx}, a); err != nil {
			s.log.Warn("record assessment failed", "household_id", rc.HouseholdID, "error", err)
		}
	}

	s.publish(ctx, realtime.Event{
		Channel: rc.HouseholdID,
		Type:    realtime.EventRiskAssessed,
		Data: map[string]any{
			"fragility_score":  rc.FragilityScore,
			"risk_band":        rc.RiskBand,
			"critical_members": rc.GraphMetrics.CriticalMembers,
			"loan_risk":        loanRisk,
		},
	})
}

func (s *riskService) recordSimulations(ctx context.Context, householdKey string, results []*household.SimulationResult) {
	if len(results) == 0 {
		return
	}
	now := s.now()
	runs := make([]*audit.SimulationRun, 0, len(results))
	for _, r := range results {
		s.deps.Metrics.IncSimulation(r.Details.ShockType, string(r.Impact))
		details, err := json.Marshal(r)
		if err != nil {
			details = []byte("{}")
		}
		if s.deps.Archive != nil {
			if _, err := s.deps.Archive.Put(ctx, householdKey, gcp.ReportSimulation, "json", details); err != nil {
				s.log.Warn("archive simulation failed", "household_id", householdKey, "error", err)
			}
		}
		runs = append(runs, &audit.SimulationRun{
			ID:             uuid.New(),
			HouseholdID:    householdKey,
			AffectedMember: r.Details.AffectedMember,
			ShockType:      r.Details.ShockType,
			BeforeScore:    r.Before,
			AfterScore:     r.After,
			Delta:          r.Details.ScoreChange,
			Impact:         string(r.Impact),
			RiskBandAfter:  scorer.Band(r.After),
			Details:        datatypes.JSON(details),
			TraceID:        traceID(ctx),
			CreatedAt:      now,
		})
	}

	if s.deps.SimulationRuns != nil {
		if _, err := s.deps.SimulationRuns.Create(dbctx.Context{Ctx: ctx}, runs); err != nil {
			s.log.Warn("record simulation runs failed", "household_id", householdKey, "error", err)
		}
	}

	for _, run := range runs {
		s.publish(ctx, realtime.Event{
			Channel: householdKey,
			Type:    realtime.EventSimulationCompleted,
			Data: map[string]any{
				"run_id":          run.ID.String(),
				"affected_member": run.AffectedMember,
				"shock_type":      run.ShockType,
				"before":          run.BeforeScore,
				"after":           run.AfterScore,
				"impact":          run.Impact,
			},
		})
	}
}

func (s *riskService) publish(ctx context.Context, ev realtime.Event) {
	if s.deps.Bus == nil {
		return
	}
	ev.TraceID = traceID(ctx)
	ev.At = s.now().UTC()
	err := s.deps.Bus.Publish(ctx, ev)
	s.deps.Metrics.IncEventPublish(string(ev.Type), err)
	if err != nil {
		s.log.Warn("publish event failed", "type", string(ev.Type), "error", err)
	}
}

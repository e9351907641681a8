package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/anchorrisk/anchorrisk-backend/internal/http/response"
	"github.com/anchorrisk/anchorrisk-backend/internal/modules/risk/simulation"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/logger"
	"github.com/anchorrisk/anchorrisk-backend/internal/services"
)

const maxBatchScenarios = 20

type RiskHandler struct {
	log      *logger.Logger
	risk     services.RiskService
	validate *validator.Validate
}

func NewRiskHandler(log *logger.Logger, risk services.RiskService) *RiskHandler {
	return &RiskHandler{
		log:      log.With("handler", "RiskHandler"),
		risk:     risk,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// POST /risk/analyze/:id
func (h *RiskHandler) Analyze(c *gin.Context) {
	rc, err := h.risk.Context(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondFailure(c, err, "risk_analysis_failed")
		return
	}
	response.RespondOK(c, gin.H{
		"householdId":     rc.HouseholdID,
		"fragility_score": rc.FragilityScore,
		"risk_band":       rc.RiskBand,
		"features":        rc.Features,
		"members":         rc.Members,
	})
}

// GET /risk/context/:id
func (h *RiskHandler) GetContext(c *gin.Context) {
	rc, err := h.risk.Context(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondFailure(c, err, "risk_context_failed")
		return
	}
	response.RespondOK(c, rc)
}

// GET /risk/graph-metrics/:id
func (h *RiskHandler) GetGraphMetrics(c *gin.Context) {
	gm, err := h.risk.GraphMetrics(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondFailure(c, err, "graph_metrics_failed")
		return
	}
	response.RespondOK(c, gm)
}

// GET /risk/summary/:id
func (h *RiskHandler) GetSummary(c *gin.Context) {
	out, err := h.risk.Summary(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondFailure(c, err, "summary_failed")
		return
	}
	response.RespondOK(c, out)
}

// GET /risk/explain/:id
func (h *RiskHandler) GetExplain(c *gin.Context) {
	reasons, err := h.risk.Explain(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondFailure(c, err, "explain_failed")
		return
	}
	response.RespondOK(c, gin.H{"reasons": reasons})
}

// GET /risk/weak-links/:id
func (h *RiskHandler) GetWeakLinks(c *gin.Context) {
	out, err := h.risk.WeakLinks(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondFailure(c, err, "weak_links_failed")
		return
	}
	response.RespondOK(c, out)
}

// GET /risk/recommendations/:id
func (h *RiskHandler) GetRecommendations(c *gin.Context) {
	recs, err := h.risk.Recommendations(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondFailure(c, err, "recommendations_failed")
		return
	}
	response.RespondOK(c, gin.H{"recommendations": recs})
}

// POST /risk/loan-evaluation/:id
func (h *RiskHandler) EvaluateLoan(c *gin.Context) {
	out, err := h.risk.LoanEvaluation(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondFailure(c, err, "loan_evaluation_failed")
		return
	}
	response.RespondOK(c, out)
}

// GET /risk/graph-data/:id
func (h *RiskHandler) GetGraphData(c *gin.Context) {
	view, err := h.risk.GraphData(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondFailure(c, err, "graph_data_failed")
		return
	}
	response.RespondOK(c, view)
}

// GET /risk/graph-image/:id
func (h *RiskHandler) GetGraphImage(c *gin.Context) {
	png, err := h.risk.GraphImage(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondFailure(c, err, "graph_image_failed")
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

// POST /risk/simulate/:id
func (h *RiskHandler) Simulate(c *gin.Context) {
	var req simulation.Scenario
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("affected_member is required"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("affected_member is required"))
		return
	}
	res, err := h.risk.Simulate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.RespondFailure(c, err, "simulation_failed")
		return
	}
	response.RespondOK(c, res)
}

type simulateBatchRequest struct {
	Scenarios []simulation.Scenario `json:"scenarios" validate:"required,min=1,dive"`
}

// POST /risk/simulate-batch/:id
func (h *RiskHandler) SimulateBatch(c *gin.Context) {
	var req simulateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("scenarios must be non-empty and each needs affected_member"))
		return
	}
	if len(req.Scenarios) > maxBatchScenarios {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("at most %d scenarios per batch", maxBatchScenarios))
		return
	}
	out, err := h.risk.SimulateBatch(c.Request.Context(), c.Param("id"), req.Scenarios)
	if err != nil {
		response.RespondFailure(c, err, "simulation_failed")
		return
	}
	response.RespondOK(c, gin.H{"results": out})
}

// GET /risk/simulations/:id?limit=
func (h *RiskHandler) ListSimulations(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	runs, err := h.risk.RecentSimulations(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		response.RespondFailure(c, err, "list_simulations_failed")
		return
	}
	response.RespondOK(c, gin.H{"simulations": runs})
}

package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"medbrain/models"
	"medbrain/services"
	"medbrain/utils"

	"github.com/gin-gonic/gin"
)

type AIController struct {
	Analysis *services.AnalysisService
	Insights *services.InsightService
	Users    *services.UserService
}

func NewAIController(analysis *services.AnalysisService, insights *services.InsightService, users *services.UserService) *AIController {
	return &AIController{Analysis: analysis, Insights: insights, Users: users}
}

type AnalyzeInput struct {
	UserID string `json:"userId" binding:"required,uuid"`
}

// Analyze handles POST /api/ai/analyze. A run either fully succeeds and
// persists one insight, or fully fails and persists nothing.
func (a *AIController) Analyze(c *gin.Context) {
	var input AnalyzeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.Users.ByPublicID(c.Request.Context(), input.UserID)
	if err != nil {
		utils.Fail(c, http.StatusNotFound, "user not found")
		return
	}

	out, err := a.Analysis.Analyze(c.Request.Context(), user)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoMetricData):
			utils.Fail(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrAIServiceUnavailable):
			utils.Fail(c, http.StatusServiceUnavailable, err.Error()+". Please try again later.")
		case errors.Is(err, services.ErrAIServiceBadResponse):
			utils.Fail(c, http.StatusBadGateway, err.Error())
		default:
			utils.Fail(c, http.StatusInternalServerError, err.Error())
		}
		return
	}
	utils.OK(c, http.StatusOK, out)
}

// Latest handles GET /api/ai/latest?userId=.
func (a *AIController) Latest(c *gin.Context) {
	user, err := a.Users.ByPublicID(c.Request.Context(), c.Query("userId"))
	if err != nil {
		utils.Fail(c, http.StatusNotFound, "user not found")
		return
	}

	insight, err := a.Insights.Latest(c.Request.Context(), user.ID)
	if err != nil {
		if errors.Is(err, services.ErrNoInsights) {
			utils.Fail(c, http.StatusNotFound, "no AI insights available yet; submit daily metrics first")
			return
		}
		utils.Fail(c, http.StatusInternalServerError, "failed to retrieve AI insights")
		return
	}
	utils.OK(c, http.StatusOK, insightView(insight))
}

// History handles GET /api/ai/history?userId=&days= (newest first).
func (a *AIController) History(c *gin.Context) {
	user, err := a.Users.ByPublicID(c.Request.Context(), c.Query("userId"))
	if err != nil {
		utils.Fail(c, http.StatusNotFound, "user not found")
		return
	}

	days := clampDays(c.DefaultQuery("days", "30"))

	summaries, err := a.Insights.History(c.Request.Context(), user.ID, days)
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "failed to retrieve insight history")
		return
	}
	utils.OK(c, http.StatusOK, gin.H{
		"user_id":  user.PublicID,
		"insights": summaries,
	})
}

func insightView(insight *models.AIInsight) gin.H {
	var suggestions []string
	_ = json.Unmarshal(insight.Suggestions, &suggestions)

	return gin.H{
		"insight_id":        insight.ID,
		"date":              utils.FormatDate(insight.Date),
		"phase":             insight.Phase,
		"phase_description": services.PhaseDescription(insight.Phase),
		"confidence":        insight.Confidence,
		"confidence_level":  services.ConfidenceLevel(insight.Confidence),
		"suggestions":       suggestions,
		"stats":             json.RawMessage(insight.Stats),
	}
}

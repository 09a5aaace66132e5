package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"medbrain/models"
	"medbrain/services"
	"medbrain/utils"

	"github.com/gin-gonic/gin"
)

type MetricsController struct {
	Metrics *services.MetricService
	Users   *services.UserService
}

func NewMetricsController(metrics *services.MetricService, users *services.UserService) *MetricsController {
	return &MetricsController{Metrics: metrics, Users: users}
}

type DailyMetricInput struct {
	UserID          string  `json:"userId" binding:"required,uuid"`
	Date            string  `json:"date" binding:"required,datetime=2006-01-02"`
	SleepStart      *string `json:"sleepStart" binding:"omitempty,hhmm"`
	SleepEnd        *string `json:"sleepEnd" binding:"omitempty,hhmm"`
	ScreenTime      float64 `json:"screenTime" binding:"min=0,max=24"`
	ActivityMinutes int     `json:"activityMinutes" binding:"min=0,max=1440"`
}

// CreateOrUpdateDaily handles POST /api/metrics/daily. One row per (user,
// day); 201 when the row is new, 200 when an existing day was overwritten.
func (m *MetricsController) CreateOrUpdateDaily(c *gin.Context) {
	var input DailyMetricInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if (input.SleepStart == nil) != (input.SleepEnd == nil) {
		utils.Fail(c, http.StatusBadRequest, "both sleep start and end times must be provided together")
		return
	}

	user, err := m.Users.ByPublicID(c.Request.Context(), input.UserID)
	if err != nil {
		utils.Fail(c, http.StatusNotFound, "user not found")
		return
	}

	date, _ := time.ParseInLocation("2006-01-02", input.Date, time.Local)

	metric, created, err := m.Metrics.Upsert(
		c.Request.Context(),
		user.ID,
		date,
		input.SleepStart,
		input.SleepEnd,
		input.ScreenTime,
		input.ActivityMinutes,
	)
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "failed to save metrics")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	view := metricView(metric)
	view["user_id"] = user.PublicID
	view["is_new_entry"] = created
	utils.OK(c, status, view)
}

// History handles GET /api/metrics/history?userId=&days= (ascending by date).
func (m *MetricsController) History(c *gin.Context) {
	user, err := m.Users.ByPublicID(c.Request.Context(), c.Query("userId"))
	if err != nil {
		utils.Fail(c, http.StatusNotFound, "user not found")
		return
	}

	days := clampDays(c.DefaultQuery("days", "30"))

	metrics, err := m.Metrics.History(c.Request.Context(), user.ID, days)
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "failed to retrieve metrics history")
		return
	}

	views := make([]gin.H, 0, len(metrics))
	for i := range metrics {
		views = append(views, metricView(&metrics[i]))
	}
	utils.OK(c, http.StatusOK, gin.H{
		"user_id":        user.PublicID,
		"days_requested": days,
		"days_returned":  len(metrics),
		"metrics":        views,
	})
}

// Latest handles GET /api/metrics/latest?userId=.
func (m *MetricsController) Latest(c *gin.Context) {
	user, err := m.Users.ByPublicID(c.Request.Context(), c.Query("userId"))
	if err != nil {
		utils.Fail(c, http.StatusNotFound, "user not found")
		return
	}

	metric, err := m.Metrics.Latest(c.Request.Context(), user.ID)
	if err != nil {
		if errors.Is(err, services.ErrNoMetrics) {
			utils.Fail(c, http.StatusNotFound, err.Error())
			return
		}
		utils.Fail(c, http.StatusInternalServerError, "failed to retrieve latest metric")
		return
	}
	utils.OK(c, http.StatusOK, metricView(metric))
}

func metricView(metric *models.DailyMetric) gin.H {
	return gin.H{
		"id":               metric.ID,
		"date":             utils.FormatDate(metric.Date),
		"sleep_start":      metric.SleepStart,
		"sleep_end":        metric.SleepEnd,
		"sleep_duration":   metric.SleepDuration,
		"screen_time":      metric.ScreenTime,
		"activity_minutes": metric.ActivityMinutes,
	}
}

// clampDays parses a days query param, defaulting to 30 and clamping to 1-365.
func clampDays(s string) int {
	days, err := strconv.Atoi(s)
	if err != nil {
		return 30
	}
	if days < 1 {
		return 1
	}
	if days > 365 {
		return 365
	}
	return days
}

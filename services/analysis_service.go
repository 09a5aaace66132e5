package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"medbrain/models"
	"medbrain/utils"

	"go.uber.org/zap"
)

var ErrNoMetricData = errors.New("no metrics available for analysis; submit daily metrics first")

// AnalysisService runs one analysis end to end: metric window fetch, AI call,
// insight persist, notification fan-out. Either the whole run succeeds and
// one insight is stored, or it fails and nothing is persisted.
type AnalysisService struct {
	metrics  *MetricService
	insights *InsightService
	ai       *AIClient
	notifier *Notifier
	log      *zap.SugaredLogger
}

func NewAnalysisService(
	metrics *MetricService,
	insights *InsightService,
	ai *AIClient,
	notifier *Notifier,
	log *zap.SugaredLogger,
) *AnalysisService {
	return &AnalysisService{metrics: metrics, insights: insights, ai: ai, notifier: notifier, log: log}
}

const analysisWindowDays = 30

type AnalysisOutput struct {
	InsightID          uint            `json:"insight_id"`
	Date               string          `json:"date"`
	Phase              int             `json:"phase"`
	PhaseDescription   string          `json:"phase_description"`
	Confidence         float64         `json:"confidence"`
	ConfidenceLevel    string          `json:"confidence_level"`
	Suggestions        []string        `json:"suggestions"`
	Stats              json.RawMessage `json:"stats"`
	AnalysisDurationMs int64           `json:"analysis_duration_ms"`
}

func (s *AnalysisService) Analyze(ctx context.Context, user *models.User) (*AnalysisOutput, error) {
	start := time.Now()

	history, err := s.metrics.History(ctx, user.ID, analysisWindowDays)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, ErrNoMetricData
	}

	estimated := utils.DetermineAnalysisPhase(len(history))
	s.log.Infof("analyzing %d days of data for user %s (estimated phase %d)",
		len(history), user.PublicID, estimated)

	result, err := s.ai.Analyze(ctx, user.PublicID, history)
	if err != nil {
		return nil, err
	}

	insight, err := s.insights.Create(ctx, user.ID, result)
	if err != nil {
		return nil, err
	}

	out := &AnalysisOutput{
		InsightID:          insight.ID,
		Date:               utils.FormatDate(insight.Date),
		Phase:              result.Phase,
		PhaseDescription:   PhaseDescription(result.Phase),
		Confidence:         result.Confidence,
		ConfidenceLevel:    ConfidenceLevel(result.Confidence),
		Suggestions:        result.Suggestions,
		Stats:              result.Stats,
		AnalysisDurationMs: time.Since(start).Milliseconds(),
	}

	s.log.Infof("analysis complete for user %s: phase=%d confidence=%.2f duration=%dms",
		user.PublicID, out.Phase, out.Confidence, out.AnalysisDurationMs)

	if s.notifier != nil {
		s.notifier.InsightCreated(user, out)
	}
	return out, nil
}

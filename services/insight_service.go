package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"medbrain/models"
	"medbrain/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrNoInsights = errors.New("no AI insights available yet")

type InsightService struct {
	db *gorm.DB
}

func NewInsightService(db *gorm.DB) *InsightService { return &InsightService{db: db} }

// Create persists one analysis run. Insights are never updated or merged;
// each run is an independent fact.
func (s *InsightService) Create(ctx context.Context, userID uint, result *AnalysisResult) (*models.AIInsight, error) {
	suggestions, err := json.Marshal(result.Suggestions)
	if err != nil {
		return nil, err
	}
	stats := result.Stats
	if stats == nil {
		stats = json.RawMessage("{}")
	}

	insight := models.AIInsight{
		UserID:      userID,
		Date:        time.Now(),
		Phase:       result.Phase,
		Confidence:  result.Confidence,
		Suggestions: datatypes.JSON(suggestions),
		Stats:       datatypes.JSON(stats),
	}
	if err := s.db.WithContext(ctx).Create(&insight).Error; err != nil {
		return nil, err
	}
	return &insight, nil
}

func (s *InsightService) Latest(ctx context.Context, userID uint) (*models.AIInsight, error) {
	var insight models.AIInsight
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		First(&insight).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoInsights
		}
		return nil, err
	}
	return &insight, nil
}

// InsightSummary is the lightweight list-view shape for history.
type InsightSummary struct {
	ID               uint    `json:"id"`
	Date             string  `json:"date"`
	Phase            int     `json:"phase"`
	Confidence       float64 `json:"confidence"`
	SuggestionsCount int     `json:"suggestions_count"`
}

func (s *InsightService) History(ctx context.Context, userID uint, days int) ([]InsightSummary, error) {
	from, to := utils.DateRange(days)

	var insights []models.AIInsight
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, from, to).
		Order("date DESC").
		Find(&insights).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]InsightSummary, 0, len(insights))
	for _, in := range insights {
		var suggestions []string
		_ = json.Unmarshal(in.Suggestions, &suggestions)
		summaries = append(summaries, InsightSummary{
			ID:               in.ID,
			Date:             utils.FormatDate(in.Date),
			Phase:            in.Phase,
			Confidence:       in.Confidence,
			SuggestionsCount: len(suggestions),
		})
	}
	return summaries, nil
}

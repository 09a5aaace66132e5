package services

import (
	"context"
	"errors"
	"time"

	"medbrain/models"
	"medbrain/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrNoMetrics = errors.New("no metrics found for this user")

type MetricService struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewMetricService(db *gorm.DB, log *zap.SugaredLogger) *MetricService {
	return &MetricService{db: db, log: log}
}

// Upsert writes the single metric row for (user, local day). The returned
// bool reports whether a new row was created, so callers never have to infer
// it from timestamps. Sleep duration is recomputed on every write.
func (s *MetricService) Upsert(
	ctx context.Context,
	userID uint,
	date time.Time,
	sleepStart, sleepEnd *string,
	screenTime float64,
	activityMinutes int,
) (*models.DailyMetric, bool, error) {
	start, end := "", ""
	if sleepStart != nil {
		start = *sleepStart
	}
	if sleepEnd != nil {
		end = *sleepEnd
	}
	duration, err := utils.CalculateSleepDuration(start, end)
	if err != nil {
		return nil, false, err
	}

	day := utils.DayStart(date)

	var metric models.DailyMetric
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, day).
		First(&metric).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		metric = models.DailyMetric{
			UserID:          userID,
			Date:            day,
			SleepStart:      sleepStart,
			SleepEnd:        sleepEnd,
			SleepDuration:   duration,
			ScreenTime:      screenTime,
			ActivityMinutes: activityMinutes,
		}
		if err := s.db.WithContext(ctx).Create(&metric).Error; err != nil {
			return nil, false, err
		}
		s.log.Infof("created daily metric for user %d on %s", userID, utils.FormatDate(day))
		return &metric, true, nil
	}
	if err != nil {
		return nil, false, err
	}

	metric.SleepStart = sleepStart
	metric.SleepEnd = sleepEnd
	metric.SleepDuration = duration
	metric.ScreenTime = screenTime
	metric.ActivityMinutes = activityMinutes
	if err := s.db.WithContext(ctx).Save(&metric).Error; err != nil {
		return nil, false, err
	}
	s.log.Infof("updated daily metric for user %d on %s", userID, utils.FormatDate(day))
	return &metric, false, nil
}

// History returns the trailing n days of metrics, oldest first, for charts
// and for the analysis window.
func (s *MetricService) History(ctx context.Context, userID uint, days int) ([]models.DailyMetric, error) {
	from, to := utils.DateRange(days)

	var metrics []models.DailyMetric
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, utils.DayStart(from), to).
		Order("date ASC").
		Find(&metrics).Error
	return metrics, err
}

func (s *MetricService) Latest(ctx context.Context, userID uint) (*models.DailyMetric, error) {
	var metric models.DailyMetric
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		First(&metric).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoMetrics
		}
		return nil, err
	}
	return &metric, nil
}

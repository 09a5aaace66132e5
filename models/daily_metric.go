package models

import (
	"time"

	"gorm.io/gorm"
)

// DailyMetric holds one lifestyle record per user per calendar day.
type DailyMetric struct {
	gorm.Model
	UserID uint      `gorm:"not null;uniqueIndex:idx_metric_user_date"`
	Date   time.Time `gorm:"not null;uniqueIndex:idx_metric_user_date"` // truncated to local day start

	SleepStart    *string  `gorm:"size:5"` // "HH:mm"
	SleepEnd      *string  `gorm:"size:5"`
	SleepDuration *float64 // hours, derived from start/end on every write

	ScreenTime      float64 // hours
	ActivityMinutes int
}

package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	PublicID string `gorm:"type:varchar(36);uniqueIndex;not null"` // external UUID used in API payloads
	Email    string `gorm:"uniqueIndex;not null"`
	Username string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null"`

	Onboarded       bool
	InsightTone     string `gorm:"size:20;default:supportive"`
	NotifyInsights  bool   `gorm:"default:true"`
	NotifyReminders bool
	IsActive        bool `gorm:"default:true"`
}

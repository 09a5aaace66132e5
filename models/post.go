package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Post is a community feed entry (insight/progress/support).
type Post struct {
	gorm.Model
	UserID         uint   `gorm:"index;not null"`
	Alias          string // username shown unless anonymous
	Type           string `gorm:"size:20;index"` // "insight" | "progress" | "support"
	Content        string `gorm:"type:text"`
	MetricSnapshot datatypes.JSON
	Anonymous      bool `gorm:"default:true"`

	Comments  []Comment
	Reactions []Reaction
}

type Comment struct {
	gorm.Model
	PostID  uint `gorm:"index;not null"`
	UserID  uint `gorm:"index;not null"`
	Alias   string
	Content string `gorm:"type:text"`
}

// At most one reaction per (post, user); a new type overwrites the old one.
// No soft delete: a removed reaction must free the unique slot immediately.
type Reaction struct {
	ID        uint   `gorm:"primaryKey"`
	PostID    uint   `gorm:"not null;uniqueIndex:idx_reaction_post_user"`
	UserID    uint   `gorm:"not null;uniqueIndex:idx_reaction_post_user"`
	Type      string `gorm:"size:20"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

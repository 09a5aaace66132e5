package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AIInsight is one snapshot per analysis run. Rows are insert-only.
type AIInsight struct {
	gorm.Model
	UserID     uint      `gorm:"index;not null"`
	Date       time.Time `gorm:"index;not null"`
	Phase      int
	Confidence float64

	Suggestions datatypes.JSON // ordered string array
	Stats       datatypes.JSON // opaque blob from the analysis service
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Activity is a logged exercise session. Date holds the calendar day only.
type Activity struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID `gorm:"type:uuid;column:user_id;not null;index:idx_activities_user_date,priority:1"`
	ActivityType string    `gorm:"column:activity_type;not null"`
	Duration     int       `gorm:"column:duration;not null"`
	Date         time.Time `gorm:"type:date;column:date;not null;index:idx_activities_user_date,priority:2"`
	Notes        *string   `gorm:"column:notes"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

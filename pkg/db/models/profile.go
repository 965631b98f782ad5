package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the one-to-one public profile row keyed by the user id.
type Profile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName  *string   `gorm:"column:full_name"`
	Email     *string   `gorm:"column:email"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

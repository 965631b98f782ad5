package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/xcelerate-fit/xcelerate-backend/pkg/types"
)

// User is an Xcelerate account. Settings toggles live in Preferences so every
// screen reads one row.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string    `gorm:"not null"`
	FullName     string    `gorm:"not null;default:''"`
	AvatarURL    *string
	Preferences  types.Preferences `gorm:"type:jsonb;not null;default:'{}'"`
	IsActive     bool              `gorm:"not null;default:true"`
	LastLoginAt  *time.Time
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string { return "users" }

// CanSignIn reports whether the account may start a session.
func (u *User) CanSignIn() bool {
	return u != nil && u.IsActive
}

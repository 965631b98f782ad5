package users

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/xcelerate-fit/xcelerate-backend/pkg/db/models"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/types"
)

// UserDTO is what the API returns for an account. The password hash never
// leaves the repository layer.
type UserDTO struct {
	ID          uuid.UUID         `json:"id"`
	Email       string            `json:"email"`
	FullName    string            `json:"full_name"`
	AvatarURL   *string           `json:"avatar_url,omitempty"`
	Preferences types.Preferences `json:"preferences"`
	IsActive    bool              `json:"is_active"`
	LastLoginAt *time.Time        `json:"last_login_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// CreateUserDTO carries a registration into the repository. A nil IsActive
// creates an active account.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	FullName     string
	IsActive     *bool
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	dto := UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		AvatarURL:   u.AvatarURL,
		Preferences: u.Preferences,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
	return &dto
}

// ToModel starts every account on the default preferences, so the settings
// screens render without a first save.
func (c CreateUserDTO) ToModel() *models.User {
	user := &models.User{
		ID:           uuid.New(),
		Email:        NormalizeEmail(c.Email),
		PasswordHash: c.PasswordHash,
		FullName:     strings.TrimSpace(c.FullName),
		Preferences:  types.DefaultPreferences(),
		IsActive:     true,
	}
	if c.IsActive != nil {
		user.IsActive = *c.IsActive
	}
	return user
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

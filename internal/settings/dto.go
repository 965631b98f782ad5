package settings

import (
	"github.com/google/uuid"

	"github.com/xcelerate-fit/xcelerate-backend/pkg/enums"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/types"
)

// Request identifies the signed-in user and the locale confirmations render in.
type Request struct {
	UserID uuid.UUID
	Locale string
}

// ProfileSection is what the profile form loads.
type ProfileSection struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// TwoFactorStatus is reported but never enabled.
type TwoFactorStatus struct {
	Enabled   bool   `json:"enabled"`
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

// Settings is the full settings page payload.
type Settings struct {
	Profile       ProfileSection             `json:"profile"`
	Notifications types.NotificationSettings `json:"notifications"`
	Appearance    types.AppearanceSettings   `json:"appearance"`
	TwoFactor     TwoFactorStatus            `json:"two_factor"`
}

// Result pairs the refreshed settings with the confirmation shown to the user.
type Result struct {
	Settings *Settings `json:"settings,omitempty"`
	Title    string    `json:"title"`
	Message  string    `json:"message"`
}

// ProfileInput is submitted by the profile form.
type ProfileInput struct {
	FullName string `json:"full_name" validate:"max=120"`
}

// NotificationsInput is submitted by the notifications form; absent flags keep their stored value.
type NotificationsInput struct {
	EmailNotifications       *bool `json:"emailNotifications"`
	ActivityReminders        *bool `json:"activityReminders"`
	AchievementNotifications *bool `json:"achievementNotifications"`
	MarketingEmails          *bool `json:"marketingEmails"`
}

func (in NotificationsInput) patch() types.PreferencesPatch {
	return types.PreferencesPatch{
		EmailNotifications:       in.EmailNotifications,
		ActivityReminders:        in.ActivityReminders,
		AchievementNotifications: in.AchievementNotifications,
		MarketingEmails:          in.MarketingEmails,
	}
}

// AppearanceInput is submitted by the appearance form.
type AppearanceInput struct {
	Theme            *enums.Theme `json:"theme"`
	ReduceAnimations *bool        `json:"reduceAnimations"`
}

func (in AppearanceInput) patch() types.PreferencesPatch {
	return types.PreferencesPatch{
		Theme:            in.Theme,
		ReduceAnimations: in.ReduceAnimations,
	}
}

// PasswordInput is submitted by the security form.
type PasswordInput struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

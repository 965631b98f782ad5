package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/xcelerate-fit/xcelerate-backend/pkg/enums"
)

const (
	prefKeyTheme                    = "theme"
	prefKeyReduceAnimations         = "reduceAnimations"
	prefKeyEmailNotifications       = "emailNotifications"
	prefKeyActivityReminders        = "activityReminders"
	prefKeyAchievementNotifications = "achievementNotifications"
	prefKeyMarketingEmails          = "marketingEmails"
)

// Preferences is the settings record persisted as JSON on the user row.
// Unknown keys written by other clients survive a decode/encode round trip.
type Preferences struct {
	Theme                    enums.Theme
	ReduceAnimations         bool
	EmailNotifications       bool
	ActivityReminders        bool
	AchievementNotifications bool
	MarketingEmails          bool

	extra map[string]json.RawMessage
}

// DefaultPreferences returns the values applied to any key that is absent or invalid.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:                    enums.ThemeSystem,
		ReduceAnimations:         false,
		EmailNotifications:       true,
		ActivityReminders:        true,
		AchievementNotifications: true,
		MarketingEmails:          false,
	}
}

// NotificationSettings is the subset edited on the notifications screen.
type NotificationSettings struct {
	EmailNotifications       bool `json:"emailNotifications"`
	ActivityReminders        bool `json:"activityReminders"`
	AchievementNotifications bool `json:"achievementNotifications"`
	MarketingEmails          bool `json:"marketingEmails"`
}

// AppearanceSettings is the subset edited on the appearance screen.
type AppearanceSettings struct {
	Theme            enums.Theme `json:"theme"`
	ReduceAnimations bool        `json:"reduceAnimations"`
}

func (p Preferences) Notifications() NotificationSettings {
	return NotificationSettings{
		EmailNotifications:       p.EmailNotifications,
		ActivityReminders:        p.ActivityReminders,
		AchievementNotifications: p.AchievementNotifications,
		MarketingEmails:          p.MarketingEmails,
	}
}

func (p Preferences) Appearance() AppearanceSettings {
	return AppearanceSettings{Theme: p.Theme, ReduceAnimations: p.ReduceAnimations}
}

// Merge applies every non-nil field of the patch and keeps everything else.
func (p Preferences) Merge(patch PreferencesPatch) Preferences {
	merged := p
	merged.extra = cloneRaw(p.extra)
	if patch.Theme != nil {
		merged.Theme = *patch.Theme
	}
	if patch.ReduceAnimations != nil {
		merged.ReduceAnimations = *patch.ReduceAnimations
	}
	if patch.EmailNotifications != nil {
		merged.EmailNotifications = *patch.EmailNotifications
	}
	if patch.ActivityReminders != nil {
		merged.ActivityReminders = *patch.ActivityReminders
	}
	if patch.AchievementNotifications != nil {
		merged.AchievementNotifications = *patch.AchievementNotifications
	}
	if patch.MarketingEmails != nil {
		merged.MarketingEmails = *patch.MarketingEmails
	}
	return merged
}

// MarshalJSON writes known keys over any preserved unknown keys.
func (p Preferences) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.extra)+6)
	for k, v := range p.extra {
		out[k] = v
	}
	theme := p.Theme
	if !theme.IsValid() {
		theme = enums.ThemeSystem
	}
	out[prefKeyTheme] = theme
	out[prefKeyReduceAnimations] = p.ReduceAnimations
	out[prefKeyEmailNotifications] = p.EmailNotifications
	out[prefKeyActivityReminders] = p.ActivityReminders
	out[prefKeyAchievementNotifications] = p.AchievementNotifications
	out[prefKeyMarketingEmails] = p.MarketingEmails
	return json.Marshal(out)
}

// UnmarshalJSON starts from the defaults and applies every well-typed known key.
func (p *Preferences) UnmarshalJSON(data []byte) error {
	decoded := DefaultPreferences()
	raw := map[string]json.RawMessage{}
	if len(data) > 0 && string(data) != "null" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("preferences: %w", err)
		}
	}

	if value, ok := raw[prefKeyTheme]; ok {
		var theme string
		if json.Unmarshal(value, &theme) == nil {
			if parsed, err := enums.ParseTheme(theme); err == nil {
				decoded.Theme = parsed
			}
		}
		delete(raw, prefKeyTheme)
	}

	for key, target := range map[string]*bool{
		prefKeyReduceAnimations:         &decoded.ReduceAnimations,
		prefKeyEmailNotifications:       &decoded.EmailNotifications,
		prefKeyActivityReminders:        &decoded.ActivityReminders,
		prefKeyAchievementNotifications: &decoded.AchievementNotifications,
		prefKeyMarketingEmails:          &decoded.MarketingEmails,
	} {
		value, ok := raw[key]
		if !ok {
			continue
		}
		var flag bool
		if json.Unmarshal(value, &flag) == nil {
			*target = flag
		}
		delete(raw, key)
	}

	if len(raw) > 0 {
		decoded.extra = raw
	}
	*p = decoded
	return nil
}

// Value marshals the record into JSON for the preferences column.
func (p Preferences) Value() (driver.Value, error) {
	buf, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(buf), nil
}

// Scan decodes the preferences column; NULL yields the defaults.
func (p *Preferences) Scan(value interface{}) error {
	if value == nil {
		*p = DefaultPreferences()
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("preferences: unsupported scan type %T", value)
	}
	return p.UnmarshalJSON(raw)
}

// PreferencesPatch carries the optional fields a settings screen submits.
type PreferencesPatch struct {
	Theme                    *enums.Theme `json:"theme,omitempty"`
	ReduceAnimations         *bool        `json:"reduceAnimations,omitempty"`
	EmailNotifications       *bool        `json:"emailNotifications,omitempty"`
	ActivityReminders        *bool        `json:"activityReminders,omitempty"`
	AchievementNotifications *bool        `json:"achievementNotifications,omitempty"`
	MarketingEmails          *bool        `json:"marketingEmails,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p PreferencesPatch) IsEmpty() bool {
	return p.Theme == nil &&
		p.ReduceAnimations == nil &&
		p.EmailNotifications == nil &&
		p.ActivityReminders == nil &&
		p.AchievementNotifications == nil &&
		p.MarketingEmails == nil
}

// Validate rejects a theme outside the supported set.
func (p PreferencesPatch) Validate() error {
	if p.Theme != nil && !p.Theme.IsValid() {
		return fmt.Errorf("invalid theme %q", *p.Theme)
	}
	return nil
}

func cloneRaw(in map[string]json.RawMessage) map[string]json.RawMessage {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]json.RawMessage, len(in))
	for k, v := range in {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

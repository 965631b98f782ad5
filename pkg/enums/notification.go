package enums

import "fmt"

// NotificationCategory is the severity shown next to a derived notification.
type NotificationCategory string

const (
	NotificationCategoryWarning NotificationCategory = "warning"
	NotificationCategoryInfo    NotificationCategory = "info"
	NotificationCategorySuccess NotificationCategory = "success"
)

var validNotificationCategories = []NotificationCategory{
	NotificationCategoryWarning,
	NotificationCategoryInfo,
	NotificationCategorySuccess,
}

func (c NotificationCategory) String() string {
	return string(c)
}

// IsValid checks whether the given category matches the canonical enum.
func (c NotificationCategory) IsValid() bool {
	for _, candidate := range validNotificationCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseNotificationCategory converts raw strings into NotificationCategory.
func ParseNotificationCategory(value string) (NotificationCategory, error) {
	for _, candidate := range validNotificationCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification category %q", value)
}

// NotificationKind names the rule that produced a notification. It is also the
// identifier prefix, so ids read "<kind>-<YYYY-MM-DD>".
type NotificationKind string

const (
	NotificationKindDaily      NotificationKind = "daily"
	NotificationKindWeekly     NotificationKind = "weekly"
	NotificationKindTrend      NotificationKind = "trend"
	NotificationKindStreak     NotificationKind = "streak"
	NotificationKindMotivation NotificationKind = "motivation"
)

var validNotificationKinds = []NotificationKind{
	NotificationKindDaily,
	NotificationKindWeekly,
	NotificationKindTrend,
	NotificationKindStreak,
	NotificationKindMotivation,
}

func (k NotificationKind) String() string {
	return string(k)
}

// IsValid checks whether the given kind matches the canonical enum.
func (k NotificationKind) IsValid() bool {
	for _, candidate := range validNotificationKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseNotificationKind converts raw strings into NotificationKind.
func ParseNotificationKind(value string) (NotificationKind, error) {
	for _, candidate := range validNotificationKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification kind %q", value)
}

package enums

import (
	"fmt"
	"strings"
)

// Theme is the appearance preference stored on the user record.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

var validThemes = []Theme{
	ThemeLight,
	ThemeDark,
	ThemeSystem,
}

func (t Theme) String() string {
	return string(t)
}

// IsValid reports whether the theme is one of the supported values.
func (t Theme) IsValid() bool {
	for _, candidate := range validThemes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTheme converts raw strings into a Theme.
func ParseTheme(value string) (Theme, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validThemes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid theme %q", value)
}

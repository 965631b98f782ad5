package i18n

// Catalog message ids.
const (
	MsgDailyEmptyTitle              = "DailyEmptyTitle"
	MsgDailyEmptyMessage            = "DailyEmptyMessage"
	MsgDailyDoneTitle               = "DailyDoneTitle"
	MsgDailyDoneMessage             = "DailyDoneMessage"
	MsgWeeklyProgressTitle          = "WeeklyProgressTitle"
	MsgWeeklyProgressMessage        = "WeeklyProgressMessage"
	MsgWeeklyReachedTitle           = "WeeklyReachedTitle"
	MsgWeeklyReachedMessage         = "WeeklyReachedMessage"
	MsgTrendDownTitle               = "TrendDownTitle"
	MsgTrendDownMessage             = "TrendDownMessage"
	MsgTrendUpTitle                 = "TrendUpTitle"
	MsgTrendUpMessage               = "TrendUpMessage"
	MsgStreakTitle                  = "StreakTitle"
	MsgStreakMessage                = "StreakMessage"
	MsgMotivationOutstandingTitle   = "MotivationOutstandingTitle"
	MsgMotivationOutstandingMessage = "MotivationOutstandingMessage"
	MsgMotivationGoodTitle          = "MotivationGoodTitle"
	MsgMotivationGoodMessage        = "MotivationGoodMessage"
	MsgMotivationStartTitle         = "MotivationStartTitle"
	MsgMotivationStartMessage       = "MotivationStartMessage"

	MsgDateToday     = "DateToday"
	MsgDateYesterday = "DateYesterday"
	MsgDateDaysAgo   = "DateDaysAgo"
	MsgDateShort     = "DateShort"

	MsgLogoutTitle               = "LogoutTitle"
	MsgLogoutMessage             = "LogoutMessage"
	MsgProfileUpdatedTitle       = "ProfileUpdatedTitle"
	MsgProfileUpdatedMessage     = "ProfileUpdatedMessage"
	MsgThemeUpdatedTitle         = "ThemeUpdatedTitle"
	MsgThemeUpdatedMessage       = "ThemeUpdatedMessage"
	MsgAppearanceUpdatedTitle    = "AppearanceUpdatedTitle"
	MsgAppearanceUpdatedMessage  = "AppearanceUpdatedMessage"
	MsgPreferencesUpdatedTitle   = "PreferencesUpdatedTitle"
	MsgPreferencesUpdatedMessage = "PreferencesUpdatedMessage"
	MsgPasswordUpdatedTitle      = "PasswordUpdatedTitle"
	MsgPasswordUpdatedMessage    = "PasswordUpdatedMessage"

	MsgPasswordTooShort       = "PasswordTooShort"
	MsgPasswordMismatch       = "PasswordMismatch"
	MsgCurrentPasswordInvalid = "CurrentPasswordInvalid"
	MsgTwoFactorUnavailable   = "TwoFactorUnavailable"

	MsgMenuDashboard = "MenuDashboard"
	MsgMenuProfile   = "MenuProfile"
	MsgMenuSettings  = "MenuSettings"
	MsgMenuLogout    = "MenuLogout"
)

// ThemeLabelID maps a theme value onto its display-name message.
func ThemeLabelID(theme string) string {
	switch theme {
	case "light":
		return "ThemeLight"
	case "dark":
		return "ThemeDark"
	default:
		return "ThemeSystem"
	}
}

// MonthShortID maps a month number (1-12) onto its abbreviated name message.
func MonthShortID(month int) string {
	if month < 1 || month > 12 {
		month = 1
	}
	return monthIDs[month-1]
}

var monthIDs = [...]string{
	"Month1", "Month2", "Month3", "Month4", "Month5", "Month6",
	"Month7", "Month8", "Month9", "Month10", "Month11", "Month12",
}

package notifications

import (
	"time"

	"github.com/xcelerate-fit/xcelerate-backend/pkg/i18n"
)

// RelativeDateLabel renders "today", "yesterday", "N days ago" within a week and a short
// day-month date beyond that. Dates after now count as today.
func RelativeDateLabel(loc *i18n.Localizer, now, date time.Time, location *time.Location) string {
	if location == nil {
		location = time.UTC
	}
	local := date.In(location)
	days := int(civilDate(now.In(location)).Sub(civilDate(local)).Hours() / 24)
	switch {
	case days <= 0:
		return loc.T(i18n.MsgDateToday, nil)
	case days == 1:
		return loc.T(i18n.MsgDateYesterday, nil)
	case days < weekDays:
		return loc.T(i18n.MsgDateDaysAgo, map[string]any{"Count": days})
	default:
		return loc.T(i18n.MsgDateShort, map[string]any{
			"Day":   local.Day(),
			"Month": loc.T(i18n.MonthShortID(int(local.Month())), nil),
		})
	}
}

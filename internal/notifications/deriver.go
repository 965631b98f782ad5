package notifications

import (
	"math"
	"strings"
	"time"

	"github.com/xcelerate-fit/xcelerate-backend/pkg/enums"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/i18n"
)

const (
	// DefaultWeeklyTarget is the number of activities per trailing week that counts as on track.
	DefaultWeeklyTarget = 5

	weekDays      = 7
	lookbackDays  = 2 * weekDays
	recentDays    = 3
	trendBand     = 20
	milestoneHigh = 50
	milestoneMid  = 20
	milestoneLow  = 5

	dateLayout = "2006-01-02"
)

// Input is everything one derivation pass reads.
type Input struct {
	Now        time.Time
	Activities []Activity
	// Older counts activities not present in Activities (older than the lookback window).
	// They only contribute to the all-time total.
	Older int
	Read  ReadSet
}

// Deriver turns an activity list into the ordered header notifications. It is pure: the
// same input always yields the same output.
type Deriver struct {
	location     *time.Location
	weeklyTarget int
}

// NewDeriver builds a deriver evaluating calendar days in location.
func NewDeriver(location *time.Location, weeklyTarget int) *Deriver {
	if location == nil {
		location = time.UTC
	}
	if weeklyTarget <= 0 {
		weeklyTarget = DefaultWeeklyTarget
	}
	return &Deriver{location: location, weeklyTarget: weeklyTarget}
}

// Location returns the timezone calendar days are evaluated in.
func (d *Deriver) Location() *time.Location {
	return d.location
}

// LookbackStart returns the first calendar date any window can reach, relative to now.
func (d *Deriver) LookbackStart(now time.Time) time.Time {
	return civilDate(now.In(d.location)).AddDate(0, 0, -(lookbackDays - 1))
}

// Derive evaluates the daily, weekly, trend, streak and milestone rules, in that order.
func (d *Deriver) Derive(in Input) *Result {
	now := in.Now.In(d.location)
	today := civilDate(now)
	stamp := today.Format(dateLayout)

	summary := Summary{
		TotalCount:   len(in.Activities) + max(in.Older, 0),
		WeeklyTarget: d.weeklyTarget,
	}

	for _, activity := range in.Activities {
		date, ok := parseActivityDate(activity.Date, d.location)
		if !ok {
			summary.UndatedCount++
			continue
		}
		daysAgo := int(today.Sub(date).Hours() / 24)
		if daysAgo < 0 {
			continue
		}
		if daysAgo == 0 {
			summary.TodayCount++
			summary.TodayMinutes += max(activity.Duration, 0)
		}
		if daysAgo < weekDays {
			summary.ThisWeekCount++
		} else if daysAgo < lookbackDays {
			summary.LastWeekCount++
		}
		if daysAgo < recentDays {
			summary.RecentCount++
		}
	}
	summary.WeeklyProgress = roundHalfUp(float64(summary.ThisWeekCount) / float64(d.weeklyTarget) * 100)

	items := make([]Notification, 0, 5)
	add := func(kind enums.NotificationKind, category enums.NotificationCategory, titleID, messageID string, params map[string]any) {
		items = append(items, Notification{
			ID:        kind.String() + "-" + stamp,
			Kind:      kind,
			Category:  category,
			Date:      now,
			titleID:   titleID,
			messageID: messageID,
			params:    params,
		})
	}

	if summary.TodayCount == 0 {
		add(enums.NotificationKindDaily, enums.NotificationCategoryWarning,
			i18n.MsgDailyEmptyTitle, i18n.MsgDailyEmptyMessage, nil)
	} else {
		add(enums.NotificationKindDaily, enums.NotificationCategorySuccess,
			i18n.MsgDailyDoneTitle, i18n.MsgDailyDoneMessage,
			map[string]any{"Count": summary.TodayCount, "Minutes": summary.TodayMinutes})
	}

	if summary.ThisWeekCount < d.weeklyTarget {
		add(enums.NotificationKindWeekly, enums.NotificationCategoryInfo,
			i18n.MsgWeeklyProgressTitle, i18n.MsgWeeklyProgressMessage,
			map[string]any{"Count": summary.ThisWeekCount, "Target": d.weeklyTarget, "Percent": summary.WeeklyProgress})
	} else {
		add(enums.NotificationKindWeekly, enums.NotificationCategorySuccess,
			i18n.MsgWeeklyReachedTitle, i18n.MsgWeeklyReachedMessage,
			map[string]any{"Target": d.weeklyTarget})
	}

	if summary.LastWeekCount > 0 {
		pct := roundHalfUp(float64(summary.ThisWeekCount-summary.LastWeekCount) / float64(summary.LastWeekCount) * 100)
		summary.TrendPercent = &pct
		switch {
		case pct < -trendBand:
			add(enums.NotificationKindTrend, enums.NotificationCategoryWarning,
				i18n.MsgTrendDownTitle, i18n.MsgTrendDownMessage,
				map[string]any{"Percent": -pct})
		case pct > trendBand:
			add(enums.NotificationKindTrend, enums.NotificationCategorySuccess,
				i18n.MsgTrendUpTitle, i18n.MsgTrendUpMessage,
				map[string]any{"Percent": pct})
		}
	}

	if summary.RecentCount == 0 && summary.TotalCount > 0 {
		add(enums.NotificationKindStreak, enums.NotificationCategoryWarning,
			i18n.MsgStreakTitle, i18n.MsgStreakMessage, nil)
	}

	total := map[string]any{"Count": summary.TotalCount}
	switch {
	case summary.TotalCount >= milestoneHigh:
		add(enums.NotificationKindMotivation, enums.NotificationCategorySuccess,
			i18n.MsgMotivationOutstandingTitle, i18n.MsgMotivationOutstandingMessage, total)
	case summary.TotalCount >= milestoneMid:
		add(enums.NotificationKindMotivation, enums.NotificationCategoryInfo,
			i18n.MsgMotivationGoodTitle, i18n.MsgMotivationGoodMessage, total)
	case summary.TotalCount >= milestoneLow:
		add(enums.NotificationKindMotivation, enums.NotificationCategoryInfo,
			i18n.MsgMotivationStartTitle, i18n.MsgMotivationStartMessage, total)
	}

	result := &Result{Items: items, Summary: summary, GeneratedAt: now}
	result.applyReadSet(in.Read)
	return result
}

// ValidID reports whether id has the <kind>-<YYYY-MM-DD> shape the deriver emits.
func ValidID(id string) bool {
	kind, stamp, ok := strings.Cut(strings.TrimSpace(id), "-")
	if !ok {
		return false
	}
	if !enums.NotificationKind(kind).IsValid() {
		return false
	}
	_, err := time.Parse(dateLayout, stamp)
	return err == nil
}

// parseActivityDate maps a raw date onto its calendar day (midnight UTC) in location.
func parseActivityDate(raw string, location *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return civilDate(t.In(location)), true
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", raw, location); err == nil {
		return civilDate(t), true
	}
	return time.Time{}, false
}

// civilDate drops the clock and zone, keeping the wall-clock calendar date at midnight UTC
// so day differences are immune to DST shifts.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

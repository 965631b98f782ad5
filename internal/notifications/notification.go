package notifications

import (
	"time"

	"github.com/xcelerate-fit/xcelerate-backend/pkg/enums"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/i18n"
)

// Activity is the slice of an activity record the deriver reads. Date is a calendar date
// (YYYY-MM-DD) or an RFC3339 timestamp; anything else is treated as undated.
type Activity struct {
	Date         string `json:"date"`
	Duration     int    `json:"duration"`
	ActivityType string `json:"activity_type,omitempty"`
}

// Notification is a derived header notification. It is never persisted; only its ID may
// end up in the user's read set.
type Notification struct {
	ID        string                     `json:"id"`
	Kind      enums.NotificationKind     `json:"kind"`
	Category  enums.NotificationCategory `json:"category"`
	Title     string                     `json:"title"`
	Message   string                     `json:"message"`
	Date      time.Time                  `json:"date"`
	DateLabel string                     `json:"date_label,omitempty"`
	Read      bool                       `json:"read"`

	titleID   string
	messageID string
	params    map[string]any
}

// Params exposes the template values used to render the message.
func (n Notification) Params() map[string]any {
	return n.params
}

// MessageID exposes the catalog id of the message body.
func (n Notification) MessageID() string {
	return n.messageID
}

// Summary carries the window counts behind a derivation.
type Summary struct {
	TodayCount     int  `json:"today_count"`
	TodayMinutes   int  `json:"today_minutes"`
	ThisWeekCount  int  `json:"this_week_count"`
	LastWeekCount  int  `json:"last_week_count"`
	RecentCount    int  `json:"recent_count"`
	TotalCount     int  `json:"total_count"`
	UndatedCount   int  `json:"undated_count"`
	WeeklyTarget   int  `json:"weekly_target"`
	WeeklyProgress int  `json:"weekly_progress"`
	TrendPercent   *int `json:"trend_percent,omitempty"`
}

// Result is one derivation pass.
type Result struct {
	Items       []Notification `json:"items"`
	UnreadCount int            `json:"unread_count"`
	Summary     Summary        `json:"summary"`
	GeneratedAt time.Time      `json:"generated_at"`
	Locale      string         `json:"locale,omitempty"`
}

// IDs returns the identifiers of every derived notification in order.
func (r *Result) IDs() []string {
	out := make([]string, 0, len(r.Items))
	for _, item := range r.Items {
		out = append(out, item.ID)
	}
	return out
}

// Localize renders titles, messages and date labels with the localizer.
func (r *Result) Localize(loc *i18n.Localizer, location *time.Location) {
	r.Locale = loc.Locale()
	for i := range r.Items {
		item := &r.Items[i]
		item.Title = loc.T(item.titleID, item.params)
		item.Message = loc.T(item.messageID, item.params)
		item.DateLabel = RelativeDateLabel(loc, r.GeneratedAt, item.Date, location)
	}
}

// applyReadSet recomputes every read flag and the unread count from the set.
func (r *Result) applyReadSet(read ReadSet) {
	r.UnreadCount = 0
	for i := range r.Items {
		r.Items[i].Read = read.Has(r.Items[i].ID)
		if !r.Items[i].Read {
			r.UnreadCount++
		}
	}
}

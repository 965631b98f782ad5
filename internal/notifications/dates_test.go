package notifications

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xcelerate-fit/xcelerate-backend/pkg/i18n"
)

func TestRelativeDateLabel(t *testing.T) {
	tr, err := i18n.New("id")
	require.NoError(t, err)
	id := tr.Localizer("id")
	en := tr.Localizer("en")

	cases := []struct {
		name string
		date time.Time
		id   string
		en   string
	}{
		{name: "same day", date: fixedNow.Add(-9 * time.Hour), id: "Hari ini", en: "Today"},
		{name: "future", date: fixedNow.Add(48 * time.Hour), id: "Hari ini", en: "Today"},
		{name: "yesterday", date: fixedNow.AddDate(0, 0, -1), id: "Kemarin", en: "Yesterday"},
		{name: "days ago", date: fixedNow.AddDate(0, 0, -6), id: "6 hari yang lalu", en: "6 days ago"},
		{name: "short date", date: time.Date(2024, 1, 2, 9, 0, 0, 0, jakarta), id: "2 Jan", en: "2 Jan"},
		{name: "localized month", date: time.Date(2023, 8, 17, 9, 0, 0, 0, jakarta), id: "17 Agu", en: "17 Aug"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.id, RelativeDateLabel(id, fixedNow, tc.date, jakarta))
			assert.Equal(t, tc.en, RelativeDateLabel(en, fixedNow, tc.date, jakarta))
		})
	}
}

package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoadsEmbeddedCatalogs(t *testing.T) {
	tr, err := New("id")
	require.NoError(t, err)
	assert.Equal(t, "id", tr.Default())
	assert.ElementsMatch(t, []string{"id", "en"}, tr.Supported())
	assert.Equal(t, "id", tr.Supported()[0])
}

func TestNewRejectsUnknownDefault(t *testing.T) {
	_, err := New("fr")
	assert.Error(t, err)

	_, err = New("not a tag!")
	assert.Error(t, err)
}

func TestMatch(t *testing.T) {
	tr, err := New("id")
	require.NoError(t, err)

	cases := []struct {
		name       string
		candidates []string
		want       string
	}{
		{name: "empty falls back", want: "id"},
		{name: "exact code", candidates: []string{"en"}, want: "en"},
		{name: "regional variant", candidates: []string{"en-GB"}, want: "en"},
		{name: "accept-language header", candidates: []string{"fr-CH, en;q=0.8, id;q=0.5"}, want: "en"},
		{name: "unsupported skipped", candidates: []string{"ja", "", "en-US"}, want: "en"},
		{name: "nothing supported", candidates: []string{"ja"}, want: "id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tr.Match(tc.candidates...))
		})
	}
}

func TestLocalizerRendersTemplates(t *testing.T) {
	tr, err := New("id")
	require.NoError(t, err)

	id := tr.Localizer("id")
	assert.Equal(t, "id", id.Locale())
	assert.Equal(t,
		"Bagus! Anda sudah berolahraga 30 menit hari ini dengan 1 aktivitas.",
		id.T(MsgDailyDoneMessage, map[string]any{"Minutes": 30, "Count": 1}),
	)
	assert.Equal(t, "Mei", id.T(MonthShortID(5), nil))
	assert.Equal(t, "gelap", id.T(ThemeLabelID("dark"), nil))

	en := tr.Localizer("en-US")
	assert.Equal(t, "en", en.Locale())
	assert.Equal(t, "3 days ago", en.T(MsgDateDaysAgo, map[string]any{"Count": 3}))
	assert.Equal(t, "May", en.T(MonthShortID(5), nil))
}

func TestLocalizerMissingID(t *testing.T) {
	tr, err := New("id")
	require.NoError(t, err)
	assert.Equal(t, "NoSuchMessage", tr.Localizer("en").T("NoSuchMessage", nil))

	var nilLocalizer *Localizer
	assert.Equal(t, "DateToday", nilLocalizer.T(MsgDateToday, nil))
}

func TestCatalogsDefineSameIDs(t *testing.T) {
	tr, err := New("id")
	require.NoError(t, err)
	ids := []string{
		MsgDailyEmptyTitle, MsgDailyEmptyMessage, MsgDailyDoneTitle, MsgDailyDoneMessage,
		MsgWeeklyProgressTitle, MsgWeeklyProgressMessage, MsgWeeklyReachedTitle, MsgWeeklyReachedMessage,
		MsgTrendDownTitle, MsgTrendDownMessage, MsgTrendUpTitle, MsgTrendUpMessage,
		MsgStreakTitle, MsgStreakMessage,
		MsgMotivationOutstandingTitle, MsgMotivationOutstandingMessage,
		MsgMotivationGoodTitle, MsgMotivationGoodMessage,
		MsgMotivationStartTitle, MsgMotivationStartMessage,
		MsgDateToday, MsgDateYesterday, MsgDateDaysAgo, MsgDateShort,
		MsgLogoutTitle, MsgLogoutMessage,
		MsgProfileUpdatedTitle, MsgProfileUpdatedMessage,
		MsgThemeUpdatedTitle, MsgThemeUpdatedMessage,
		MsgAppearanceUpdatedTitle, MsgAppearanceUpdatedMessage,
		MsgPreferencesUpdatedTitle, MsgPreferencesUpdatedMessage,
		MsgPasswordUpdatedTitle, MsgPasswordUpdatedMessage,
		MsgPasswordTooShort, MsgPasswordMismatch, MsgCurrentPasswordInvalid, MsgTwoFactorUnavailable,
		MsgMenuDashboard, MsgMenuProfile, MsgMenuSettings, MsgMenuLogout,
	}
	for _, locale := range tr.Supported() {
		loc := tr.Localizer(locale)
		for _, id := range ids {
			assert.NotEqual(t, id, loc.T(id, map[string]any{"Count": 1, "Min": 6}), "%s missing in %s", id, locale)
		}
	}
}

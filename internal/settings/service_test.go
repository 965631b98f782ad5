package settings

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/xcelerate-fit/xcelerate-backend/internal/users"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/config"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/db"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/db/models"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/enums"
	pkgerrors "github.com/xcelerate-fit/xcelerate-backend/pkg/errors"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/i18n"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/security"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/types"
)

var fixedNow = time.Date(2024, 1, 15, 3, 0, 0, 0, time.UTC)

type fixture struct {
	svc  Service
	conn *gorm.DB
	user *models.User
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.User{}, &models.Profile{}))

	translator, err := i18n.New("id")
	require.NoError(t, err)

	hash, err := security.HashPassword("lama123", config.PasswordConfig{})
	require.NoError(t, err)
	user, err := users.NewRepository(conn).Create(context.Background(), users.CreateUserDTO{
		Email:        "dewi@example.com",
		PasswordHash: hash,
		FullName:     "Dewi",
	})
	require.NoError(t, err)

	svc, err := NewService(ServiceParams{
		DB:             db.NewFromConn(conn),
		Translator:     translator,
		PasswordConfig: config.PasswordConfig{MinLength: 6},
		Now:            func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return fixture{svc: svc, conn: conn, user: user}
}

func boolPtr(v bool) *bool { return &v }

func themePtr(v enums.Theme) *enums.Theme { return &v }

func TestGetAppliesDefaults(t *testing.T) {
	f := newFixture(t)
	got, err := f.svc.Get(context.Background(), Request{UserID: f.user.ID})
	require.NoError(t, err)

	assert.Equal(t, "Dewi", got.Profile.FullName)
	assert.Equal(t, "dewi@example.com", got.Profile.Email)
	assert.Equal(t, types.DefaultPreferences().Notifications(), got.Notifications)
	assert.Equal(t, enums.ThemeSystem, got.Appearance.Theme)
	assert.False(t, got.TwoFactor.Enabled)
	assert.False(t, got.TwoFactor.Available)
	assert.NotEmpty(t, got.TwoFactor.Message)
}

func TestGetUnknownUser(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Get(context.Background(), Request{UserID: uuid.New()})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = f.svc.Get(context.Background(), Request{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestUpdateProfileWritesBothRecords(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.UpdateProfile(ctx, Request{UserID: f.user.ID, Locale: "id"}, ProfileInput{FullName: "  Dewi Lestari "})
	require.NoError(t, err)
	assert.Equal(t, "Dewi Lestari", res.Settings.Profile.FullName)
	assert.Equal(t, "Profil diperbarui", res.Title)

	var profile models.Profile
	require.NoError(t, f.conn.First(&profile, "id = ?", f.user.ID).Error)
	require.NotNil(t, profile.FullName)
	assert.Equal(t, "Dewi Lestari", *profile.FullName)
	assert.True(t, profile.UpdatedAt.Equal(fixedNow))

	stored, err := users.NewRepository(f.conn).FindByID(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dewi Lestari", stored.FullName)
}

func TestUpdateProfileUnknownUserRollsBack(t *testing.T) {
	f := newFixture(t)
	missing := uuid.New()
	_, err := f.svc.UpdateProfile(context.Background(), Request{UserID: missing}, ProfileInput{FullName: "Ghost"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	var count int64
	f.conn.Model(&models.Profile{}).Where("id = ?", missing).Count(&count)
	assert.Zero(t, count, "profile upsert must roll back with the user update")
}

func TestUpdateAppearanceKeepsNotificationFlags(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := Request{UserID: f.user.ID, Locale: "en"}

	_, err := f.svc.UpdateNotifications(ctx, req, NotificationsInput{
		EmailNotifications: boolPtr(false),
		MarketingEmails:    boolPtr(true),
	})
	require.NoError(t, err)

	res, err := f.svc.UpdateAppearance(ctx, req, AppearanceInput{
		Theme:            themePtr(enums.ThemeDark),
		ReduceAnimations: boolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "Appearance updated", res.Title)

	stored, err := users.NewRepository(f.conn).FindByID(ctx, f.user.ID)
	require.NoError(t, err)
	assert.False(t, stored.Preferences.EmailNotifications)
	assert.True(t, stored.Preferences.MarketingEmails)
	assert.True(t, stored.Preferences.ActivityReminders)
	assert.Equal(t, enums.ThemeDark, stored.Preferences.Theme)
	assert.True(t, stored.Preferences.ReduceAnimations)
}

func TestUpdateThemeOnlyTouchesTheme(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.UpdateAppearance(ctx, Request{UserID: f.user.ID}, AppearanceInput{ReduceAnimations: boolPtr(true)})
	require.NoError(t, err)

	res, err := f.svc.UpdateTheme(ctx, Request{UserID: f.user.ID, Locale: "id"}, enums.ThemeLight)
	require.NoError(t, err)
	assert.Equal(t, enums.ThemeLight, res.Settings.Appearance.Theme)
	assert.True(t, res.Settings.Appearance.ReduceAnimations)
	assert.Contains(t, res.Message, "terang")

	_, err = f.svc.UpdateTheme(ctx, Request{UserID: f.user.ID}, enums.Theme("neon"))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestUpdateRejectsEmptyPatch(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.UpdateNotifications(context.Background(), Request{UserID: f.user.ID}, NotificationsInput{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := Request{UserID: f.user.ID, Locale: "en"}

	cases := []struct {
		name  string
		input PasswordInput
		field string
	}{
		{name: "too short", input: PasswordInput{NewPassword: "12345", ConfirmPassword: "12345"}, field: "new_password"},
		{name: "mismatch", input: PasswordInput{NewPassword: "123456", ConfirmPassword: "654321"}, field: "confirm_password"},
		{name: "wrong current", input: PasswordInput{CurrentPassword: "salah", NewPassword: "baru123", ConfirmPassword: "baru123"}, field: "current_password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.ChangePassword(ctx, req, tc.input)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
			assert.Contains(t, typed.Details(), tc.field)
		})
	}

	stored, err := users.NewRepository(f.conn).FindByID(ctx, f.user.ID)
	require.NoError(t, err)
	ok, err := security.VerifyPassword("lama123", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok, "rejected changes must not persist")

	res, err := f.svc.ChangePassword(ctx, Request{UserID: f.user.ID, Locale: "id"}, PasswordInput{
		CurrentPassword: "lama123",
		NewPassword:     "baru123",
		ConfirmPassword: "baru123",
	})
	require.NoError(t, err)
	assert.Equal(t, "Password berhasil diperbarui", res.Message)

	stored, err = users.NewRepository(f.conn).FindByID(ctx, f.user.ID)
	require.NoError(t, err)
	ok, err = security.VerifyPassword("baru123", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestChangePasswordWithoutCurrent(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ChangePassword(context.Background(), Request{UserID: f.user.ID}, PasswordInput{
		NewPassword:     "sandi-baru",
		ConfirmPassword: "sandi-baru",
	})
	require.NoError(t, err)
}

package settings

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/xcelerate-fit/xcelerate-backend/internal/profiles"
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

// Service backs the four settings forms. Every preference write merges into the stored record.
type Service interface {
	Get(ctx context.Context, req Request) (*Settings, error)
	UpdateProfile(ctx context.Context, req Request, input ProfileInput) (*Result, error)
	UpdateNotifications(ctx context.Context, req Request, input NotificationsInput) (*Result, error)
	UpdateAppearance(ctx context.Context, req Request, input AppearanceInput) (*Result, error)
	UpdateTheme(ctx context.Context, req Request, theme enums.Theme) (*Result, error)
	ChangePassword(ctx context.Context, req Request, input PasswordInput) (*Result, error)
}

// ServiceParams wires settings dependencies.
type ServiceParams struct {
	DB             *db.Client
	Translator     *i18n.Translator
	PasswordConfig config.PasswordConfig
	Now            func() time.Time
}

type service struct {
	db          *db.Client
	users       *users.Repository
	profiles    profiles.Repository
	translator  *i18n.Translator
	passwordCfg config.PasswordConfig
	now         func() time.Time
}

// NewService builds the settings service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "database client required")
	}
	if params.Translator == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "translator required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		db:          params.DB,
		users:       users.NewRepository(params.DB.DB()),
		profiles:    profiles.NewRepository(params.DB.DB()),
		translator:  params.Translator,
		passwordCfg: params.PasswordConfig,
		now:         now,
	}, nil
}

func (s *service) Get(ctx context.Context, req Request) (*Settings, error) {
	if req.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user id required")
	}
	user, err := s.loadUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	profile, err := s.profiles.FindByID(ctx, req.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return s.assemble(req, user, profile), nil
}

// UpdateProfile writes the profile row and the user's display name in one transaction.
func (s *service) UpdateProfile(ctx context.Context, req Request, input ProfileInput) (*Result, error) {
	if req.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user id required")
	}
	fullName, err := profiles.NormalizeFullName(input.FullName)
	if err != nil {
		return nil, err
	}

	var (
		user    *models.User
		profile *models.Profile
	)
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.users.WithTx(tx)
		var txErr error
		profile, txErr = s.profiles.WithTx(tx).UpdateFullName(ctx, req.UserID, fullName, s.now().UTC())
		if txErr != nil {
			return txErr
		}
		if txErr = userRepo.UpdateFullName(ctx, req.UserID, fullName); txErr != nil {
			return txErr
		}
		user, txErr = userRepo.FindByID(ctx, req.UserID)
		return txErr
	})
	if err != nil {
		return nil, mapStoreError(err, "update profile")
	}

	loc := s.translator.Localizer(req.Locale)
	return &Result{
		Settings: s.assemble(req, user, profile),
		Title:    loc.T(i18n.MsgProfileUpdatedTitle, nil),
		Message:  loc.T(i18n.MsgProfileUpdatedMessage, nil),
	}, nil
}

func (s *service) UpdateNotifications(ctx context.Context, req Request, input NotificationsInput) (*Result, error) {
	return s.mergePreferences(ctx, req, input.patch(), i18n.MsgPreferencesUpdatedTitle, i18n.MsgPreferencesUpdatedMessage, nil)
}

func (s *service) UpdateAppearance(ctx context.Context, req Request, input AppearanceInput) (*Result, error) {
	return s.mergePreferences(ctx, req, input.patch(), i18n.MsgAppearanceUpdatedTitle, i18n.MsgAppearanceUpdatedMessage, nil)
}

// UpdateTheme saves only the theme, leaving reduce-motion and notification flags untouched.
func (s *service) UpdateTheme(ctx context.Context, req Request, theme enums.Theme) (*Result, error) {
	parsed, err := enums.ParseTheme(string(theme))
	if err != nil {
		return nil, pkgerrors.Field("theme", err.Error())
	}
	loc := s.translator.Localizer(req.Locale)
	data := map[string]any{"Theme": loc.T(i18n.ThemeLabelID(string(parsed)), nil)}
	return s.mergePreferences(ctx, req, types.PreferencesPatch{Theme: &parsed}, i18n.MsgThemeUpdatedTitle, i18n.MsgThemeUpdatedMessage, data)
}

// ChangePassword validates the new password before any store call. The current password is
// optional; when supplied it must match the stored hash.
func (s *service) ChangePassword(ctx context.Context, req Request, input PasswordInput) (*Result, error) {
	if req.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user id required")
	}
	loc := s.translator.Localizer(req.Locale)

	switch err := security.ValidateNewPassword(input.NewPassword, input.ConfirmPassword, s.passwordCfg.MinLength); {
	case errors.Is(err, security.ErrPasswordTooShort):
		return nil, pkgerrors.Field("new_password", loc.T(i18n.MsgPasswordTooShort, map[string]any{"Min": s.minPasswordLength()}))
	case errors.Is(err, security.ErrPasswordMismatch):
		return nil, pkgerrors.Field("confirm_password", loc.T(i18n.MsgPasswordMismatch, nil))
	case err != nil:
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid password")
	}

	if strings.TrimSpace(input.CurrentPassword) != "" {
		user, err := s.loadUser(ctx, req.UserID)
		if err != nil {
			return nil, err
		}
		ok, err := security.VerifyPassword(input.CurrentPassword, user.PasswordHash)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
		}
		if !ok {
			return nil, pkgerrors.Field("current_password", loc.T(i18n.MsgCurrentPasswordInvalid, nil))
		}
	}

	hash, err := security.HashPassword(input.NewPassword, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.users.UpdatePasswordHash(ctx, req.UserID, hash); err != nil {
		return nil, mapStoreError(err, "update password")
	}

	return &Result{
		Title:   loc.T(i18n.MsgPasswordUpdatedTitle, nil),
		Message: loc.T(i18n.MsgPasswordUpdatedMessage, nil),
	}, nil
}

func (s *service) mergePreferences(ctx context.Context, req Request, patch types.PreferencesPatch, titleID, messageID string, data map[string]any) (*Result, error) {
	if req.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user id required")
	}
	if patch.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no settings provided")
	}
	if err := patch.Validate(); err != nil {
		return nil, pkgerrors.Field("theme", err.Error())
	}

	user, err := s.users.MergePreferences(ctx, req.UserID, patch)
	if err != nil {
		return nil, mapStoreError(err, "update preferences")
	}
	profile, err := s.profiles.FindByID(ctx, req.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}

	loc := s.translator.Localizer(req.Locale)
	return &Result{
		Settings: s.assemble(req, user, profile),
		Title:    loc.T(titleID, nil),
		Message:  loc.T(messageID, data),
	}, nil
}

func (s *service) loadUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, "load user")
	}
	return user, nil
}

// assemble prefers the profile row for the profile section and falls back to the user metadata.
func (s *service) assemble(req Request, user *models.User, profile *models.Profile) *Settings {
	section := ProfileSection{FullName: user.FullName, Email: user.Email}
	if profile != nil {
		if profile.FullName != nil {
			section.FullName = *profile.FullName
		}
		if profile.Email != nil && *profile.Email != "" {
			section.Email = *profile.Email
		}
	}
	loc := s.translator.Localizer(req.Locale)
	return &Settings{
		Profile:       section,
		Notifications: user.Preferences.Notifications(),
		Appearance:    user.Preferences.Appearance(),
		TwoFactor: TwoFactorStatus{
			Enabled:   false,
			Available: false,
			Message:   loc.T(i18n.MsgTwoFactorUnavailable, nil),
		},
	}
}

func (s *service) minPasswordLength() int {
	if s.passwordCfg.MinLength <= 0 {
		return security.DefaultMinPasswordLength
	}
	return s.passwordCfg.MinLength
}

func mapStoreError(err error, action string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}

package header

import (
	"context"
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/xcelerate-fit/xcelerate-backend/internal/notifications"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/db/models"
	pkgerrors "github.com/xcelerate-fit/xcelerate-backend/pkg/errors"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/i18n"
)

const (
	PathDashboard   = "/dashboard"
	PathProfile     = "/profile"
	PathSettings    = "/settings"
	PathAfterLogout = "/"
	LogoutEndpoint  = "/api/v1/auth/logout"

	fallbackInitial = "U"
)

// UserSummary is the avatar block in the header.
type UserSummary struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Initials    string    `json:"initials"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
}

// MenuItem is one entry of the user dropdown.
type MenuItem struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Href  string `json:"href"`
}

// LogoutAction tells the client how to sign out and where to land afterwards.
type LogoutAction struct {
	Label    string `json:"label"`
	Method   string `json:"method"`
	Endpoint string `json:"endpoint"`
	Redirect string `json:"redirect"`
}

// Header is everything the dashboard header renders.
type Header struct {
	User          UserSummary           `json:"user"`
	Notifications *notifications.Result `json:"notifications"`
	Menu          []MenuItem            `json:"menu"`
	Logout        LogoutAction          `json:"logout"`
	Home          string                `json:"home"`
}

// Service assembles the header for the signed-in user.
type Service interface {
	Get(ctx context.Context, req notifications.Request) (*Header, error)
}

type userLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ServiceParams wires header dependencies.
type ServiceParams struct {
	Users         userLoader
	Notifications notifications.Service
	Translator    *i18n.Translator
}

type service struct {
	users         userLoader
	notifications notifications.Service
	translator    *i18n.Translator
}

// NewService builds the header service.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "user repository required")
	}
	if params.Notifications == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications service required")
	}
	if params.Translator == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "translator required")
	}
	return &service{
		users:         params.Users,
		notifications: params.Notifications,
		translator:    params.Translator,
	}, nil
}

// Get loads the user and derives notifications concurrently.
func (s *service) Get(ctx context.Context, req notifications.Request) (*Header, error) {
	if req.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user id required")
	}

	var (
		user   *models.User
		result *notifications.Result
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		loaded, err := s.users.FindByID(gctx, req.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeUnauthorized, "user no longer exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
		}
		user = loaded
		return nil
	})
	g.Go(func() error {
		derived, err := s.notifications.List(gctx, req)
		if err != nil {
			return err
		}
		result = derived
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	loc := s.translator.Localizer(req.Locale)
	return &Header{
		User:          Summarize(user),
		Notifications: result,
		Menu: []MenuItem{
			{Key: "dashboard", Label: loc.T(i18n.MsgMenuDashboard, nil), Href: PathDashboard},
			{Key: "profile", Label: loc.T(i18n.MsgMenuProfile, nil), Href: PathProfile},
			{Key: "settings", Label: loc.T(i18n.MsgMenuSettings, nil), Href: PathSettings},
		},
		Logout: LogoutAction{
			Label:    loc.T(i18n.MsgMenuLogout, nil),
			Method:   "POST",
			Endpoint: LogoutEndpoint,
			Redirect: PathAfterLogout,
		},
		Home: PathDashboard,
	}, nil
}

// Summarize builds the avatar block from the user record.
func Summarize(user *models.User) UserSummary {
	if user == nil {
		return UserSummary{Initials: fallbackInitial}
	}
	fullName := strings.TrimSpace(user.FullName)
	display := fullName
	if display == "" {
		display = user.Email
	}
	return UserSummary{
		ID:          user.ID,
		DisplayName: display,
		Email:       user.Email,
		Initials:    Initials(fullName, user.Email),
		AvatarURL:   user.AvatarURL,
	}
}

// Initials takes the first letter of each word of the full name, or the first letter of
// the email when there is no name, or "U".
func Initials(fullName, email string) string {
	var b strings.Builder
	for _, word := range strings.Fields(fullName) {
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
	}
	if b.Len() > 0 {
		return b.String()
	}
	if r, _ := utf8.DecodeRuneInString(strings.TrimSpace(email)); r != utf8.RuneError {
		return string(unicode.ToUpper(r))
	}
	return fallbackInitial
}

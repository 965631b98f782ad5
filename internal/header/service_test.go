package header

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/xcelerate-fit/xcelerate-backend/internal/notifications"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/db/models"
	pkgerrors "github.com/xcelerate-fit/xcelerate-backend/pkg/errors"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/i18n"
)

type stubUsers struct {
	user *models.User
	err  error
}

func (s stubUsers) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

type stubNotifications struct {
	notifications.Service
	listFn func(ctx context.Context, req notifications.Request) (*notifications.Result, error)
}

func (s stubNotifications) List(ctx context.Context, req notifications.Request) (*notifications.Result, error) {
	return s.listFn(ctx, req)
}

func newTestService(t *testing.T, users stubUsers, notes stubNotifications) Service {
	t.Helper()
	translator, err := i18n.New("id")
	if err != nil {
		t.Fatalf("translator: %v", err)
	}
	svc, err := NewService(ServiceParams{Users: users, Notifications: notes, Translator: translator})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestInitials(t *testing.T) {
	cases := []struct {
		fullName string
		email    string
		want     string
	}{
		{fullName: "budi santoso", email: "b@example.com", want: "BS"},
		{fullName: "  Sari  Dewi Ayu ", email: "", want: "SDA"},
		{fullName: "", email: "rina@example.com", want: "R"},
		{fullName: "", email: "", want: "U"},
		{fullName: "élodie", email: "", want: "É"},
	}
	for _, tc := range cases {
		if got := Initials(tc.fullName, tc.email); got != tc.want {
			t.Fatalf("Initials(%q, %q) = %q, want %q", tc.fullName, tc.email, got, tc.want)
		}
	}
}

func TestGetAssemblesHeader(t *testing.T) {
	userID := uuid.New()
	avatar := "https://cdn.example.com/a.png"
	user := &models.User{ID: userID, Email: "budi@example.com", FullName: "Budi Santoso", AvatarURL: &avatar}
	derived := &notifications.Result{UnreadCount: 2}

	var gotReq notifications.Request
	svc := newTestService(t, stubUsers{user: user}, stubNotifications{
		listFn: func(ctx context.Context, req notifications.Request) (*notifications.Result, error) {
			gotReq = req
			return derived, nil
		},
	})

	header, err := svc.Get(context.Background(), notifications.Request{UserID: userID, Locale: "en"})
	if err != nil {
		t.Fatalf("get header: %v", err)
	}
	if gotReq.UserID != userID || gotReq.Locale != "en" {
		t.Fatalf("unexpected notifications request %+v", gotReq)
	}
	if header.User.Initials != "BS" || header.User.DisplayName != "Budi Santoso" {
		t.Fatalf("unexpected user summary %+v", header.User)
	}
	if header.Notifications != derived {
		t.Fatalf("expected derived notifications to pass through")
	}
	if len(header.Menu) != 3 {
		t.Fatalf("expected 3 menu items, got %d", len(header.Menu))
	}
	wantHrefs := []string{PathDashboard, PathProfile, PathSettings}
	for i, item := range header.Menu {
		if item.Href != wantHrefs[i] {
			t.Fatalf("menu[%d] href = %s, want %s", i, item.Href, wantHrefs[i])
		}
		if item.Label == "" {
			t.Fatalf("menu[%d] missing label", i)
		}
	}
	if header.Logout.Redirect != "/" || header.Logout.Endpoint != LogoutEndpoint {
		t.Fatalf("unexpected logout action %+v", header.Logout)
	}
}

func TestGetDisplayNameFallsBackToEmail(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "rina@example.com"}
	svc := newTestService(t, stubUsers{user: user}, stubNotifications{
		listFn: func(ctx context.Context, req notifications.Request) (*notifications.Result, error) {
			return &notifications.Result{}, nil
		},
	})
	header, err := svc.Get(context.Background(), notifications.Request{UserID: user.ID})
	if err != nil {
		t.Fatalf("get header: %v", err)
	}
	if header.User.DisplayName != "rina@example.com" || header.User.Initials != "R" {
		t.Fatalf("unexpected user summary %+v", header.User)
	}
}

func TestGetPropagatesFailures(t *testing.T) {
	okList := stubNotifications{listFn: func(ctx context.Context, req notifications.Request) (*notifications.Result, error) {
		return &notifications.Result{}, nil
	}}

	svc := newTestService(t, stubUsers{err: gorm.ErrRecordNotFound}, okList)
	if _, err := svc.Get(context.Background(), notifications.Request{UserID: uuid.New()}); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	failing := stubNotifications{listFn: func(ctx context.Context, req notifications.Request) (*notifications.Result, error) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("redis down"), "load read state")
	}}
	svc = newTestService(t, stubUsers{user: &models.User{ID: uuid.New()}}, failing)
	if _, err := svc.Get(context.Background(), notifications.Request{UserID: uuid.New()}); !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}

	if _, err := svc.Get(context.Background(), notifications.Request{}); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized without user id")
	}
}

package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/xcelerate-fit/xcelerate-backend/internal/header"
	"github.com/xcelerate-fit/xcelerate-backend/internal/notifications"
)

type stubHeaderService struct {
	getFn func(ctx context.Context, req notifications.Request) (*header.Header, error)
}

func (s stubHeaderService) Get(ctx context.Context, req notifications.Request) (*header.Header, error) {
	return s.getFn(ctx, req)
}

func TestGetHeader(t *testing.T) {
	userID := uuid.New()
	svc := stubHeaderService{
		getFn: func(ctx context.Context, req notifications.Request) (*header.Header, error) {
			if req.UserID != userID || req.Locale != "en" {
				t.Fatalf("unexpected request %+v", req)
			}
			return &header.Header{
				User:   header.UserSummary{ID: userID, DisplayName: "Rina Wijaya", Initials: "RW"},
				Logout: header.LogoutAction{Redirect: header.PathAfterLogout},
				Home:   header.PathDashboard,
			}, nil
		},
	}

	resp := httptest.NewRecorder()
	GetHeader(svc, testLogger())(resp, authedRequest(http.MethodGet, "/api/v1/header", nil, userID))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data header.Header `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.User.Initials != "RW" || envelope.Data.Logout.Redirect != "/" {
		t.Fatalf("unexpected header %+v", envelope.Data)
	}
}

func TestGetHeaderUnauthenticated(t *testing.T) {
	svc := stubHeaderService{
		getFn: func(ctx context.Context, req notifications.Request) (*header.Header, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}
	resp := httptest.NewRecorder()
	GetHeader(svc, testLogger())(resp, httptest.NewRequest(http.MethodGet, "/api/v1/header", nil))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/xcelerate-fit/xcelerate-backend/internal/profiles"
	pkgerrors "github.com/xcelerate-fit/xcelerate-backend/pkg/errors"
)

type stubProfilesService struct {
	getFn    func(ctx context.Context, id uuid.UUID) (*profiles.ProfileDTO, error)
	updateFn func(ctx context.Context, id uuid.UUID, patch profiles.Patch) (*profiles.ProfileDTO, error)
}

func (s stubProfilesService) GetByID(ctx context.Context, id uuid.UUID) (*profiles.ProfileDTO, error) {
	return s.getFn(ctx, id)
}

func (s stubProfilesService) Update(ctx context.Context, id uuid.UUID, patch profiles.Patch) (*profiles.ProfileDTO, error) {
	return s.updateFn(ctx, id, patch)
}

func TestGetProfile(t *testing.T) {
	userID := uuid.New()
	svc := stubProfilesService{
		getFn: func(ctx context.Context, id uuid.UUID) (*profiles.ProfileDTO, error) {
			return &profiles.ProfileDTO{ID: id, FullName: "Rina"}, nil
		},
	}

	resp := httptest.NewRecorder()
	GetProfile(svc, testLogger())(resp, authedRequest(http.MethodGet, "/api/v1/profile", nil, userID))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data profiles.ProfileDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != userID || envelope.Data.FullName != "Rina" {
		t.Fatalf("unexpected profile %+v", envelope.Data)
	}
}

func TestUpdateProfilePassesOnlyPresentFields(t *testing.T) {
	cases := map[string]struct {
		body      string
		wantName  *string
		wantEmail *string
	}{
		"name only":  {body: `{"full_name":"Rina W"}`, wantName: strRef("Rina W")},
		"email only": {body: `{"email":"new@example.com"}`, wantEmail: strRef("new@example.com")},
		"both":       {body: `{"full_name":"Rina","email":"rina@example.com"}`, wantName: strRef("Rina"), wantEmail: strRef("rina@example.com")},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var got profiles.Patch
			svc := stubProfilesService{
				updateFn: func(ctx context.Context, id uuid.UUID, patch profiles.Patch) (*profiles.ProfileDTO, error) {
					got = patch
					return &profiles.ProfileDTO{ID: id}, nil
				},
			}

			resp := httptest.NewRecorder()
			UpdateProfile(svc, testLogger())(resp, authedRequest(http.MethodPut, "/api/v1/profile", strings.NewReader(tc.body), uuid.New()))

			if resp.Code != http.StatusOK {
				t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
			}
			if !sameString(got.FullName, tc.wantName) || !sameString(got.Email, tc.wantEmail) {
				t.Fatalf("unexpected patch name=%v email=%v", got.FullName, got.Email)
			}
		})
	}
}

func TestUpdateProfileRejectsEmptyPatchAndBadEmail(t *testing.T) {
	svc := stubProfilesService{
		updateFn: func(ctx context.Context, id uuid.UUID, patch profiles.Patch) (*profiles.ProfileDTO, error) {
			if patch.IsEmpty() {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "no profile fields provided")
			}
			t.Fatalf("service should not see %+v", patch)
			return nil, nil
		},
	}
	for _, body := range []string{`{}`, `{"email":"not-an-email"}`} {
		resp := httptest.NewRecorder()
		UpdateProfile(svc, testLogger())(resp, authedRequest(http.MethodPut, "/api/v1/profile", strings.NewReader(body), uuid.New()))
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400 got %d", body, resp.Code)
		}
	}
}

func strRef(s string) *string { return &s }

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

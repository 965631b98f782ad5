package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/xcelerate-fit/xcelerate-backend/api/middleware"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/config"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthLiveSetsEnvHeader(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	resp := httptest.NewRecorder()
	HealthLive(cfg)(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if resp.Header().Get("X-Xcelerate-Env") != "dev" {
		t.Fatalf("missing env header")
	}
}

func TestHealthReadyAllUp(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	deps := map[string]Pinger{
		"db":    pingFunc(func(context.Context) error { return nil }),
		"redis": pingFunc(func(context.Context) error { return nil }),
	}
	resp := httptest.NewRecorder()
	HealthReady(cfg, deps, testLogger())(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data struct {
			Status string            `json:"status"`
			Checks map[string]string `json:"checks"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Status != "ready" || envelope.Data.Checks["redis"] != "up" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestHealthReadyDependencyDown(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	deps := map[string]Pinger{
		"db":    pingFunc(func(context.Context) error { return nil }),
		"redis": pingFunc(func(context.Context) error { return errors.New("connection refused") }),
	}
	resp := httptest.NewRecorder()
	HealthReady(cfg, deps, testLogger())(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Details["redis"] != "down" || envelope.Error.Details["db"] != "up" {
		t.Fatalf("unexpected details %v", envelope.Error.Details)
	}
}

func TestPingEchoesCallerContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	ctx := middleware.WithLocale(middleware.WithUserID(req.Context(), "user-1"), "id")
	resp := httptest.NewRecorder()
	Ping("private")(resp, req.WithContext(ctx))

	var envelope struct {
		Data pingResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := pingResponse{Scope: "private", Status: "ok", UserID: "user-1", Locale: "id"}
	if envelope.Data != want {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

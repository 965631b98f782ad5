package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/xcelerate-fit/xcelerate-backend/api/middleware"
	"github.com/xcelerate-fit/xcelerate-backend/api/responses"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/config"
	pkgerrors "github.com/xcelerate-fit/xcelerate-backend/pkg/errors"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/logger"
)

const (
	envHeader         = "X-Xcelerate-Env"
	readyCheckTimeout = 2 * time.Second
)

// Pinger is satisfied by the database and redis clients.
type Pinger interface {
	Ping(ctx context.Context) error
}

type pingResponse struct {
	Scope  string `json:"scope"`
	Status string `json:"status"`
	UserID string `json:"user_id,omitempty"`
	Locale string `json:"locale,omitempty"`
}

// Ping answers with the caller's identity and negotiated locale when the route sits
// behind auth, which the dashboard uses to check its session on load.
func Ping(scope string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, pingResponse{
			Scope:  scope,
			Status: "ok",
			UserID: middleware.UserIDFromContext(r.Context()),
			Locale: middleware.LocaleFromContext(r.Context()),
		})
	}
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when every named dependency answers a ping.
func HealthReady(cfg *config.Config, deps map[string]Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		checks := make(map[string]string, len(deps))
		var failed *pkgerrors.Error
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				checks[name] = "down"
				if failed == nil {
					failed = pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable")
				}
				continue
			}
			checks[name] = "up"
		}

		if failed != nil {
			responses.WriteError(r.Context(), logg, w, failed.WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}

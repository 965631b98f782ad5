package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xcelerate-fit/xcelerate-backend/api/controllers"
	"github.com/xcelerate-fit/xcelerate-backend/api/middleware"
	"github.com/xcelerate-fit/xcelerate-backend/internal/activities"
	"github.com/xcelerate-fit/xcelerate-backend/internal/auth"
	"github.com/xcelerate-fit/xcelerate-backend/internal/header"
	"github.com/xcelerate-fit/xcelerate-backend/internal/notifications"
	"github.com/xcelerate-fit/xcelerate-backend/internal/profiles"
	"github.com/xcelerate-fit/xcelerate-backend/internal/settings"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/auth/session"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/config"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/i18n"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/logger"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/metrics"
	pkgredis "github.com/xcelerate-fit/xcelerate-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// cacheStore is the redis surface the HTTP layer needs: idempotency records and
// fixed-window counters for the auth endpoints.
type cacheStore interface {
	pkgredis.IdempotencyStore
	middleware.WindowLimiter
	Ping(ctx context.Context) error
}

// Services groups the domain services mounted under /api/v1.
type Services struct {
	Auth          auth.Service
	Register      auth.RegisterService
	Profiles      profiles.Service
	Settings      settings.Service
	Header        header.Service
	Notifications notifications.Service
	Activities    activities.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	cache cacheStore,
	sessionManager sessionManager,
	translator *i18n.Translator,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)
	if httpMetrics != nil {
		r.Use(middleware.Metrics(httpMetrics))
	}
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	if translator != nil {
		r.Use(middleware.Locale(translator, logg))
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)
	apiPolicy := middleware.RateLimitPolicy{
		Requests: cfg.RateLimit.Requests,
		Window:   cfg.RateLimit.Window,
		IdleTTL:  cfg.RateLimit.IdleTTL,
	}

	var (
		idempotencyStore pkgredis.IdempotencyStore
		limiter          middleware.WindowLimiter
		readyChecks      = map[string]controllers.Pinger{}
	)
	if cache != nil {
		idempotencyStore = cache
		limiter = cache
		readyChecks["redis"] = cache
	}
	if dbP != nil {
		readyChecks["db"] = dbP
	}
	idempotent := func(ttl time.Duration) func(http.Handler) http.Handler {
		return middleware.Idempotency(idempotencyStore, ttl, logg)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, readyChecks, logg))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.Ping("public"))
		r.Get("/schema-fix", controllers.SchemaFix())
		r.Get("/schema-fix.sql", controllers.SchemaFixScript())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, limiter, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, limiter, logg), idempotent(middleware.DefaultIdempotencyTTL)).Post("/register", controllers.AuthRegister(svcs.Register, svcs.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(sessionManager, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(sessionManager, cfg.JWT, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))
		r.Use(middleware.RateLimit(apiPolicy, logg))

		r.Get("/ping", controllers.Ping("private"))

		r.Route("/v1", func(r chi.Router) {
			r.Get("/session", controllers.SessionGet(svcs.Auth, logg))
			r.Get("/me", controllers.Me(svcs.Auth, logg))

			r.Get("/profile", controllers.GetProfile(svcs.Profiles, logg))
			r.Put("/profile", controllers.UpdateProfile(svcs.Profiles, logg))

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", controllers.GetSettings(svcs.Settings, logg))
				r.Put("/profile", controllers.UpdateProfileSettings(svcs.Settings, logg))
				r.Put("/notifications", controllers.UpdateNotificationSettings(svcs.Settings, logg))
				r.Put("/appearance", controllers.UpdateAppearanceSettings(svcs.Settings, logg))
				r.Put("/theme", controllers.UpdateThemeSettings(svcs.Settings, logg))
				r.Put("/security/password", controllers.ChangePassword(svcs.Settings, logg))
			})

			r.Get("/header", controllers.GetHeader(svcs.Header, logg))

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", controllers.ListNotifications(svcs.Notifications, logg))
				r.Get("/stream", controllers.StreamNotifications(svcs.Notifications, logg))
				r.Post("/preview", controllers.PreviewNotifications(svcs.Notifications, logg))
				r.Post("/read-all", controllers.MarkAllNotificationsRead(svcs.Notifications, logg))
				r.With(idempotent(middleware.DefaultIdempotencyTTL)).Post("/read-state", controllers.ImportNotificationReadState(svcs.Notifications, logg))
				r.Post("/{notificationId}/read", controllers.MarkNotificationRead(svcs.Notifications, logg))
			})

			r.Route("/activities", func(r chi.Router) {
				r.Get("/", controllers.ListActivities(svcs.Activities, logg))
				r.With(idempotent(middleware.ActivityIdempotencyTTL)).Post("/", controllers.CreateActivity(svcs.Activities, logg))
				r.Delete("/{activityId}", controllers.DeleteActivity(svcs.Activities, logg))
			})
		})
	})

	return r
}

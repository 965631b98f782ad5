package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/xcelerate-fit/xcelerate-backend/api/routes"
	"github.com/xcelerate-fit/xcelerate-backend/internal/activities"
	"github.com/xcelerate-fit/xcelerate-backend/internal/auth"
	"github.com/xcelerate-fit/xcelerate-backend/internal/header"
	"github.com/xcelerate-fit/xcelerate-backend/internal/notifications"
	"github.com/xcelerate-fit/xcelerate-backend/internal/profiles"
	"github.com/xcelerate-fit/xcelerate-backend/internal/settings"
	"github.com/xcelerate-fit/xcelerate-backend/internal/users"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/auth/session"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/config"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/db"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/env"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/i18n"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/logger"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/metrics"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/migrate"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.PrepareSchema(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to prepare schema", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := multierr.Combine(redisClient.Close(), dbClient.Close()); err != nil {
			logg.Error(context.Background(), "error closing resources", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	translator, err := i18n.New(cfg.Notifications.DefaultLocale)
	if err != nil {
		logg.Error(context.Background(), "failed to load translations", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	notificationMetrics := metrics.NewNotificationMetrics(registry)

	svcs, err := buildServices(cfg, logg, dbClient, redisClient, sessionManager, translator, notificationMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
		os.Exit(1)
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": env.Get("DYNO", "local"),
	})

	server := newServer(addr, routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, translator, httpMetrics, registry, svcs))

	stop, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stop.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
		}
	}
}

// newServer builds the HTTP server. Request contexts are cancelled as soon as Shutdown
// starts, so long-lived notification streams return instead of holding shutdown open.
func newServer(addr string, handler http.Handler) *http.Server {
	baseCtx, cancelBase := context.WithCancel(context.Background())
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return baseCtx
		},
	}
	server.RegisterOnShutdown(cancelBase)
	return server
}

func buildServices(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	sessionManager *session.Manager,
	translator *i18n.Translator,
	notificationMetrics *metrics.NotificationMetrics,
) (routes.Services, error) {
	loc, err := cfg.Notifications.Location()
	if err != nil {
		return routes.Services{}, err
	}

	userRepo := users.NewRepository(dbClient.DB())
	activityRepo := activities.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return routes.Services{}, err
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return routes.Services{}, err
	}

	profilesService, err := profiles.NewService(profiles.NewRepository(dbClient.DB()))
	if err != nil {
		return routes.Services{}, err
	}

	settingsService, err := settings.NewService(settings.ServiceParams{
		DB:             dbClient,
		Translator:     translator,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return routes.Services{}, err
	}

	activitiesService, err := activities.NewService(activityRepo)
	if err != nil {
		return routes.Services{}, err
	}

	notificationsService, err := notifications.NewService(notifications.ServiceParams{
		Activities:      activityRepo,
		ReadStore:       notifications.NewRedisReadStore(redisClient, cfg.Notifications.ReadStateTTL, logg),
		Deriver:         notifications.NewDeriver(loc, cfg.Notifications.WeeklyTarget),
		Translator:      translator,
		Metrics:         notificationMetrics,
		RefreshInterval: cfg.Notifications.RefreshInterval,
	})
	if err != nil {
		return routes.Services{}, err
	}

	headerService, err := header.NewService(header.ServiceParams{
		Users:         userRepo,
		Notifications: notificationsService,
		Translator:    translator,
	})
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Auth:          authService,
		Register:      registerService,
		Profiles:      profilesService,
		Settings:      settingsService,
		Header:        headerService,
		Notifications: notificationsService,
		Activities:    activitiesService,
	}, nil
}

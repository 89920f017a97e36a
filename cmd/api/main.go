package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/balarco/balarco-backend/api/controllers"
	"github.com/balarco/balarco-backend/api/routes"
	"github.com/balarco/balarco-backend/internal/auth"
	"github.com/balarco/balarco-backend/internal/clients"
	"github.com/balarco/balarco-backend/internal/igualas"
	"github.com/balarco/balarco-backend/internal/notifications"
	"github.com/balarco/balarco-backend/internal/users"
	"github.com/balarco/balarco-backend/internal/workflow"
	"github.com/balarco/balarco-backend/internal/works"
	"github.com/balarco/balarco-backend/pkg/auth/session"
	"github.com/balarco/balarco-backend/pkg/config"
	"github.com/balarco/balarco-backend/pkg/db"
	"github.com/balarco/balarco-backend/pkg/logger"
	"github.com/balarco/balarco-backend/pkg/metrics"
	"github.com/balarco/balarco-backend/pkg/migrate"
	"github.com/balarco/balarco-backend/pkg/redis"
	"github.com/balarco/balarco-backend/pkg/storage"
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, redisClient.Close()) }()

	store, err := storage.New(ctx, cfg.Storage, logg)
	if err != nil {
		return err
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	userRepo := users.NewRepository(dbClient.DB())
	notificationsRepo := notifications.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		return err
	}

	dispatcher, err := notifications.NewDispatcher(
		notificationsRepo,
		notifications.NewRedisPusher(redisClient),
		cfg.Notifications,
		metrics.NewNotificationMetrics(registry),
		logg,
	)
	if err != nil {
		return err
	}

	worksService, err := works.NewService(works.ServiceParams{
		Tx:                 dbClient,
		Repo:               works.NewRepository(dbClient.DB()),
		Engine:             workflow.NewEngine(workflow.DefaultTable()),
		Roles:              userRepo,
		Files:              store,
		Notifier:           dispatcher,
		Metrics:            metrics.NewWorkMetrics(registry),
		Logger:             logg,
		EnforceTransitions: cfg.Workflow.EnforceTransitions,
	})
	if err != nil {
		return err
	}

	notificationsService, err := notifications.NewService(notificationsRepo)
	if err != nil {
		return err
	}

	clientsService, err := clients.NewService(dbClient, clients.NewRepository(dbClient.DB()), logg)
	if err != nil {
		return err
	}

	igualasService, err := igualas.NewService(dbClient, igualas.NewRepository(dbClient.DB()), logg)
	if err != nil {
		return err
	}

	readiness := map[string]controllers.Pinger{
		"db":      dbClient,
		"redis":   redisClient,
		"storage": store,
	}

	addr := ":" + cfg.App.Port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			readiness,
			registry,
			redisClient,
			sessionManager,
			authService,
			worksService,
			notificationsService,
			clientsService,
			igualasService,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

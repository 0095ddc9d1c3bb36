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
	"golang.org/x/sync/errgroup"

	"github.com/PHRJr/BuritisProject/api/routes"
	"github.com/PHRJr/BuritisProject/internal/auth"
	"github.com/PHRJr/BuritisProject/internal/catalog"
	"github.com/PHRJr/BuritisProject/internal/orders"
	"github.com/PHRJr/BuritisProject/internal/reports"
	"github.com/PHRJr/BuritisProject/internal/users"
	"github.com/PHRJr/BuritisProject/pkg/auth/session"
	"github.com/PHRJr/BuritisProject/pkg/config"
	"github.com/PHRJr/BuritisProject/pkg/db"
	"github.com/PHRJr/BuritisProject/pkg/instance"
	"github.com/PHRJr/BuritisProject/pkg/logger"
	"github.com/PHRJr/BuritisProject/pkg/metrics"
	"github.com/PHRJr/BuritisProject/pkg/migrate"
	"github.com/PHRJr/BuritisProject/pkg/redis"
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

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	bootCtx := context.Background()

	dbClient, err := db.New(bootCtx, cfg.DB, logg)
	if err != nil {
		return err
	}

	redisClient, err := redis.New(bootCtx, cfg.Redis, logg)
	if err != nil {
		return multierr.Append(err, dbClient.Close())
	}
	defer func() {
		err = multierr.Combine(err, redisClient.Close(), dbClient.Close())
	}()

	if err := migrate.EnsureSchema(bootCtx, cfg, logg, dbClient); err != nil {
		return err
	}

	sessionManager, err := session.NewManager(redisClient, cfg.Session)
	if err != nil {
		return err
	}
	cookies, err := session.NewCookies(cfg.Session, cfg.App.IsProd())
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	services, err := buildServices(cfg, logg, dbClient, sessionManager, appMetrics)
	if err != nil {
		return err
	}

	addr := ":" + cfg.App.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, dbClient, redisClient, cookies, sessionManager, services, registry),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(ctx, "starting api server")

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logg.Info(ctx, "api server shutting down gracefully")
		return server.Shutdown(shutdownCtx)
	})

	return group.Wait()
}

func buildServices(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, sessions *session.Manager, m *metrics.Metrics) (routes.Services, error) {
	conn := dbClient.DB()

	allowList := users.NewRepository(conn)
	admins := users.NewAdminRepository(conn)

	authService, err := auth.NewService(auth.ServiceParams{
		AllowList:      allowList,
		Admins:         admins,
		Sessions:       sessions,
		AuthConfig:     cfg.Auth,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		return routes.Services{}, err
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(conn), dbClient, cfg.Catalog, m, logg)
	if err != nil {
		return routes.Services{}, err
	}

	ordersService, err := orders.NewService(orders.NewRepository(conn), dbClient, m, logg)
	if err != nil {
		return routes.Services{}, err
	}

	reportsService, err := reports.NewService(reports.NewRepository(conn), cfg.Catalog.ExportDelimiter, m, logg)
	if err != nil {
		return routes.Services{}, err
	}

	usersService, err := users.NewService(allowList, admins, dbClient, cfg.Catalog, cfg.Password, logg)
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Auth:    authService,
		Catalog: catalogService,
		Orders:  ordersService,
		Reports: reportsService,
		Users:   usersService,
	}, nil
}

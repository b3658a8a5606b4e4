package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/angelmondragon/wedsite-backend/api/routes"
	"github.com/angelmondragon/wedsite-backend/internal/approvals"
	"github.com/angelmondragon/wedsite-backend/internal/invitations"
	"github.com/angelmondragon/wedsite-backend/internal/notifications"
	"github.com/angelmondragon/wedsite-backend/internal/stationery"
	"github.com/angelmondragon/wedsite-backend/internal/venues"
	"github.com/angelmondragon/wedsite-backend/pkg/config"
	"github.com/angelmondragon/wedsite-backend/pkg/db"
	"github.com/angelmondragon/wedsite-backend/pkg/email"
	"github.com/angelmondragon/wedsite-backend/pkg/links"
	"github.com/angelmondragon/wedsite-backend/pkg/logger"
	"github.com/angelmondragon/wedsite-backend/pkg/maps"
	"github.com/angelmondragon/wedsite-backend/pkg/metrics"
	"github.com/angelmondragon/wedsite-backend/pkg/migrate"
	"github.com/angelmondragon/wedsite-backend/pkg/redis"
	"github.com/angelmondragon/wedsite-backend/pkg/security"
	"github.com/angelmondragon/wedsite-backend/pkg/storage/gcs"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "wedsite-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "wedsite-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api exited", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := metrics.NewRegistry()
	linkBuilder := links.NewBuilder(cfg.App.PublicBaseURL)

	var sender email.Sender = email.NewLogSender(logg)
	if cfg.Sendgrid.Enabled() {
		sg, err := email.NewSendgridSender(cfg.Sendgrid)
		if err != nil {
			return err
		}
		sender = sg
	} else {
		logg.Warn(ctx, "sendgrid disabled, emails are logged only")
	}

	notificationService, err := notifications.NewService(notifications.ServiceParams{
		Repo:                notifications.NewRepository(dbClient.DB()),
		Sender:              sender,
		Metrics:             registry.Email,
		Logger:              logg,
		DefaultPlannerEmail: cfg.Sendgrid.DefaultPlannerEmail,
	})
	if err != nil {
		return err
	}

	invitationService, err := invitations.NewService(invitations.NewRepository(dbClient.DB()), linkBuilder, logg)
	if err != nil {
		return err
	}

	approvalService, err := approvals.NewService(approvals.ServiceParams{
		Repo:     approvals.NewRepository(dbClient.DB()),
		Notifier: notificationService,
		Links:    linkBuilder,
		Metrics:  registry.Workflow,
		Logger:   logg,
		Now:      time.Now,
		NewToken: security.NewApprovalToken,
	})
	if err != nil {
		return err
	}

	// optional integrations stay untyped nil when unconfigured
	var (
		gcsPinger         gcs.Pinger
		stationeryService stationery.Service
	)
	if cfg.GCS.Enabled() {
		gcsClient, err := gcs.NewClient(ctx, cfg.GCS, cfg.GCP, logg)
		if err != nil {
			return err
		}
		gcsPinger = gcsClient
		stationeryService, err = stationery.NewService(stationery.Params{
			Owners:         invitationService,
			GCS:            gcsClient,
			Bucket:         gcsClient.DefaultBucket(),
			UploadTTL:      cfg.GCS.UploadURLExpiry,
			MaxUploadBytes: cfg.Stationery.MaxUploadBytes(),
			Logger:         logg,
		})
		if err != nil {
			return err
		}
	} else {
		logg.Warn(ctx, "gcs bucket not configured, stationery uploads disabled")
	}

	var venueService venues.Service
	if mapsClient, err := maps.NewClient(cfg.GoogleMaps.APIKey); err == nil {
		venueService = venues.NewService(mapsClient, logg)
	} else {
		logg.Warn(ctx, "google maps api key missing, venue lookup disabled")
		venueService = venues.NewService(nil, logg)
	}

	addr := ":" + cfg.App.Port
	srvCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			registry,
			dbClient,
			redisClient,
			gcsPinger,
			invitationService,
			approvalService,
			notificationService,
			venueService,
			stationeryService,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(srvCtx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info(srvCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

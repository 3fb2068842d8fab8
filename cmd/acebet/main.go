// Package main provides the entry point for the AceBet prediction API.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ThomasBury/AceBet/internal/artifact"
	"github.com/ThomasBury/AceBet/internal/auth"
	"github.com/ThomasBury/AceBet/internal/config"
	"github.com/ThomasBury/AceBet/internal/dataset"
	"github.com/ThomasBury/AceBet/internal/health"
	"github.com/ThomasBury/AceBet/internal/logger"
	"github.com/ThomasBury/AceBet/internal/metrics"
	"github.com/ThomasBury/AceBet/internal/predictor"
	"github.com/ThomasBury/AceBet/internal/scheduler"
	"github.com/ThomasBury/AceBet/internal/server"
	"github.com/ThomasBury/AceBet/internal/user"
)

// Build information - set via ldflags
var (
	Version = "dev"
)

var (
	configFile string
	appLog     *logrus.Logger
	cfg        *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(syncDataCmd)
}

var rootCmd = &cobra.Command{
	Use:   "acebet",
	Short: "Tennis match win-probability prediction API",
	Long:  `Serves win-probability predictions for a pair of players on a given date, behind bearer authentication and per-client rate limiting.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		appLog = logger.NewLogger(cfg.App.LogLevel)
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the prediction API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var syncDataCmd = &cobra.Command{
	Use:   "sync-data",
	Short: "Download the published dataset snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Data.SnapshotURL == "" {
			return fmt.Errorf("data.snapshot_url is not configured")
		}
		fetcher := dataset.NewFetcher(dataset.DefaultFetcherConfig(), appLog)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		return fetcher.Download(ctx, cfg.Data.SnapshotURL, cfg.Data.ProductionFile)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	return config.Validate(cfg)
}

func runServe() error {
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"version":     Version,
	}).Info("AceBet API starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	users, cleanup, err := buildDirectory(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	authSvc := auth.NewService(users, cfg.Auth.SecretKey, cfg.TokenTTL(), appLog)

	var resolver artifact.Resolver
	if cfg.Model.CacheEnabled {
		resolver = artifact.NewCachedResolver(time.Hour)
		appLog.Info("Freshness-checked artifact cache enabled")
	} else {
		resolver = artifact.NewResolver()
	}

	invoker := predictor.NewInvoker(cfg.PredictTimeout(), appLog)

	healthSrv := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Port:        cfg.Health.Port,
		Logger:      appLog,
		Checkers: []health.Checker{
			health.SnapshotChecker{Path: cfg.Data.ProductionFile},
			health.ArtifactChecker{Dir: cfg.Data.ModelDir, Resolver: resolver},
		},
	})
	if err := healthSrv.Start(ctx); err != nil {
		return fmt.Errorf("failed to start health server: %w", err)
	}

	if cfg.Metrics.Enabled {
		startMetricsServer(ctx)
	}

	sched := scheduler.NewScheduler(appLog)
	if err := sched.ScheduleArtifactProbe("@every 1m", cfg.Data.ModelDir); err != nil {
		return fmt.Errorf("failed to schedule artifact probe: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	srv := server.New(cfg, appLog, authSvc, resolver, invoker)
	healthSrv.SetReady(true)
	return srv.Start(ctx)
}

func buildDirectory(ctx context.Context) (user.Repository, func(), error) {
	if cfg.Auth.Backend == "postgres" {
		dir, err := user.NewPostgresDirectory(ctx, user.PostgresConfig{
			DSN:            cfg.GetDatabaseDSN(),
			MaxConnections: cfg.Auth.Database.MaxConnections,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect credential directory: %w", err)
		}
		appLog.Info("Postgres credential directory connected")
		return dir, dir.Close, nil
	}
	appLog.Info("Using in-memory credential directory")
	return user.NewSeededDirectory(), func() {}, nil
}

func startMetricsServer(ctx context.Context) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, metrics.Handler())
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler: mux,
	}
	go func() {
		appLog.WithField("port", cfg.Metrics.Port).Info("Metrics server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.WithError(err).Error("Metrics server error")
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
}

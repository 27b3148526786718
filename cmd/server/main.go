package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danlumempouw/voiceofsoul/internal/cache"
	"github.com/danlumempouw/voiceofsoul/internal/config"
	"github.com/danlumempouw/voiceofsoul/internal/server"
	"github.com/danlumempouw/voiceofsoul/pkg/postgres"
	"github.com/danlumempouw/voiceofsoul/pkg/utils/logging"
)

var env string

func main() {
	rootCmd := &cobra.Command{
		Use:   "server",
		Short: "Voice of Soul API server",
		Long:  `Serves the choir membership, attendance, and reporting API over HTTP.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	rootCmd.Flags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkFlagRequired("env")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	logger, err := logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("Starting server", zap.String("environment", env))

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := postgres.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.RunMigrations(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("Database initialized successfully")

	var snapshotCache *cache.Cache
	if cfg.Redis.Address != "" {
		snapshotCache, err = cache.New(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
		if err != nil {
			logger.Warn("Cache unavailable, continuing without it", zap.Error(err))
			snapshotCache = nil
		} else {
			defer snapshotCache.Close()
		}
	}

	srv := server.New(database, snapshotCache, cfg, logger)
	if err := srv.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}

	logger.Info("Server shut down cleanly")
	return nil
}

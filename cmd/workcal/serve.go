package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/workcal/workcal/internal/config"
	"github.com/workcal/workcal/internal/database"
	"github.com/workcal/workcal/internal/jobs"
	"github.com/workcal/workcal/internal/logger"
	"github.com/workcal/workcal/internal/observability"
	"github.com/workcal/workcal/internal/repository"
	"github.com/workcal/workcal/internal/server"
	"github.com/workcal/workcal/internal/storage"
)

// shutdownFlush bounds how long the APM agent may spend flushing on exit.
const shutdownFlush = 5 * time.Second

func newServeCmd() *cobra.Command {
	var skipMigrations bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and background jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), skipMigrations)
		},
	}
	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "Do not apply database migrations on start")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return database.RunMigrations(cmd.Context(), cfg.Database.URL(), logger.New(cfg))
		},
	}
}

func runServe(parent context.Context, skipMigrations bool) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !skipMigrations {
		if err := database.RunMigrations(ctx, cfg.Database.URL(), log); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	nrApp, err := observability.NewApplication(cfg.Observability, log)
	if err != nil {
		return err
	}
	if nrApp != nil {
		defer nrApp.Shutdown(shutdownFlush)
	}

	pool, err := database.NewPool(ctx, cfg.Database, log, nrApp != nil)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer pool.Close()

	archive := storage.NewArchive(cfg.Archive)
	if err := archive.EnsureBucket(ctx); err != nil {
		log.Warn().Err(err).Msg("archive bucket unavailable; exports may fail")
	}

	sessions := repository.NewSessionRepository(pool)
	srv := server.New(cfg, log, server.Stores{
		Users:    repository.NewUserRepository(pool),
		Sessions: sessions,
		Logs:     repository.NewLogRepository(pool),
	}, archive, nrApp)

	scheduler := jobs.NewScheduler(log)
	if err := scheduler.AddSessionCleanup(cfg.Jobs.SessionCleanupSchedule, sessions); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Start(gctx) })
	g.Go(func() error { return scheduler.Run(gctx) })
	if err := g.Wait(); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	log.Info().Msg("workcal stopped")
	return nil
}

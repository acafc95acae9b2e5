// Package main is the facecard server entry point.
//
// Wire-up order for `serve`:
//  1. Config
//  2. Logging
//  3. Database + migrations
//  4. Repositories
//  5. Services (email, rate limiter, maintenance)
//  6. Handlers
//  7. Router
//  8. HTTP server and cron, stopped together on SIGINT/SIGTERM
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/struffoli/facecard/config"
	"github.com/struffoli/facecard/database"
	"github.com/struffoli/facecard/pkg/logging"
)

const shutdownTimeout = 5 * time.Second

var rootCmd = &cobra.Command{
	Use:   "facecard",
	Short: "FaceCard API server",
	// Bare `facecard` behaves like `facecard serve`.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, args)
	},
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the maintenance scheduler",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	return cfg, nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	applied, err := db.Migrate(cmd.Context(), database.Migrations())
	if err != nil {
		return err
	}
	logging.Info().Int("applied", applied).Str("path", cfg.Database.Path).Msg("[main] migrations done")
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logging.Info().Str("addr", cfg.Server.Addr()).Msg("[main] facecard server starting")

	db, err := database.New(cfg.Database.Path, database.Migrations())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
		return err
	}

	repos := initRepositories(db.Conn)
	svcs, limiters := initServices(db.Conn, repos, cfg)
	defer limiters.Login.Stop()
	h := initHandlers(svcs, limiters, cfg)

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           initRoutes(h, svcs.Auth, repos.User, cfg),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logging.Info().Str("addr", srv.Addr).Msg("[main] listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		if err := svcs.Maintenance.Start(); err != nil {
			return err
		}
		<-gctx.Done()
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logging.Info().Msg("[main] shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		svcs.Maintenance.Stop(shutdownCtx)
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logging.Error().Err(err).Msg("[main] server stopped with error")
		return err
	}
	logging.Info().Msg("[main] server stopped gracefully")
	return nil
}

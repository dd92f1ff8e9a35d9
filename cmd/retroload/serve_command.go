package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fortuna/retroload/internal/api/rest"
	"github.com/fortuna/retroload/internal/cache"
	"github.com/fortuna/retroload/internal/config"
	"github.com/fortuna/retroload/internal/logging"
	"github.com/fortuna/retroload/internal/store"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var (
		bind      string
		driver    string
		dsn       string
		sqlite    string
		redisURL  string
		verbosity verbosity
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored documents over a read-only HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.loadConfig(func(cfg *config.Config) {
				changed := cmd.Flags().Changed
				if changed("bind") {
					cfg.API.Bind = bind
				}
				if changed("driver") {
					cfg.Storage.Driver = driver
				}
				if changed("dsn") {
					cfg.Storage.URL = dsn
				}
				if changed("sqlite-path") {
					cfg.Storage.SQLitePath = sqlite
				}
				if changed("redis-url") {
					cfg.Redis.URL = redisURL
				}
				verbosity.apply(cfg)
			})
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Address to listen on")
	cmd.Flags().StringVar(&driver, "driver", "", "Storage driver (postgres or sqlite)")
	cmd.Flags().StringVar(&dsn, "dsn", "", "Explicit storage connection string")
	cmd.Flags().StringVar(&sqlite, "sqlite-path", "", "SQLite database file")
	cmd.Flags().StringVar(&redisURL, "redis-url", "", "Redis URL for the document cache")
	addVerbosityFlags(cmd, &verbosity)

	return cmd
}

func runServe(cmd *cobra.Command, cfg *config.Config) error {
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.NewDatabase(ctx, cfg.Storage.Driver, cfg.Storage.DSN())
	if err != nil {
		return fmt.Errorf("connect to store: %w", err)
	}
	defer db.Close()
	logger.Info("connected to store", "driver", db.Driver(), "dsn", cfg.Storage.Redacted())

	var dc rest.DocumentCache
	if cfg.Redis.URL != "" {
		rc, err := cache.NewRedisCache(cfg.Redis.URL, time.Duration(cfg.Redis.CacheTTLSeconds)*time.Second)
		if err != nil {
			logger.Warn("document cache disabled", "error", err)
		} else {
			defer rc.Close()
			dc = rc
			logger.Info("document cache enabled", "ttl_seconds", cfg.Redis.CacheTTLSeconds)
		}
	}

	server := rest.NewServer(cfg.API, db, dc, logging.Component(logger, "api"))
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api shutdown: %w", err)
	}
	return <-errCh
}

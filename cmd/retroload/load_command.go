package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/fortuna/retroload/internal/config"
	"github.com/fortuna/retroload/internal/loader"
	"github.com/fortuna/retroload/internal/logging"
	"github.com/fortuna/retroload/internal/publisher"
	"github.com/fortuna/retroload/internal/store"
)

type loadFlags struct {
	dir        string
	host       string
	port       int
	database   string
	driver     string
	dsn        string
	sqlitePath string
	initDB     bool
	redisURL   string
	verbosity  verbosity
}

func newLoadCommand(ctx *commandContext) *cobra.Command {
	var flags loadFlags

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load a Retrosheet extract directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.loadConfig(func(cfg *config.Config) {
				flags.apply(cmd, cfg)
			})
			if err != nil {
				return err
			}
			if err := cfg.ValidateLoad(); err != nil {
				return err
			}
			return runLoad(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&flags.dir, "dir", "", "Directory holding the extracted event, roster and team files")
	cmd.Flags().StringVar(&flags.host, "host", "", "Postgres host")
	cmd.Flags().IntVar(&flags.port, "port", 0, "Postgres port")
	cmd.Flags().StringVar(&flags.database, "db", "", "Postgres database name")
	cmd.Flags().StringVar(&flags.driver, "driver", "", "Storage driver (postgres or sqlite)")
	cmd.Flags().StringVar(&flags.dsn, "dsn", "", "Explicit storage connection string")
	cmd.Flags().StringVar(&flags.sqlitePath, "sqlite-path", "", "SQLite database file")
	cmd.Flags().BoolVar(&flags.initDB, "init-db", false, "Drop and recreate all collections before loading")
	cmd.Flags().StringVar(&flags.redisURL, "redis-url", "", "Redis URL for load notifications")
	addVerbosityFlags(cmd, &flags.verbosity)

	return cmd
}

func (f *loadFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("dir") {
		cfg.Load.Dir = f.dir
	}
	if changed("host") {
		cfg.Storage.Host = f.host
	}
	if changed("port") {
		cfg.Storage.Port = f.port
	}
	if changed("db") {
		cfg.Storage.Database = f.database
	}
	if changed("driver") {
		cfg.Storage.Driver = f.driver
	}
	if changed("dsn") {
		cfg.Storage.URL = f.dsn
	}
	if changed("sqlite-path") {
		cfg.Storage.SQLitePath = f.sqlitePath
	}
	if changed("init-db") {
		cfg.Load.InitDB = f.initDB
	}
	if changed("redis-url") {
		cfg.Redis.URL = f.redisURL
	}
	f.verbosity.apply(cfg)
}

func runLoad(cmd *cobra.Command, cfg *config.Config) error {
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}

	lock, err := acquireLoadLock(cfg.Load.LockPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release load lock", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("connecting to store", "driver", cfg.Storage.Driver, "dsn", cfg.Storage.Redacted())
	db, err := store.NewDatabase(ctx, cfg.Storage.Driver, cfg.Storage.DSN())
	if err != nil {
		return fmt.Errorf("connect to store: %w", err)
	}
	defer db.Close()

	if cfg.Load.InitDB {
		if err := db.Reset(ctx); err != nil {
			return fmt.Errorf("initialize store: %w", err)
		}
		logger.Info("collections recreated")
	}

	opts := loader.Options{
		Logger:   logging.Component(logger, "loader"),
		Reporter: newProgressReporter(logger),
	}
	if cfg.Redis.URL != "" {
		pub, err := publisher.NewRedisPublisher(cfg.Redis.URL, cfg.Redis.Stream)
		if err != nil {
			logger.Warn("load notifications disabled", "error", err)
		} else {
			defer pub.Close()
			opts.Publisher = pub
			logger.Info("publishing load notifications", "stream", pub.Stream())
		}
	}

	summary, err := loader.New(db, opts).ProcessDirectory(ctx, cfg.Load.Dir)
	printSummary(cmd.OutOrStdout(), summary)
	if err != nil {
		return fmt.Errorf("load %s: %w", cfg.Load.Dir, err)
	}
	return nil
}

func acquireLoadLock(path string) (*flock.Flock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire load lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another load holds %s", path)
	}
	return lock, nil
}

func printSummary(out io.Writer, s loader.Summary) {
	rows := [][]string{
		{"Files loaded", strconv.Itoa(s.Files)},
		{"Files skipped", strconv.Itoa(s.FilesSkipped)},
		{"Games stored", strconv.Itoa(s.Games.Stored)},
		{"Teams stored", strconv.Itoa(s.Teams.Stored)},
		{"Roster entries stored", strconv.Itoa(s.Rosters.Stored)},
		{"Duplicates", strconv.Itoa(s.Games.Duplicates + s.Teams.Duplicates + s.Rosters.Duplicates)},
		{"Failed inserts", strconv.Itoa(s.Games.Failed + s.Teams.Failed + s.Rosters.Failed)},
		{"Skipped records", strconv.Itoa(s.RecordErrors + s.SkippedLines)},
		{"Duration", s.Duration.Round(time.Millisecond).String()},
	}
	fmt.Fprintln(out, renderTable(out, []string{"Run " + s.RunID, "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
}

// progressReporter logs one line per file.
type progressReporter struct {
	logger *slog.Logger
}

func newProgressReporter(logger *slog.Logger) *progressReporter {
	return &progressReporter{logger: logger}
}

func (r *progressReporter) OnLoadStart(dir, runID string, files int) {
	r.logger.Debug("found extract files", "dir", dir, "files", files)
}

func (r *progressReporter) OnFileStart(kind loader.FileKind, name string, index, total int) {
	r.logger.Info(fmt.Sprintf("loading %s (%d/%d)", name, index+1, total), "kind", kind)
}

func (r *progressReporter) OnFileSkipped(string, error) {}

func (r *progressReporter) OnDocument(store.InsertResult) {}

func (r *progressReporter) OnLoadComplete(loader.Summary) {}

// Command txdash-import copies a dataset into the SQLite database used by
// DATA_BACKEND=sqlite, so the dashboard can start offline.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"txdash/internal/backend"
	"txdash/internal/cli"
	"txdash/internal/config"
	applog "txdash/internal/log"
	"txdash/internal/sources"
	"txdash/internal/sources/file"
	"txdash/internal/sources/remote"
	"txdash/internal/storage"
)

func main() {
	cli.LoadEnvFile(applog.New(applog.DefaultConfig()))
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL")).WithComponent(applog.ComponentImport)
	cfg := config.Load()

	opts := options{}
	flag.StringVar(&opts.from, "from", "", "dataset URL (http/https) or JSON file path; defaults to the configured DATA_BACKEND")
	flag.StringVar(&opts.dbPath, "db", cfg.SQLiteDBPath, "SQLite database to write")
	flag.DurationVar(&opts.timeout, "timeout", time.Minute, "overall import timeout")
	flag.Parse()

	ctx, stop := cli.SignalContext()
	err := run(ctx, logger, cfg, opts)
	stop()
	if err != nil {
		cli.Fatal(logger, "Import failed", err, applog.FieldOperation, applog.OpImport, "from", opts.from, "db", opts.dbPath)
	}
}

type options struct {
	from    string
	dbPath  string
	timeout time.Duration
}

// run fetches the dataset and replaces the database contents. Every opened
// resource is released before it returns.
func run(ctx context.Context, logger *applog.Logger, cfg *config.Config, opts options) error {
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	src, cleanup, err := openSource(ctx, logger, cfg, opts.from, opts.dbPath)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer cleanup()

	start := time.Now()
	ds, err := src.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", src.Name(), err)
	}

	repo, err := storage.NewSQLiteRepository(opts.dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer repo.Close()

	if err := repo.ReplaceDataset(ctx, ds); err != nil {
		return fmt.Errorf("replace dataset: %w", err)
	}

	logger.Info("Dataset imported",
		applog.FieldOperation, applog.OpImport,
		"source", src.Name(),
		"db", opts.dbPath,
		"customers", len(ds.Customers),
		"transactions", len(ds.Transactions),
		applog.FieldDuration, time.Since(start).Milliseconds())
	return nil
}

// openSource picks the import source. Without -from the configured backend
// is used, except sqlite, which is the import target.
func openSource(ctx context.Context, logger *applog.Logger, cfg *config.Config, from, dbPath string) (sources.Source, func(), error) {
	noop := func() {}
	switch {
	case strings.HasPrefix(from, "http://") || strings.HasPrefix(from, "https://"):
		c, err := remote.New(from, cfg.FetchTimeout)
		return c, noop, err
	case from != "":
		s, err := file.New(from)
		return s, noop, err
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, noop, err
	}
	if backendCfg.Type == backend.SQLiteBackend {
		return nil, noop, fmt.Errorf("DATA_BACKEND=sqlite is the import target %s; pass -from", dbPath)
	}
	result, err := backend.NewFactory(logger.Logger).CreateSource(ctx, backendCfg)
	if err != nil {
		return nil, noop, err
	}
	return result.Source, func() {
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Warn("Source cleanup failed", "error", err)
			}
		}
	}, nil
}

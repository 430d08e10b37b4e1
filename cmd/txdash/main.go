package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"txdash/internal/backend"
	"txdash/internal/cache"
	"txdash/internal/cli"
	"txdash/internal/core"
	"txdash/internal/dataset"
	apphttp "txdash/internal/http"
	applog "txdash/internal/log"
	"txdash/internal/services"
)

func main() {
	cli.LoadEnvFile(applog.New(applog.DefaultConfig()))
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := cli.SignalContext()
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		cli.Fatal(logger, "Invalid backend configuration", err)
	}
	factory := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger)

	result, err := factory.CreateSource(ctx, backendCfg)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize data source", err, "backend", backendCfg.Type)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Source cleanup failed", "error", err)
			}
		}()
	}

	var notifier services.Notifier
	if publisher := factory.CreatePublisher(ctx, backendCfg); publisher != nil {
		notifier = publisher
		defer publisher.Close()
	}

	views := cache.NewLRUCache[[]core.Transaction](cfg.ViewCacheSize, cfg.ViewCacheTTL)
	series := cache.NewLRUCache[core.Series](cfg.ViewCacheSize, cfg.ViewCacheTTL)
	caches := cache.NewManager()
	caches.Register("views", views)
	caches.Register("series", series)
	caches.StartCleanup(ctx, time.Minute)
	defer caches.Stop()

	store := dataset.NewStore()
	dashboard := services.NewDashboardService(store, cfg.Mode(), views, series, logger)
	loader := services.NewLoader(store, result.Source, notifier, cfg.FetchTimeout, logger)

	srv := apphttp.NewServer(apphttp.Options{
		Addr:               ":" + cfg.Port,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Logger:             logger,
	}, dashboard)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting txdash server",
			"port", cfg.Port,
			"backend", backendCfg.Type,
			"source", result.Source.Name(),
			"filter_mode", cfg.Mode())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// A failed load is terminal for the dataset but the server keeps
	// serving the error page.
	g.Go(func() error {
		if err := loader.Run(gctx); err != nil {
			logger.Error("Dataset load failed", "error", err, "source", result.Source.Name())
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down", applog.FieldOperation, applog.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		cli.Fatal(logger, "Server error", err, "port", cfg.Port)
	}
	logger.Info("Server stopped gracefully")
}

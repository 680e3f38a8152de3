package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/playperu/newsmap/internal/config"
	"github.com/playperu/newsmap/internal/game"
	"github.com/playperu/newsmap/internal/handler/health"
	"github.com/playperu/newsmap/internal/headlines"
	"github.com/playperu/newsmap/internal/headlines/googlenews"
	"github.com/playperu/newsmap/internal/headlines/newsdata"
	"github.com/playperu/newsmap/internal/httpclient"
	"github.com/playperu/newsmap/internal/locations"
	"github.com/playperu/newsmap/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- Locations ---
	dir, err := locations.Load(cfg.LocationsFile)
	if err != nil {
		return fmt.Errorf("loading locations: %w", err)
	}
	logger.Info("loaded locations", "count", dir.Len(), "file", cfg.LocationsFile)

	// --- Headlines ---
	hc := httpclient.DefaultConfig()
	hc.Timeout = cfg.UpstreamTimeout
	fetcher := httpclient.NewFetcher(
		httpclient.WithClient(httpclient.New(hc)),
		httpclient.WithTimeout(cfg.UpstreamTimeout),
	)
	if cfg.NewsAPIKey == "" {
		logger.Warn("NEWS_API_KEY not set, using Google News only")
	}
	chain := headlines.NewChain(logger,
		newsdata.New(fetcher, cfg.NewsdataURL, cfg.NewsAPIKey),
		googlenews.New(fetcher, cfg.GoogleNewsURL),
	)
	cache := headlines.NewCache(logger, chain, cfg.CacheTTL)

	// --- Game ---
	engine := game.NewEngine(logger, dir, cache, cfg.SessionRetention)

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Engine:     engine,
		Directory:  dir,
		Headlines:  cache,
		Checks:     map[string]health.Checker{"locations": dir, "cache": cache},
		CORSOrigin: cfg.CORSOrigin,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	if cfg.SessionSweepInterval > 0 {
		g.Go(func() error {
			return engine.RunSweeper(gctx, cfg.SessionSweepInterval)
		})
	}

	if cfg.CacheJanitorInterval > 0 {
		g.Go(func() error {
			return cache.RunJanitor(gctx, cfg.CacheJanitorInterval)
		})
	}

	return g.Wait()
}

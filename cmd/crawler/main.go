// Command crawler runs the crawl engine against a Postgres-backed page
// store: it seeds the frontier with a starting URL (if one is configured),
// then drains it until exhausted, one page at a time or, with
// FANOUT_ENABLED, through the concurrent FanoutEngine.
package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/dastarruer/search-engine/internal/config"
	"github.com/dastarruer/search-engine/internal/contentpolicy"
	"github.com/dastarruer/search-engine/internal/crawler"
	"github.com/dastarruer/search-engine/internal/fetch"
	"github.com/dastarruer/search-engine/internal/logging"
	"github.com/dastarruer/search-engine/internal/store"
)

func main() {
	log := logging.New("crawler")
	cfg := config.Load()

	ctx := context.Background()

	pool, err := store.Connect(ctx, store.ConnConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		Name:     cfg.DB.Name,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to postgres")
	}
	defer pool.Close()

	if err := store.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("could not apply schema")
	}

	gw := store.NewPostgres(pool)
	defer gw.Close()

	fetcher := fetch.New(cfg.Crawler.Version, cfg.Crawler.ContactURL)
	filter := contentpolicy.DefaultFilter()

	engine, err := crawler.New(ctx, fetcher, filter, gw, log)
	if err != nil {
		log.Fatal().Err(err).Msg("could not build crawl engine")
	}

	if cfg.Crawler.SeedURL != "" {
		if err := engine.Seed(ctx, cfg.Crawler.SeedURL); err != nil {
			log.Warn().Err(err).Str("url", cfg.Crawler.SeedURL).Msg("could not seed starting url")
		}
	}

	go serveMetrics(log)

	if cfg.Fanout.Enabled {
		fanout := crawler.NewFanout(engine, crawler.FanoutConfig{
			UserAgent:   fmt.Sprintf("crawler/%s (%s)", cfg.Crawler.Version, cfg.Crawler.ContactURL),
			Workers:     cfg.Fanout.Workers,
			Delay:       cfg.Fanout.Delay,
			RandomDelay: cfg.Fanout.RandomDelay,
			Parallelism: cfg.Fanout.Parallelism,
		})
		if err := fanout.Run(ctx); err != nil {
			log.Fatal().Err(err).Msg("fanout crawl run failed")
		}
		return
	}

	if err := engine.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("crawl run failed")
	}
}

// serveMetrics exposes Prometheus scrape output on :9090/metrics for the
// lifetime of the process. A failure here is logged, not fatal: losing
// metrics shouldn't take down an otherwise-healthy crawl.
func serveMetrics(log zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: ":9090", Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if err := server.ListenAndServe(); err != nil {
		log.Warn().Err(err).Msg("metrics server stopped")
	}
}

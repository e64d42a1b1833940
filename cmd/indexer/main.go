// Command indexer runs the TF-IDF indexer against a Postgres-backed page
// store: it primes its corpus size from already-indexed pages, then
// drains crawled-but-unindexed pages in batches until none remain.
package main

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/dastarruer/search-engine/internal/config"
	"github.com/dastarruer/search-engine/internal/index"
	"github.com/dastarruer/search-engine/internal/logging"
	"github.com/dastarruer/search-engine/internal/store"
)

func main() {
	log := logging.New("indexer")
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

	ix, err := index.New(ctx, gw, log)
	if err != nil {
		log.Fatal().Err(err).Msg("could not build indexer")
	}

	go serveMetrics(log)

	if err := ix.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("index run failed")
	}
}

func serveMetrics(log zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: ":9091", Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if err := server.ListenAndServe(); err != nil {
		log.Warn().Err(err).Msg("metrics server stopped")
	}
}

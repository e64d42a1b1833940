// Package metrics exposes Prometheus counters and gauges for the crawl
// and index engines, served over /metrics by each binary's HTTP listener.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PagesCrawled counts every page Engine.Run hands to CrawlPage,
	// labeled by the eventual disposition so a dashboard can break down
	// success versus each crawlerr.Kind.
	PagesCrawled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crawler_pages_crawled_total",
		Help: "Pages processed by the crawl engine, by outcome.",
	}, []string{"outcome"})

	// FrontierSize reports how many pages are currently buffered in the
	// crawler's in-memory frontier, sampled on every pop.
	FrontierSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "crawler_frontier_size",
		Help: "Pages currently buffered in the crawl frontier.",
	})

	// PagesIndexed counts pages the indexer has finished parsing.
	PagesIndexed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "indexer_pages_indexed_total",
		Help: "Pages the indexer has parsed and marked indexed.",
	})

	// TermsInBatch reports the size of the in-memory term map, sampled
	// after every parsed page of the current indexing batch.
	TermsInBatch = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "indexer_terms_in_batch",
		Help: "Distinct terms accumulated in the current indexing batch.",
	})
)

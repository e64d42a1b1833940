// Package index implements the TF-IDF indexer: it pulls crawled-but-
// unindexed pages in batches, accumulates term statistics for every term
// currently held in memory on each page it parses, and at the end of a
// batch merges those statistics into storage and starts the next batch
// fresh.
package index

import (
	"bytes"
	"context"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/dastarruer/search-engine/internal/metrics"
	"github.com/dastarruer/search-engine/internal/page"
	"github.com/dastarruer/search-engine/internal/store"
	"github.com/dastarruer/search-engine/internal/term"
)

// Indexer holds the in-memory term map for the batch currently being
// built, plus the running count of indexed pages that backs every term's
// IDF calculation.
type Indexer struct {
	gw       store.Gateway
	frontier *frontier
	terms    map[string]*term.Term
	numPages int64
	log      zerolog.Logger
}

// New primes an Indexer with the number of already-indexed pages, so IDF
// for the first batch is computed against the true corpus size rather
// than starting from zero.
func New(ctx context.Context, gw store.Gateway, log zerolog.Logger) (*Indexer, error) {
	numPages, err := gw.CountIndexed(ctx)
	if err != nil {
		return nil, err
	}
	return &Indexer{
		gw:       gw,
		frontier: newFrontier(gw),
		terms:    make(map[string]*term.Term),
		numPages: numPages,
		log:      log,
	}, nil
}

// ParsePage tokenizes a page's body text, updates every term currently
// held in memory (not just the ones found on this page) against the new
// page count, and marks the page indexed. A term absent from this page
// still has its TF for this page computed (as zero occurrences), so a
// term seen on an earlier page in this batch correctly keeps the same
// page_frequency if this page doesn't mention it, rather than drifting.
func (ix *Indexer) ParsePage(ctx context.Context, ip store.IndexablePage) error {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(ip.HTML)))
	if err != nil {
		return err
	}

	bodyText := doc.Find("body").Text()
	tokens := term.Tokenize(bodyText)

	for _, tok := range tokens {
		if _, ok := ix.terms[tok]; !ok {
			ix.terms[tok] = term.New(tok)
		}
	}

	ix.numPages++

	for name, t := range ix.terms {
		tf := term.TF(tokens, name)
		t.RecordPage(ip.ID, tf)
		t.Refresh(ix.numPages)
	}

	metrics.PagesIndexed.Inc()
	metrics.TermsInBatch.Set(float64(len(ix.terms)))

	return ix.gw.MarkIndexed(ctx, ip.ID)
}

// Run drains the indexer's frontier in batches of at most page.Limit pages:
// within a batch, pages are parsed one after another against the same
// in-memory term map; at the end of every batch the terms are merged into
// storage and the map is cleared, bounding how large it can grow no matter
// how big the corpus behind the frontier is. Run returns once a batch
// parses no pages at all.
func (ix *Indexer) Run(ctx context.Context) error {
	for {
		parsedAny := false

		for i := 0; i < page.Limit; i++ {
			ip, ok, err := ix.frontier.pop(ctx)
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			parsedAny = true

			if err := ix.ParsePage(ctx, ip); err != nil {
				ix.log.Warn().Err(err).Str("page_id", ip.ID).Msg("failed to parse page")
			}
		}

		if len(ix.terms) > 0 {
			if err := ix.flush(ctx); err != nil {
				return err
			}
		}

		if !parsedAny {
			return nil
		}
	}
}

// flush merges every in-memory term with its persisted row, if any, and
// writes the merged result back, then clears the map so the next batch
// starts clean.
func (ix *Indexer) flush(ctx context.Context) error {
	for name, t := range ix.terms {
		persisted, found, err := ix.gw.FetchTerm(ctx, name)
		if err != nil {
			ix.log.Warn().Err(err).Str("term", name).Msg("failed to fetch persisted term")
		} else if found {
			t.MergeFrom(persisted)
		}

		if err := ix.gw.UpsertTerm(ctx, t); err != nil {
			ix.log.Warn().Err(err).Str("term", name).Msg("failed to persist term")
		}
	}

	ix.terms = make(map[string]*term.Term)
	return nil
}

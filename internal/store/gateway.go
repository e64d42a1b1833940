// Package store is the persistence gateway both the crawler and the
// indexer talk through. Gateway has two implementations: Postgres, backed
// by a real database, and Memory, an in-process stand-in used by tests
// and by any caller that wants to run without a database at all.
package store

import (
	"context"

	"github.com/dastarruer/search-engine/internal/term"
)

// IndexablePage is a crawled-but-not-yet-indexed row handed to the indexer.
type IndexablePage struct {
	ID   string
	HTML string
}

// Gateway is every operation the crawl and index engines need from
// storage. Implementations must make InsertUncrawled idempotent: inserting
// a URL already present, crawled or not, is a no-op rather than an error.
type Gateway interface {
	// InsertUncrawled adds url to the pages table if it isn't already
	// present under any status. Conflicts are silently ignored.
	InsertUncrawled(ctx context.Context, url string) error

	// MarkCrawled records a page's fetched HTML and title and flips its
	// is_crawled flag.
	MarkCrawled(ctx context.Context, url, html, title string) error

	// FetchUncrawledBatch returns up to limit URLs with is_crawled = FALSE,
	// used to refill the crawl frontier.
	FetchUncrawledBatch(ctx context.Context, limit int) ([]string, error)

	// FetchCrawledSet returns up to limit URLs with is_crawled = TRUE, used
	// to prime the "already visited" set on startup.
	FetchCrawledSet(ctx context.Context, limit int) ([]string, error)

	// FetchUnindexedCrawled returns up to limit crawled-but-not-indexed
	// pages, used to refill the indexer's frontier.
	FetchUnindexedCrawled(ctx context.Context, limit int) ([]IndexablePage, error)

	// FetchTerm returns the persisted row for a normalised term, if any,
	// so the indexer can merge this batch's scores into it before writing
	// back. found is false if no such row exists yet.
	FetchTerm(ctx context.Context, normalized string) (t *term.Term, found bool, err error)

	// UpsertTerm inserts t, or overwrites the existing row for the same
	// normalised term if one exists. Callers are expected to have already
	// merged any persisted state into t via term.Term.MergeFrom.
	UpsertTerm(ctx context.Context, t *term.Term) error

	// MarkIndexed flips a page's is_indexed flag.
	MarkIndexed(ctx context.Context, pageID string) error

	// CountIndexed returns the number of pages with is_indexed = TRUE,
	// used to seed the indexer's corpus size on startup.
	CountIndexed(ctx context.Context) (int64, error)

	// Close releases any underlying connections.
	Close()
}

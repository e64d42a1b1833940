// Package crawler implements the crawl engine: the single-threaded loop
// that pops a URL off the frontier, fetches and filters it, extracts its
// links and text, and persists the result before moving to the next URL.
package crawler

import (
	"context"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/dastarruer/search-engine/internal/contentpolicy"
	"github.com/dastarruer/search-engine/internal/crawlerr"
	"github.com/dastarruer/search-engine/internal/extract"
	"github.com/dastarruer/search-engine/internal/fetch"
	"github.com/dastarruer/search-engine/internal/metrics"
	"github.com/dastarruer/search-engine/internal/page"
	"github.com/dastarruer/search-engine/internal/store"
	"github.com/dastarruer/search-engine/internal/urlnorm"
)

// Engine owns the frontier and the resources needed to turn a Page into a
// CrawledPage: a Fetcher, a content Filter, and the storage Gateway it
// both refills from and persists results to.
type Engine struct {
	fetcher *fetch.Fetcher
	filter  *contentpolicy.Filter
	gw      store.Gateway
	queue   *page.Queue
	visited map[string]struct{}
	log     zerolog.Logger
}

// New builds an Engine, priming its "already crawled" set from storage so
// a restarted process doesn't re-queue pages it already has.
func New(ctx context.Context, fetcher *fetch.Fetcher, filter *contentpolicy.Filter, gw store.Gateway, log zerolog.Logger) (*Engine, error) {
	visited := make(map[string]struct{})
	crawled, err := gw.FetchCrawledSet(ctx, page.Limit)
	if err != nil {
		return nil, err
	}
	for _, u := range crawled {
		visited[u] = struct{}{}
	}

	e := &Engine{
		fetcher: fetcher,
		filter:  filter,
		gw:      gw,
		visited: visited,
		log:     log,
	}
	e.queue = page.NewQueue(gw.FetchUncrawledBatch)
	return e, nil
}

// Seed enqueues a starting URL, inserting it into storage first so it
// survives a restart even if the process dies before crawling it.
func (e *Engine) Seed(ctx context.Context, rawURL string) error {
	if _, err := urlnorm.Domain(rawURL); err != nil {
		return err
	}
	if err := e.gw.InsertUncrawled(ctx, rawURL); err != nil {
		return err
	}
	e.queue.Push(page.Page{URL: rawURL})
	return nil
}

// CrawlPage fetches p, runs it through the language and content filters,
// extracts its title and visible text, discovers and enqueues its links,
// and returns the crawled result. It never returns a partially filled
// CrawledPage: on any error the page is not persisted by the caller.
func (e *Engine) CrawlPage(ctx context.Context, p page.Page) (page.CrawledPage, error) {
	doc, err := e.fetcher.Fetch(ctx, p.URL)
	if err != nil {
		return page.CrawledPage{}, err
	}

	lang := extract.RootLang(doc)
	text := extract.VisibleText(doc)
	if err := e.filter.Check(p.URL, lang, text); err != nil {
		return page.CrawledPage{}, err
	}

	base, err := url.Parse(p.URL)
	if err != nil {
		return page.CrawledPage{}, crawlerr.New(crawlerr.InvalidDomain, p.URL)
	}

	for _, a := range extract.Anchors(doc) {
		resolved, err := urlnorm.Resolve(base, a.Href)
		if err != nil {
			continue
		}
		if _, seen := e.visited[resolved]; seen {
			continue
		}
		if e.queue.Contains(resolved) {
			continue
		}
		if err := e.gw.InsertUncrawled(ctx, resolved); err != nil {
			e.log.Warn().Err(err).Str("url", resolved).Msg("failed to persist discovered link")
			continue
		}
		e.queue.Push(page.Page{URL: resolved})
	}

	html, err := doc.Html()
	if err != nil {
		return page.CrawledPage{}, crawlerr.New(crawlerr.HtmlDecoding, p.URL).WithDetail(err.Error())
	}

	return page.CrawledPage{
		URL:   p.URL,
		Title: extract.Title(doc),
		HTML:  html,
	}, nil
}

// Run drains the frontier, crawling one page at a time until the queue is
// exhausted even after a refill attempt. Per-page failures are logged and
// never abort the loop; only a storage error while refilling the frontier
// propagates out.
func (e *Engine) Run(ctx context.Context) error {
	for {
		p, ok, err := e.queue.Pop(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if _, seen := e.visited[p.URL]; seen {
			continue
		}

		metrics.FrontierSize.Set(float64(e.queue.Len()))

		crawled, err := e.CrawlPage(ctx, p)
		e.visited[p.URL] = struct{}{}
		if err != nil {
			outcome := "error"
			if ce, ok := err.(*crawlerr.Error); ok {
				outcome = ce.Kind.String()
			}
			metrics.PagesCrawled.WithLabelValues(outcome).Inc()
			e.log.Warn().Err(err).Str("url", p.URL).Msg("failed to crawl page")
			continue
		}
		metrics.PagesCrawled.WithLabelValues("success").Inc()

		if err := e.gw.MarkCrawled(ctx, crawled.URL, crawled.HTML, crawled.Title); err != nil {
			e.log.Warn().Err(err).Str("url", crawled.URL).Msg("failed to persist crawled page")
		}
	}
}

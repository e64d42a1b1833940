package crawler

import (
	"bytes"
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/dastarruer/search-engine/internal/crawlerr"
	"github.com/dastarruer/search-engine/internal/extract"
	"github.com/dastarruer/search-engine/internal/page"
	"github.com/dastarruer/search-engine/internal/urlnorm"
)

// FanoutConfig tunes the optional concurrent crawl path. It is the same
// shape of knob the teacher's Colly integration exposed, trimmed to the
// fields a bounded worker pool actually needs.
type FanoutConfig struct {
	UserAgent   string
	Workers     int
	Delay       time.Duration
	RandomDelay time.Duration
	Parallelism int
}

// FanoutEngine is an additive, optional enhancement over Engine: it fans
// per-page work out over a bounded pool of goroutines instead of crawling
// one page at a time. It is not required for correctness — Engine.Run
// alone implements the full crawl contract. It shares Engine's frontier,
// visited set and content filter, but fetches through Colly instead of
// fetch.Fetcher: a response with status 203 or above, 429 included, is reported as
// FailedRequest with no Retry-After wait, and a response whose
// Content-Type does not mention html is rejected as HtmlDecoding.
// The shared frontier and visited set are guarded by a mutex since they
// are no longer owned by a single goroutine.
type FanoutEngine struct {
	*Engine
	mu      sync.Mutex
	collect *colly.Collector
	workers int
}

// NewFanout wraps an existing Engine with a Colly-backed collector
// configured for bounded concurrent fetches.
func NewFanout(e *Engine, cfg FanoutConfig) *FanoutEngine {
	c := colly.NewCollector()
	c.UserAgent = cfg.UserAgent
	if cfg.Delay > 0 || cfg.Parallelism > 0 {
		c.Limit(&colly.LimitRule{
			DomainGlob:  "*",
			Parallelism: cfg.Parallelism,
			Delay:       cfg.Delay,
			RandomDelay: cfg.RandomDelay,
		})
	}
	c.SetRequestTimeout(15 * time.Second)

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	return &FanoutEngine{Engine: e, collect: c, workers: workers}
}

// Run drains the frontier the same way Engine.Run does, except up to
// Workers pages are in flight at once. Pop and the visited-set check are
// serialized under the mutex; only the fetch-and-filter work happens
// concurrently.
func (f *FanoutEngine) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	errCh := make(chan error, 1)

	for i := 0; i < f.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				p, ok, err := f.nextPage(ctx)
				if err != nil {
					select {
					case errCh <- err:
					default:
					}
					return
				}
				if !ok {
					return
				}

				crawled, err := f.crawlPageColly(ctx, p)
				f.mu.Lock()
				f.visited[p.URL] = struct{}{}
				f.mu.Unlock()

				if err != nil {
					f.log.Warn().Err(err).Str("url", p.URL).Msg("failed to crawl page")
					continue
				}
				if err := f.gw.MarkCrawled(ctx, crawled.URL, crawled.HTML, crawled.Title); err != nil {
					f.log.Warn().Err(err).Str("url", crawled.URL).Msg("failed to persist crawled page")
				}
			}
		}()
	}

	wg.Wait()
	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}

func (f *FanoutEngine) nextPage(ctx context.Context) (page.Page, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for {
		p, ok, err := f.queue.Pop(ctx)
		if err != nil || !ok {
			return p, ok, err
		}
		if _, seen := f.visited[p.URL]; seen {
			continue
		}
		return p, true, nil
	}
}

// crawlPageColly mirrors Engine.CrawlPage's fetch→filter→extract→enqueue
// contract but issues the request through the shared Colly collector
// instead of the single-threaded Fetcher, so concurrent requests share
// rate limiting.
func (f *FanoutEngine) crawlPageColly(ctx context.Context, p page.Page) (page.CrawledPage, error) {
	var doc *goquery.Document
	var fetchErr error

	c := f.collect.Clone()
	c.OnResponse(func(r *colly.Response) {
		if !strings.Contains(r.Headers.Get("Content-Type"), "html") {
			fetchErr = crawlerr.New(crawlerr.HtmlDecoding, p.URL).WithDetail("non-html response")
			return
		}
		if len(r.Body) == 0 {
			fetchErr = crawlerr.New(crawlerr.EmptyPage, p.URL)
			return
		}
		d, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		if err != nil {
			fetchErr = crawlerr.New(crawlerr.HtmlDecoding, p.URL).WithDetail(err.Error())
			return
		}
		doc = d
	})
	c.OnError(func(r *colly.Response, err error) {
		fetchErr = crawlerr.New(crawlerr.FailedRequest, p.URL).WithDetail(err.Error())
	})

	if err := c.Visit(p.URL); err != nil {
		return page.CrawledPage{}, crawlerr.New(crawlerr.FailedRequest, p.URL).WithDetail(err.Error())
	}
	if fetchErr != nil {
		return page.CrawledPage{}, fetchErr
	}
	if doc == nil {
		return page.CrawledPage{}, crawlerr.New(crawlerr.EmptyPage, p.URL)
	}

	lang := extract.RootLang(doc)
	text := extract.VisibleText(doc)
	if err := f.filter.Check(p.URL, lang, text); err != nil {
		return page.CrawledPage{}, err
	}

	base, err := url.Parse(p.URL)
	if err != nil {
		return page.CrawledPage{}, crawlerr.New(crawlerr.InvalidDomain, p.URL)
	}

	f.mu.Lock()
	for _, a := range extract.Anchors(doc) {
		resolved, err := urlnorm.Resolve(base, a.Href)
		if err != nil {
			continue
		}
		if _, seen := f.visited[resolved]; seen {
			continue
		}
		if f.queue.Contains(resolved) {
			continue
		}
		if err := f.gw.InsertUncrawled(ctx, resolved); err != nil {
			f.log.Warn().Err(err).Str("url", resolved).Msg("failed to persist discovered link")
			continue
		}
		f.queue.Push(page.Page{URL: resolved})
	}
	f.mu.Unlock()

	html, err := doc.Html()
	if err != nil {
		return page.CrawledPage{}, crawlerr.New(crawlerr.HtmlDecoding, p.URL).WithDetail(err.Error())
	}

	return page.CrawledPage{URL: p.URL, Title: extract.Title(doc), HTML: html}, nil
}
